package serverconfig

import "time"

type Config struct {
	Server  HTTPServerConfig `yaml:"server" mapstructure:"server"`
	Ops     OpsServerConfig  `yaml:"ops" mapstructure:"ops"`
	Log     LogConfig        `yaml:"log" mapstructure:"log"`
	Game    GameConfig       `yaml:"game" mapstructure:"game"`
	Logic   LogicConfig      `yaml:"logic" mapstructure:"logic"`
	Journal JournalConfig    `yaml:"journal" mapstructure:"journal"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
	// WS 每个连接的发送队列长度
	WSQueue int `yaml:"ws_queue" mapstructure:"ws_queue"`
}

// OpsServerConfig 运维 gRPC 端口（health），port 为 0 时不启动。
type OpsServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

type GameConfig struct {
	TickInterval     time.Duration `yaml:"tick_interval" mapstructure:"tick_interval"`
	AskTimeout       time.Duration `yaml:"ask_timeout" mapstructure:"ask_timeout"`
	ChatLimit        int           `yaml:"chat_limit" mapstructure:"chat_limit"`
	MapSize          int           `yaml:"map_size" mapstructure:"map_size"`
	TrustBattleStats bool          `yaml:"trust_battle_stats" mapstructure:"trust_battle_stats"`
	Start            StartConfig   `yaml:"start" mapstructure:"start"`
}

// StartConfig 新玩家的初始资源。
type StartConfig struct {
	Gold int64 `yaml:"gold" mapstructure:"gold"`
	Wood int64 `yaml:"wood" mapstructure:"wood"`
	Food int64 `yaml:"food" mapstructure:"food"`
}

type LogicConfig struct {
	CatalogFile string `yaml:"catalog_file" mapstructure:"catalog_file"`
}

type JournalConfig struct {
	// Driver 为空时不落事件流水；可选 mongo / mysql。
	Driver  string        `yaml:"driver" mapstructure:"driver"`
	MongoDB MongoDBConfig `yaml:"mongodb" mapstructure:"mongodb"`
	MySQL   MySQLConfig   `yaml:"mysql" mapstructure:"mysql"`
}

type MongoDBConfig struct {
	URI        string        `yaml:"uri" mapstructure:"uri"`
	Database   string        `yaml:"database" mapstructure:"database"`
	Collection string        `yaml:"collection" mapstructure:"collection"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
	ShowSQL  bool   `yaml:"show_sql" mapstructure:"show_sql"`
}
