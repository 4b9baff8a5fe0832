package serverconfig

import (
	"os"

	"FrontierTown/internal/shared/config"
)

// EnvConfigPath 指定配置文件路径的环境变量，命令行 -config 优先。
const EnvConfigPath = "TOWN_CONFIG"

// Defaults 与原版行为一致的默认值，配置文件里缺省的键回落到这里。
func Defaults() map[string]any {
	return map[string]any{
		"server.host":                "0.0.0.0",
		"server.port":                3000,
		"server.ws_queue":            256,
		"ops.host":                   "127.0.0.1",
		"ops.port":                   0,
		"log.level":                  "info",
		"game.tick_interval":         "60s",
		"game.ask_timeout":           "5s",
		"game.chat_limit":            50,
		"game.map_size":              20,
		"game.trust_battle_stats":    true,
		"game.start.gold":            500,
		"game.start.wood":            300,
		"game.start.food":            200,
		"logic.catalog_file":         "",
		"journal.driver":             "",
		"journal.mongodb.uri":        "mongodb://127.0.0.1:27017",
		"journal.mongodb.database":   "frontier_town",
		"journal.mongodb.collection": "events",
		"journal.mongodb.timeout":    "3s",
		"journal.mysql.charset":      "utf8mb4",
		"journal.mysql.max_idle":     5,
		"journal.mysql.max_conn":     20,
	}
}

// Load 读取进程配置；cfgName 为空时依次尝试 TOWN_CONFIG 与向上查找。
func Load(cfgName string) (*config.Loader[Config], error) {
	if cfgName == "" {
		cfgName = os.Getenv(EnvConfigPath)
	}
	return config.Load[Config](cfgName, Defaults())
}
