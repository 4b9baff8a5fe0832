package journal

import (
	"context"
	"fmt"
	"time"

	"FrontierTown/internal/shared/logs"
	"FrontierTown/internal/shared/serverconfig"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// journalRow 流水在 mysql 里的行结构。
type journalRow struct {
	ID       uint64    `gorm:"primaryKey;autoIncrement"`
	EventID  string    `gorm:"column:event_id;size:36;uniqueIndex"`
	Type     string    `gorm:"column:type;size:32;index"`
	PlayerID string    `gorm:"column:player_id;size:36;index"`
	TraceID  string    `gorm:"column:trace_id;size:32"`
	Payload  string    `gorm:"column:payload;type:text"`
	At       time.Time `gorm:"column:at"`
}

func (journalRow) TableName() string { return "town_journal" }

type MySQLSink struct {
	db *gorm.DB
}

func OpenMySQL(cfg serverconfig.MySQLConfig) (*MySQLSink, error) {
	level := logger.Warn
	if cfg.ShowSQL {
		level = logger.Info
	}
	gcfg := &gorm.Config{
		Logger: logs.NewGormLogger(level, 200*time.Millisecond),
	}

	db, err := gorm.Open(mysql.Open(mysqlDSN(cfg)), gcfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
	}
	if cfg.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	}
	if err := db.AutoMigrate(&journalRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	logs.Info("open mysql journal success",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("db", cfg.DBName),
		zap.String("user", cfg.User),
	)
	return &MySQLSink{db: db}, nil
}

// username:password@protocol(address)/dbname?charset=utf8mb4&parseTime=True&loc=Local
func mysqlDSN(cfg serverconfig.MySQLConfig) string {
	charset := cfg.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		charset,
	)
}

func (s *MySQLSink) Write(ctx context.Context, e Entry) error {
	return s.db.WithContext(ctx).Create(&journalRow{
		EventID:  e.ID,
		Type:     e.Type,
		PlayerID: e.PlayerID,
		TraceID:  e.TraceID,
		Payload:  e.Payload,
		At:       e.At,
	}).Error
}

func (s *MySQLSink) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
