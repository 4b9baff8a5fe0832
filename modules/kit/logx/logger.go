package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger 服务内统一的日志接口：结构化字段 + 从 ctx 带出 trace/span。
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	WithContext(ctx context.Context) Logger
}

// Nop 返回丢弃一切输出的 Logger，测试和未注入日志的组件使用。
func Nop() Logger { return NewZapLogger(nil) }

// OrNop 组件构造时兜底：未注入日志时退化为 Nop。
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop()
	}
	return l
}
