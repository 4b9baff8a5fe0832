package transport

import (
	"context"
	"time"

	"FrontierTown/modules/kit/logx"
	"FrontierTown/modules/kit/tracex"

	"go.uber.org/zap"
)

// AccessLog 是请求级日志上下文，覆盖 WS/HTTP 两种协议。
type AccessLog struct {
	BizCode     BizCode
	ErrorReason string
	PlayerID    string
	startTime   time.Time
	action      string
}

type accessLogKey struct{}

// NewContext 创建带 AccessLog 的新 context（以 background 为父 context）。
func NewContext(action string) context.Context {
	return NewContextWithParent(context.Background(), action)
}

// NewContextWithParent 创建带 AccessLog 的新 context（保留父 context 的取消/超时信号）。
// 父 context 已有 trace_id 时沿用（例如同一条 ws 连接上的多条消息）。
func NewContextWithParent(parent context.Context, action string) context.Context {
	ctx := parent
	if ctx == nil {
		ctx = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	ctx = tracex.Ensure(ctx)

	al := &AccessLog{
		BizCode:   unsetBizCode,
		startTime: time.Now(),
		action:    action,
	}
	return context.WithValue(ctx, accessLogKey{}, al)
}

// FromContext 从 context 读取 AccessLog。
func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

// SetBizCode 设置业务码。
func SetBizCode(ctx context.Context, code BizCode) {
	if al := FromContext(ctx); al != nil {
		al.BizCode = code
	}
}

// BizCodeSet 判断处理过程中是否已经显式设置过业务码。
func BizCodeSet(ctx context.Context) bool {
	al := FromContext(ctx)
	return al != nil && al.BizCode != unsetBizCode
}

// SetErrorReason 设置 access 日志错误原因（失败场景）。
func SetErrorReason(ctx context.Context, reason string) {
	if reason == "" {
		return
	}
	if al := FromContext(ctx); al != nil {
		al.ErrorReason = reason
	}
}

// SetPlayerID 记录本次请求涉及的玩家。
func SetPlayerID(ctx context.Context, playerID string) {
	if al := FromContext(ctx); al != nil {
		al.PlayerID = playerID
	}
}

// WriteAccessLog 输出访问日志（建议在中间件 defer 调用）。未设置业务码时按系统错误记。
func WriteAccessLog(ctx context.Context, log logx.Logger) {
	al := FromContext(ctx)
	if al == nil || log == nil {
		return
	}
	code := al.BizCode
	if code == unsetBizCode {
		code = SystemError
	}

	fields := []zap.Field{
		zap.Duration("latency", time.Since(al.startTime)),
	}
	if al.PlayerID != "" {
		fields = append(fields, zap.String("player_id", al.PlayerID))
	}
	if code == OK {
		fields = append(fields, zap.String("result", "success"))
	} else {
		fields = append(fields, zap.String("result", "failure"))
		if al.ErrorReason != "" {
			fields = append(fields, zap.String("error_reason", al.ErrorReason))
		}
	}
	logx.ReportAccessWithLoggerContext(ctx, log, al.action, int(code), fields...)
}
