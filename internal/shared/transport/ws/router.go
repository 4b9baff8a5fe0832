package ws

import (
	"context"

	"FrontierTown/internal/shared/transport"
	"FrontierTown/modules/kit/errx"
	"FrontierTown/modules/kit/logx"
)

// HandlerFunc 处理一类上行消息；需要回包的 handler 自己调用 Send。
type HandlerFunc func(ctx context.Context, req *WsMsgReq) error

// ErrorMapper 把 handler 返回的错误翻译成错误帧，并负责写 access 日志上下文（业务码/原因）。
type ErrorMapper func(ctx context.Context, err error) ErrorFrame

type Router struct {
	handlers map[string]HandlerFunc
	mapErr   ErrorMapper
	log      logx.Logger
}

func NewRouter(l logx.Logger) *Router {
	l = logx.OrNop(l)
	return &Router{
		handlers: make(map[string]HandlerFunc),
		mapErr:   defaultErrorMapper,
		log:      l,
	}
}

func (r *Router) Handle(typ string, h HandlerFunc) {
	r.handlers[typ] = h
}

func (r *Router) SetErrorMapper(m ErrorMapper) {
	if m != nil {
		r.mapErr = m
	}
}

// Dispatch 按 type 分发一条上行消息；失败时在同一连接上回 error 帧。
func (r *Router) Dispatch(parent context.Context, conn WSConn, env Envelope) {
	ctx := transport.NewContextWithParent(parent, "WS "+env.Type)
	transport.SetPlayerID(ctx, PlayerIDOf(conn))
	defer transport.WriteAccessLog(ctx, r.log)

	h := r.handlers[env.Type]
	if h == nil {
		transport.SetBizCode(ctx, transport.RouteNotFound)
		transport.SetErrorReason(ctx, "unknown message type")
		Send(conn, ErrorMsg, ErrorFrame{Code: "UNKNOWN_MESSAGE_TYPE", Message: "unknown message type: " + env.Type})
		return
	}

	if err := h(ctx, &WsMsgReq{Type: env.Type, Data: env.Data, Conn: conn}); err != nil {
		Send(conn, ErrorMsg, r.mapErr(ctx, err))
		return
	}
	if !transport.BizCodeSet(ctx) {
		transport.SetBizCode(ctx, transport.OK)
	}
}

func defaultErrorMapper(ctx context.Context, err error) ErrorFrame {
	if e, ok := errx.As(err); ok && e.IsBiz() {
		transport.SetBizCode(ctx, transport.InvalidParam)
		transport.SetErrorReason(ctx, e.CodeText())
		return ErrorFrame{Code: e.CodeText(), Message: e.Msg()}
	}
	transport.SetBizCode(ctx, transport.SystemError)
	transport.SetErrorReason(ctx, err.Error())
	return ErrorFrame{Code: string(errx.CodeInternal), Message: "internal server error"}
}

// Registrar 业务模块向 ws 路由注册消息处理。
type Registrar interface {
	WsRegister(r *Router)
}
