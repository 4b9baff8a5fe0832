package handler

import (
	"context"
	"strings"

	"FrontierTown/internal/shared/transport"
	"FrontierTown/internal/shared/transport/ws"
	"FrontierTown/internal/town/domain"
	"FrontierTown/internal/town/interfaces/handler/dto"
	"FrontierTown/modules/kit/logx"

	"go.uber.org/zap"
)

const (
	MsgIdentify       = "identify"
	MsgChat           = domain.EventChat
	MsgResourceUpdate = domain.EventResourceUpdate
)

type WsHandler struct {
	town *Town
	log  logx.Logger
}

func NewWsHandler(t *Town, log logx.Logger) *WsHandler {
	log = logx.OrNop(log)
	return &WsHandler{town: t, log: log}
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	r.Handle(MsgIdentify, h.Identify)
	r.Handle(MsgChat, h.Chat)
	r.Handle(MsgResourceUpdate, h.ResourceUpdate)
	r.SetErrorMapper(h.mapError)
}

// Identify 把连接绑定到玩家；之后该连接才会收到广播。
func (h *WsHandler) Identify(ctx context.Context, req *ws.WsMsgReq) error {
	var msg dto.IdentifyMsg
	if err := ws.BindJSON(req, &msg); err != nil {
		return domain.Validation("invalid identify payload").WithReason(domain.ReasonInvalidPayload).WithCause(err)
	}
	playerID := strings.TrimSpace(msg.PlayerID)
	if playerID == "" {
		return domain.Reject(domain.ReasonPlayerIDRequired)
	}
	if _, err := h.town.Query.GetPlayer(ctx, playerID); err != nil {
		return err
	}
	h.town.Registry.Bind(playerID, req.Conn)
	transport.SetPlayerID(ctx, playerID)
	h.log.WithContext(ctx).Info("connection identified",
		zap.String("player_id", playerID), zap.String("conn_id", req.Conn.ID()))
	return nil
}

// Chat 发送者以连接上绑定的玩家为准，未 identify 时才取 payload 里的 playerId。
func (h *WsHandler) Chat(ctx context.Context, req *ws.WsMsgReq) error {
	var msg dto.ChatMsg
	if err := ws.BindJSON(req, &msg); err != nil {
		return domain.Validation("invalid chat payload").WithReason(domain.ReasonInvalidPayload).WithCause(err)
	}
	playerID := ws.PlayerIDOf(req.Conn)
	if playerID == "" {
		playerID = msg.PlayerID
	}
	transport.SetPlayerID(ctx, playerID)
	_, err := h.town.Chat.Send(ctx, playerID, msg.Message)
	return err
}

// ResourceUpdate 客户端上报的资源变化原样广播，不校验。
func (h *WsHandler) ResourceUpdate(ctx context.Context, req *ws.WsMsgReq) error {
	if len(req.Data) == 0 || string(req.Data) == "null" {
		return domain.Validation("resource_update data is required").WithReason(domain.ReasonInvalidPayload)
	}
	h.town.Broadcaster.Broadcast(ctx, domain.EventResourceUpdate, req.Data)
	return nil
}

func (h *WsHandler) mapError(ctx context.Context, err error) ws.ErrorFrame {
	frame := WsError(ctx, err)
	logx.ReportErrorWithLoggerContext(ctx, h.log, "ws", err)
	return frame
}
