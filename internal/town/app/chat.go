package app

import (
	"context"
	"strings"

	"FrontierTown/internal/shared/metrics"
	"FrontierTown/internal/town/domain"
	"FrontierTown/modules/kit/logx"
)

// ChatService 全服单频道聊天。
type ChatService struct {
	store   Store
	bc      Broadcaster
	clock   Clock
	rules   Rules
	metrics *metrics.Metrics
	log     logx.Logger
}

func NewChatService(store Store, bc Broadcaster, clock Clock, rules Rules, m *metrics.Metrics, log logx.Logger) *ChatService {
	if clock == nil {
		clock = SystemClock()
	}
	log = logx.OrNop(log)
	return &ChatService{store: store, bc: bc, clock: clock, rules: rules, metrics: m, log: log}
}

// Send 记录一条消息（带发送者名字快照）并广播给所有在线客户端。
func (s *ChatService) Send(ctx context.Context, playerID, message string) (msg domain.ChatMessage, err error) {
	defer func() { s.metrics.CommandResult("chat", err) }()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return domain.ChatMessage{}, domain.Reject(domain.ReasonPlayerIDRequired)
	}
	text, err := domain.NormalizeChat(message)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	p, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return domain.ChatMessage{}, internalErr(err)
	}

	msg, err = s.store.AppendChat(ctx, domain.ChatMessage{
		PlayerID:  p.ID,
		Username:  p.Username,
		Message:   text,
		Timestamp: s.clock.Now(),
	})
	if err != nil {
		return domain.ChatMessage{}, internalErr(err)
	}
	s.bc.Broadcast(ctx, domain.EventChat, msg)
	return msg, nil
}

// Recent 最近 limit 条消息，按发送顺序；limit <= 0 取默认值，超过上限按上限截断。
func (s *ChatService) Recent(ctx context.Context, limit int) ([]domain.ChatMessage, error) {
	msgs, err := s.store.RecentChat(ctx, s.rules.chatLimit(limit))
	if err != nil {
		return nil, internalErr(err)
	}
	return msgs, nil
}
