package app

import (
	"FrontierTown/internal/town/domain"
)

const (
	DefaultChatLimit = 50
	MaxChatLimit     = 200
	MaxUsernameRunes = 32
)

// Rules 进程启动时确定的玩法参数。
type Rules struct {
	Start            domain.Resources
	ChatLimit        int
	TrustBattleStats bool
}

func DefaultRules() Rules {
	return Rules{
		Start:            domain.Resources{Gold: 500, Wood: 300, Food: 200},
		ChatLimit:        DefaultChatLimit,
		TrustBattleStats: true,
	}
}

// chatLimit 把请求里的 limit 收敛到 (0, MaxChatLimit]，非法值回落默认。
func (r Rules) chatLimit(limit int) int {
	if limit <= 0 {
		limit = r.ChatLimit
	}
	if limit <= 0 {
		limit = DefaultChatLimit
	}
	if limit > MaxChatLimit {
		limit = MaxChatLimit
	}
	return limit
}
