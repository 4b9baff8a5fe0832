package app

import (
	"context"
	"time"

	"FrontierTown/internal/town/domain"
)

// PlayerRepo 找不到玩家时返回 domain.ErrPlayerNotFound。
type PlayerRepo interface {
	GetPlayer(ctx context.Context, id string) (domain.Player, error)
	// FindOrCreatePlayer 按用户名查找，不存在则以 start 资源创建；created 表示本次是否新建。
	FindOrCreatePlayer(ctx context.Context, username string, start domain.Resources) (p domain.Player, created bool, err error)
	UpdatePlayer(ctx context.Context, p domain.Player) error
	// ListPlayers 按创建顺序返回。
	ListPlayers(ctx context.Context) ([]domain.Player, error)
}

type BuildingRepo interface {
	// CreateBuilding 分配 id 后保存。
	CreateBuilding(ctx context.Context, b domain.Building) (domain.Building, error)
	GetBuilding(ctx context.Context, id string) (domain.Building, error)
	UpdateBuilding(ctx context.Context, b domain.Building) error
	ListBuildings(ctx context.Context, playerID string) ([]domain.Building, error)
	// ListConstructing 所有仍在建造中的建筑（启动时恢复定时器用）。
	ListConstructing(ctx context.Context) ([]domain.Building, error)
}

type UnitRepo interface {
	FindUnit(ctx context.Context, playerID, unitType string) (u domain.Unit, ok bool, err error)
	// SaveUnit 新记录（id 为空）分配 id，已有记录整体覆盖。
	SaveUnit(ctx context.Context, u domain.Unit) (domain.Unit, error)
	ListUnits(ctx context.Context, playerID string) ([]domain.Unit, error)
}

type ChatLog interface {
	AppendChat(ctx context.Context, m domain.ChatMessage) (domain.ChatMessage, error)
	// RecentChat 最近 limit 条，按时间正序。
	RecentChat(ctx context.Context, limit int) ([]domain.ChatMessage, error)
}

type BattleLog interface {
	AppendBattle(ctx context.Context, b domain.Battle) (domain.Battle, error)
	// ListBattles 玩家作为攻方或守方参与的战斗，按时间正序。
	ListBattles(ctx context.Context, playerID string) ([]domain.Battle, error)
}

// Store 权威状态存储。
type Store interface {
	PlayerRepo
	BuildingRepo
	UnitRepo
	ChatLog
	BattleLog
}

// Serializer 保证同一玩家的状态变更串行执行；不同玩家之间可以并行。
type Serializer interface {
	Do(ctx context.Context, playerID string, fn func(ctx context.Context) (any, error)) (any, error)
}

// Broadcaster 把事件推给所有在线客户端，不返回投递结果。
type Broadcaster interface {
	Broadcast(ctx context.Context, eventType string, data any)
}

type Timer interface {
	Stop() bool
}

// Clock 抽象时间，测试里用假时钟驱动定时器。
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

// SystemClock 基于 time 包的真实时钟。
func SystemClock() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// serialize 是 Serializer.Do 的强类型包装。
func serialize[T any](ctx context.Context, s Serializer, playerID string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	v, err := s.Do(ctx, playerID, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, nil
	}
	return out, nil
}
