package app

import (
	"context"
	"sync"

	"FrontierTown/internal/shared/metrics"
	"FrontierTown/internal/town/domain"
	"FrontierTown/modules/kit/logx"
	"FrontierTown/modules/kit/tracex"

	"go.uber.org/zap"
)

// ConstructionScheduler 每个建造中的建筑一个一次性定时器；到点后在所属玩家的串行上下文里
// 把建筑转为可用并广播 building_complete。玩法上不会取消定时器，只有进程关闭时 Stop。
type ConstructionScheduler struct {
	store   BuildingRepo
	serial  Serializer
	bc      Broadcaster
	clock   Clock
	metrics *metrics.Metrics
	log     logx.Logger

	mu      sync.Mutex
	timers  map[string]Timer
	stopped bool
}

func NewConstructionScheduler(store BuildingRepo, serial Serializer, bc Broadcaster, clock Clock,
	m *metrics.Metrics, log logx.Logger) *ConstructionScheduler {
	if clock == nil {
		clock = SystemClock()
	}
	log = logx.OrNop(log)
	return &ConstructionScheduler{
		store:   store,
		serial:  serial,
		bc:      bc,
		clock:   clock,
		metrics: m,
		log:     log,
		timers:  make(map[string]Timer),
	}
}

// Schedule 为建造中的建筑挂定时器；同一建筑重复调用只保留第一个。
func (s *ConstructionScheduler) Schedule(b domain.Building) {
	if !b.IsConstructing || b.ConstructionEndsAt == nil {
		return
	}
	delay := b.ConstructionEndsAt.Sub(s.clock.Now())
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		s.log.Warn("scheduler stopped, construction timer not armed", zap.String("building_id", b.ID))
		return
	}
	if _, ok := s.timers[b.ID]; ok {
		return
	}
	id, playerID := b.ID, b.PlayerID
	s.timers[id] = s.clock.AfterFunc(delay, func() {
		s.fire(id, playerID)
	})
	s.setPending(len(s.timers))
}

func (s *ConstructionScheduler) fire(buildingID, playerID string) {
	s.mu.Lock()
	delete(s.timers, buildingID)
	s.setPending(len(s.timers))
	s.mu.Unlock()

	ctx := tracex.Ensure(context.Background())
	if err := s.complete(ctx, buildingID, playerID); err != nil {
		logx.ReportErrorWithLoggerContext(ctx, s.log, "construction_complete", err,
			zap.String("building_id", buildingID), zap.String("player_id", playerID))
	}
}

// complete 建筑转为可用并广播；已完成的建筑不重复广播。
// 状态翻转与广播在同一个串行任务内完成，调用方等待超时也不影响。
func (s *ConstructionScheduler) complete(ctx context.Context, buildingID, playerID string) error {
	_, err := serialize(ctx, s.serial, playerID, func(ctx context.Context) (struct{}, error) {
		b, err := s.store.GetBuilding(ctx, buildingID)
		if err != nil {
			return struct{}{}, internalErr(err)
		}
		if !b.Complete() {
			return struct{}{}, nil
		}
		if err := s.store.UpdateBuilding(ctx, b); err != nil {
			return struct{}{}, internalErr(err)
		}
		s.log.WithContext(ctx).Info("construction complete",
			zap.String("building_id", b.ID), zap.String("player_id", b.PlayerID), zap.String("type", b.Type))
		s.bc.Broadcast(ctx, domain.EventBuildingComplete, domain.BuildingComplete{Building: b, PlayerID: b.PlayerID})
		return struct{}{}, nil
	})
	return err
}

// Reconcile 启动时扫描仍在建造中的建筑：已过期的立即完成，未到期的按剩余时间重新挂定时器。
func (s *ConstructionScheduler) Reconcile(ctx context.Context) (int, error) {
	list, err := s.store.ListConstructing(ctx)
	if err != nil {
		return 0, internalErr(err)
	}
	now := s.clock.Now()
	for _, b := range list {
		if b.ConstructionEndsAt != nil && !b.ConstructionEndsAt.After(now) {
			if err := s.complete(ctx, b.ID, b.PlayerID); err != nil {
				logx.ReportErrorWithLoggerContext(ctx, s.log, "construction_reconcile", err, zap.String("building_id", b.ID))
			}
			continue
		}
		s.Schedule(b)
	}
	if len(list) > 0 {
		s.log.WithContext(ctx).Info("construction timers reconciled", zap.Int("count", len(list)))
	}
	return len(list), nil
}

// Stop 进程退出时撤销所有未触发的定时器，之后的 Schedule 不再生效。
func (s *ConstructionScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.setPending(0)
}

// Pending 已挂起、尚未触发的定时器数量。
func (s *ConstructionScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *ConstructionScheduler) setPending(n int) {
	if s.metrics != nil {
		s.metrics.PendingBuilds.Set(float64(n))
	}
}
