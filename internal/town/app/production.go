package app

import (
	"context"
	"time"

	"FrontierTown/internal/shared/gameconfig/catalog"
	"FrontierTown/internal/shared/metrics"
	"FrontierTown/internal/town/domain"
	"FrontierTown/modules/kit/logx"
	"FrontierTown/modules/kit/tracex"

	"go.uber.org/zap"
)

const DefaultTickInterval = 60 * time.Second

// ProductionTicker 固定周期给每个玩家结算一次产出：每个已完工建筑按数值表加一次，
// 不补发错过的周期，也不按建筑自身的 interval 折算。
type ProductionTicker struct {
	store    Store
	cat      *catalog.Catalog
	serial   Serializer
	bc       Broadcaster
	interval time.Duration
	metrics  *metrics.Metrics
	log      logx.Logger
}

func NewProductionTicker(store Store, cat *catalog.Catalog, serial Serializer, bc Broadcaster,
	interval time.Duration, m *metrics.Metrics, log logx.Logger) *ProductionTicker {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	log = logx.OrNop(log)
	return &ProductionTicker{
		store:    store,
		cat:      cat,
		serial:   serial,
		bc:       bc,
		interval: interval,
		metrics:  m,
		log:      log,
	}
}

// Run 阻塞直到 ctx 取消。
func (t *ProductionTicker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	t.log.Info("production ticker started", zap.Duration("interval", t.interval))

	for {
		select {
		case <-ctx.Done():
			t.log.Info("production ticker stopped")
			return nil
		case <-ticker.C:
			t.Tick(ctx)
		}
	}
}

// Tick 结算一轮，返回本轮实际发放了资源的玩家数。
// 单个玩家失败只记日志，继续处理下一个玩家。
func (t *ProductionTicker) Tick(ctx context.Context) int {
	ctx = tracex.Ensure(ctx)
	start := time.Now()
	defer func() {
		if t.metrics != nil {
			t.metrics.Ticks.Inc()
			t.metrics.TickDuration.Observe(time.Since(start).Seconds())
		}
	}()

	players, err := t.store.ListPlayers(ctx)
	if err != nil {
		logx.ReportErrorWithLoggerContext(ctx, t.log, "production_tick", internalErr(err))
		return 0
	}

	credited := 0
	for _, p := range players {
		if ctx.Err() != nil {
			break
		}
		updated, granted, err := t.credit(ctx, p.ID)
		if err != nil {
			logx.ReportErrorWithLoggerContext(ctx, t.log, "production_tick", err, zap.String("player_id", p.ID))
			continue
		}
		if granted.IsZero() {
			continue
		}
		credited++
		t.observe(granted)
		t.bc.Broadcast(ctx, domain.EventResourceUpdate, domain.ResourceUpdate{
			PlayerID: updated.ID,
			Gold:     updated.Gold,
			Wood:     updated.Wood,
			Food:     updated.Food,
		})
	}
	t.log.WithContext(ctx).Debug("production tick done",
		zap.Int("players", len(players)), zap.Int("credited", credited), zap.Duration("elapsed", time.Since(start)))
	return credited
}

type grant struct {
	player domain.Player
	amount domain.Resources
}

func (t *ProductionTicker) credit(ctx context.Context, playerID string) (domain.Player, domain.Resources, error) {
	g, err := serialize(ctx, t.serial, playerID, func(ctx context.Context) (grant, error) {
		buildings, err := t.store.ListBuildings(ctx, playerID)
		if err != nil {
			return grant{}, internalErr(err)
		}
		amount := t.production(ctx, buildings)
		if amount.IsZero() {
			return grant{}, nil
		}
		p, err := t.store.GetPlayer(ctx, playerID)
		if err != nil {
			return grant{}, internalErr(err)
		}
		p.SetResources(p.Resources().Add(amount))
		if err := t.store.UpdatePlayer(ctx, p); err != nil {
			return grant{}, internalErr(err)
		}
		return grant{player: p, amount: amount}, nil
	})
	return g.player, g.amount, err
}

// production 汇总已完工建筑的产出；数值表里找不到的建筑类型跳过并记录。
func (t *ProductionTicker) production(ctx context.Context, buildings []domain.Building) domain.Resources {
	var sum domain.Resources
	for _, b := range buildings {
		if !b.Active() {
			continue
		}
		bt, ok := t.cat.Building(b.Type)
		if !ok {
			t.log.WithContext(ctx).Warn("unknown building type skipped in production",
				zap.String("building_id", b.ID), zap.String("type", b.Type))
			continue
		}
		if bt.Produces == nil {
			continue
		}
		sum = sum.Add(domain.Of(bt.Produces.Resource, bt.Produces.Amount))
	}
	return sum
}

func (t *ProductionTicker) observe(r domain.Resources) {
	if t.metrics == nil {
		return
	}
	t.metrics.ResourcesGranted.WithLabelValues(catalog.ResourceGold).Add(float64(r.Gold))
	t.metrics.ResourcesGranted.WithLabelValues(catalog.ResourceWood).Add(float64(r.Wood))
	t.metrics.ResourcesGranted.WithLabelValues(catalog.ResourceFood).Add(float64(r.Food))
}
