package app

import (
	"context"
	"strings"
	"time"

	"FrontierTown/internal/shared/gameconfig/catalog"
	"FrontierTown/internal/shared/metrics"
	"FrontierTown/internal/town/domain"
	"FrontierTown/modules/kit/logx"

	"go.uber.org/zap"
)

type BuildCmd struct {
	PlayerID string
	Type     string
	PosX     int
	PosY     int
}

type RecruitCmd struct {
	PlayerID string
	Type     string
	Quantity int64
}

// EconomyService 处理建造与招募：校验数值表与资源，扣费后落库。
type EconomyService struct {
	store   Store
	cat     *catalog.Catalog
	serial  Serializer
	sched   *ConstructionScheduler
	bc      Broadcaster
	clock   Clock
	metrics *metrics.Metrics
	log     logx.Logger
}

func NewEconomyService(store Store, cat *catalog.Catalog, serial Serializer, sched *ConstructionScheduler,
	bc Broadcaster, clock Clock, m *metrics.Metrics, log logx.Logger) *EconomyService {
	if clock == nil {
		clock = SystemClock()
	}
	log = logx.OrNop(log)
	return &EconomyService{
		store:   store,
		cat:     cat,
		serial:  serial,
		sched:   sched,
		bc:      bc,
		clock:   clock,
		metrics: m,
		log:     log,
	}
}

// Build 开始建造：校验顺序为 参数 -> 玩家 -> 建筑类型 -> 资源，任何一步失败都不改动状态。
// 成功后扣除三种资源、领地 +1、建筑进入建造中，并挂上完成定时器。此时不广播。
func (s *EconomyService) Build(ctx context.Context, cmd BuildCmd) (b domain.Building, err error) {
	defer func() { s.metrics.CommandResult("build", err) }()

	cmd.PlayerID = strings.TrimSpace(cmd.PlayerID)
	if cmd.PlayerID == "" {
		return domain.Building{}, domain.Reject(domain.ReasonPlayerIDRequired)
	}
	if n := s.cat.MapSize(); cmd.PosX < 0 || cmd.PosY < 0 || cmd.PosX >= n || cmd.PosY >= n {
		return domain.Building{}, domain.Reject(domain.ReasonPositionOutOfMap).WithDataMap(map[string]any{
			"pos_x": cmd.PosX, "pos_y": cmd.PosY, "map_size": n,
		})
	}
	if _, err := s.store.GetPlayer(ctx, cmd.PlayerID); err != nil {
		return domain.Building{}, internalErr(err)
	}
	bt, ok := s.cat.Building(cmd.Type)
	if !ok {
		return domain.Building{}, domain.ErrInvalidBuildingType.WithData("type", cmd.Type)
	}
	cost := domain.Resources{Gold: bt.GoldCost, Wood: bt.WoodCost, Food: bt.FoodCost}

	b, err = serialize(ctx, s.serial, cmd.PlayerID, func(ctx context.Context) (domain.Building, error) {
		p, err := s.store.GetPlayer(ctx, cmd.PlayerID)
		if err != nil {
			return domain.Building{}, internalErr(err)
		}
		if err := p.Spend(cost); err != nil {
			return domain.Building{}, err
		}
		p.TerritorySize++
		if err := s.store.UpdatePlayer(ctx, p); err != nil {
			return domain.Building{}, internalErr(err)
		}

		endsAt := s.clock.Now().Add(time.Duration(bt.BuildTime) * time.Second)
		b, err := s.store.CreateBuilding(ctx, domain.NewConstruction("", p.ID, bt.ID, cmd.PosX, cmd.PosY, endsAt))
		if err != nil {
			return domain.Building{}, internalErr(err)
		}
		s.sched.Schedule(b)
		return b, nil
	})
	if err != nil {
		return domain.Building{}, err
	}
	s.log.WithContext(ctx).Info("construction started",
		zap.String("player_id", b.PlayerID), zap.String("building_id", b.ID),
		zap.String("type", b.Type), zap.Timep("ends_at", b.ConstructionEndsAt))
	return b, nil
}

// Recruit 招募 quantity 个兵：总价 = 单价 × 数量，三种资源都够才扣。
// 已有同兵种记录时累加数量并按当前数值表重写属性，否则新建。
func (s *EconomyService) Recruit(ctx context.Context, cmd RecruitCmd) (u domain.Unit, err error) {
	defer func() { s.metrics.CommandResult("recruit", err) }()

	cmd.PlayerID = strings.TrimSpace(cmd.PlayerID)
	if cmd.PlayerID == "" {
		return domain.Unit{}, domain.Reject(domain.ReasonPlayerIDRequired)
	}
	if cmd.Quantity < 1 {
		return domain.Unit{}, domain.Reject(domain.ReasonQuantityTooSmall).WithData("quantity", cmd.Quantity)
	}
	if _, err := s.store.GetPlayer(ctx, cmd.PlayerID); err != nil {
		return domain.Unit{}, internalErr(err)
	}
	ut, ok := s.cat.Unit(cmd.Type)
	if !ok {
		return domain.Unit{}, domain.ErrInvalidUnitType.WithData("type", cmd.Type)
	}
	total, ok := domain.Resources{Gold: ut.GoldCost, Wood: ut.WoodCost, Food: ut.FoodCost}.Mul(cmd.Quantity)
	if !ok {
		return domain.Unit{}, domain.Reject(domain.ReasonQuantityOverflow).WithDataMap(map[string]any{
			"type": ut.ID, "quantity": cmd.Quantity,
		})
	}
	stats := domain.UnitStats{Attack: ut.Attack, Defense: ut.Defense, Speed: ut.Speed}

	u, err = serialize(ctx, s.serial, cmd.PlayerID, func(ctx context.Context) (domain.Unit, error) {
		p, err := s.store.GetPlayer(ctx, cmd.PlayerID)
		if err != nil {
			return domain.Unit{}, internalErr(err)
		}
		u, found, err := s.store.FindUnit(ctx, p.ID, ut.ID)
		if err != nil {
			return domain.Unit{}, internalErr(err)
		}
		if !found {
			u = domain.Unit{PlayerID: p.ID, Type: ut.ID}
		}
		// 先在副本上累加，数量溢出时资源还没动
		if err := u.Recruit(cmd.Quantity, stats); err != nil {
			return domain.Unit{}, err
		}
		if err := p.Spend(total); err != nil {
			return domain.Unit{}, err
		}
		if err := s.store.UpdatePlayer(ctx, p); err != nil {
			return domain.Unit{}, internalErr(err)
		}
		u, err = s.store.SaveUnit(ctx, u)
		if err != nil {
			return domain.Unit{}, internalErr(err)
		}
		return u, nil
	})
	if err != nil {
		return domain.Unit{}, err
	}

	s.bc.Broadcast(ctx, domain.EventUnitRecruited, domain.UnitRecruited{Unit: u, PlayerID: u.PlayerID})
	return u, nil
}
