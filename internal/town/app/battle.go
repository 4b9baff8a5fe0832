package app

import (
	"context"
	"strings"

	"FrontierTown/internal/shared/gameconfig/catalog"
	"FrontierTown/internal/shared/metrics"
	"FrontierTown/internal/town/domain"
	"FrontierTown/modules/kit/logx"

	"go.uber.org/zap"
)

type BattleCmd struct {
	AttackerID    string
	DefenderID    string
	AttackerUnits string
	DefenderUnits string
}

// BattleService 结算一场战斗：攻方 Σ攻击×数量 对比 守方 Σ防御×数量。
// 只留记录，不转移资源也不扣兵。
type BattleService struct {
	store   Store
	cat     *catalog.Catalog
	bc      Broadcaster
	clock   Clock
	rules   Rules
	metrics *metrics.Metrics
	log     logx.Logger
}

func NewBattleService(store Store, cat *catalog.Catalog, bc Broadcaster, clock Clock, rules Rules,
	m *metrics.Metrics, log logx.Logger) *BattleService {
	if clock == nil {
		clock = SystemClock()
	}
	log = logx.OrNop(log)
	return &BattleService{store: store, cat: cat, bc: bc, clock: clock, rules: rules, metrics: m, log: log}
}

func (s *BattleService) Resolve(ctx context.Context, cmd BattleCmd) (battle domain.Battle, err error) {
	defer func() { s.metrics.CommandResult("battle", err) }()

	cmd.AttackerID = strings.TrimSpace(cmd.AttackerID)
	cmd.DefenderID = strings.TrimSpace(cmd.DefenderID)
	if cmd.AttackerID == "" || cmd.DefenderID == "" {
		return domain.Battle{}, domain.Reject(domain.ReasonBattleSidesRequired)
	}
	if _, err := s.store.GetPlayer(ctx, cmd.AttackerID); err != nil {
		return domain.Battle{}, internalErr(err)
	}
	if _, err := s.store.GetPlayer(ctx, cmd.DefenderID); err != nil {
		return domain.Battle{}, internalErr(err)
	}

	attackers, err := s.side(cmd.AttackerUnits)
	if err != nil {
		return domain.Battle{}, err
	}
	defenders, err := s.side(cmd.DefenderUnits)
	if err != nil {
		return domain.Battle{}, err
	}
	atk, err := domain.AttackPower(attackers)
	if err != nil {
		return domain.Battle{}, err
	}
	def, err := domain.DefensePower(defenders)
	if err != nil {
		return domain.Battle{}, err
	}

	battle, err = s.store.AppendBattle(ctx, domain.Battle{
		AttackerID:    cmd.AttackerID,
		DefenderID:    cmd.DefenderID,
		AttackerUnits: cmd.AttackerUnits,
		DefenderUnits: cmd.DefenderUnits,
		Result:        domain.Resolve(atk, def),
		Timestamp:     s.clock.Now(),
	})
	if err != nil {
		return domain.Battle{}, internalErr(err)
	}
	s.log.WithContext(ctx).Info("battle resolved",
		zap.String("battle_id", battle.ID), zap.String("attacker_id", battle.AttackerID), zap.String("defender_id", battle.DefenderID),
		zap.Int64("attack_power", atk), zap.Int64("defense_power", def), zap.String("result", battle.Result))
	s.bc.Broadcast(ctx, domain.EventBattle, battle)
	return battle, nil
}

// side 解析一方兵力；不信任客户端数值时按兵种重新取数值表里的攻防。
func (s *BattleService) side(raw string) ([]domain.SideUnit, error) {
	units, err := domain.ParseSide(raw)
	if err != nil {
		return nil, err
	}
	if s.rules.TrustBattleStats {
		return units, nil
	}
	for i, u := range units {
		ut, ok := s.cat.Unit(u.Type)
		if !ok {
			return nil, domain.ErrInvalidUnitType.WithData("type", u.Type)
		}
		units[i].Attack, units[i].Defense, units[i].Speed = ut.Attack, ut.Defense, ut.Speed
	}
	return units, nil
}

func (s *BattleService) List(ctx context.Context, playerID string) ([]domain.Battle, error) {
	battles, err := s.store.ListBattles(ctx, playerID)
	if err != nil {
		return nil, internalErr(err)
	}
	return battles, nil
}
