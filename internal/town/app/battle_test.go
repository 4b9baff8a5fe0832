package app

import (
	"context"
	"testing"

	"FrontierTown/internal/town/domain"
	"FrontierTown/modules/kit/errx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoPlayers(t *testing.T, w *world) (domain.Player, domain.Player) {
	t.Helper()
	ctx := context.Background()
	a, err := w.query.CreatePlayer(ctx, "jesse")
	require.NoError(t, err)
	d, err := w.query.CreatePlayer(ctx, "wyatt")
	require.NoError(t, err)
	return a, d
}

func TestBattle_平局守方胜(t *testing.T) {
	w := newWorld(DefaultRules())
	a, d := twoPlayers(t, w)

	b, err := w.battle.Resolve(context.Background(), BattleCmd{
		AttackerID:    a.ID,
		DefenderID:    d.ID,
		AttackerUnits: `[{"type":"cowboy","quantity":2,"attack":10,"defense":8}]`,
		DefenderUnits: `[{"type":"sheriff","quantity":1,"attack":12,"defense":20}]`,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ResultDefenderWins, b.Result)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, w.clock.Now(), b.Timestamp)

	events := w.bc.ofType(domain.EventBattle)
	require.Len(t, events, 1)
	assert.Equal(t, b.ID, events[0].Data.(domain.Battle).ID)
}

func TestBattle_攻方严格大于才胜(t *testing.T) {
	w := newWorld(DefaultRules())
	a, d := twoPlayers(t, w)

	b, err := w.battle.Resolve(context.Background(), BattleCmd{
		AttackerID:    a.ID,
		DefenderID:    d.ID,
		AttackerUnits: `[{"type":"cowboy","quantity":2,"attack":10,"defense":8}]`,
		DefenderUnits: `[{"type":"sheriff","quantity":1,"attack":12,"defense":19}]`,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ResultAttackerWins, b.Result)
}

func TestBattle_不信任客户端数值时按数值表重算(t *testing.T) {
	rules := DefaultRules()
	rules.TrustBattleStats = false
	w := newWorld(rules)
	a, d := twoPlayers(t, w)
	ctx := context.Background()

	b, err := w.battle.Resolve(ctx, BattleCmd{
		AttackerID:    a.ID,
		DefenderID:    d.ID,
		AttackerUnits: `[{"type":"cowboy","quantity":1,"attack":1000,"defense":0}]`,
		DefenderUnits: `[{"type":"sheriff","quantity":1,"attack":0,"defense":0}]`,
	})
	require.NoError(t, err)
	// 10 对 15
	assert.Equal(t, domain.ResultDefenderWins, b.Result)
	// 记录保存提交原文
	assert.Contains(t, b.AttackerUnits, "1000")

	_, err = w.battle.Resolve(ctx, BattleCmd{
		AttackerID:    a.ID,
		DefenderID:    d.ID,
		AttackerUnits: `[{"type":"dragon","quantity":1}]`,
		DefenderUnits: `[]`,
	})
	assert.Equal(t, domain.CodeInvalidType, errx.CodeOf(err))
}

func TestBattle_参数错误(t *testing.T) {
	w := newWorld(DefaultRules())
	a, d := twoPlayers(t, w)
	ctx := context.Background()

	_, err := w.battle.Resolve(ctx, BattleCmd{AttackerID: a.ID, DefenderID: "ghost", AttackerUnits: `[]`, DefenderUnits: `[]`})
	assert.Equal(t, domain.CodeNotFound, errx.CodeOf(err))

	_, err = w.battle.Resolve(ctx, BattleCmd{AttackerID: a.ID, DefenderID: d.ID, AttackerUnits: `not json`, DefenderUnits: `[]`})
	assert.Equal(t, domain.CodeValidation, errx.CodeOf(err))

	_, err = w.battle.Resolve(ctx, BattleCmd{AttackerID: "", DefenderID: d.ID})
	assert.Equal(t, domain.CodeValidation, errx.CodeOf(err))

	assert.Empty(t, w.bc.events)
}

func TestBattle_List按参与方过滤(t *testing.T) {
	w := newWorld(DefaultRules())
	a, d := twoPlayers(t, w)
	ctx := context.Background()
	c, _ := w.query.CreatePlayer(ctx, "doc")

	for _, cmd := range []BattleCmd{
		{AttackerID: a.ID, DefenderID: d.ID},
		{AttackerID: c.ID, DefenderID: a.ID},
		{AttackerID: d.ID, DefenderID: c.ID},
	} {
		cmd.AttackerUnits, cmd.DefenderUnits = `[]`, `[]`
		_, err := w.battle.Resolve(ctx, cmd)
		require.NoError(t, err)
	}

	list, err := w.battle.List(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestBattle_战力超出int64按参数错误拒绝不记录(t *testing.T) {
	w := newWorld(DefaultRules())
	a, d := twoPlayers(t, w)
	ctx := context.Background()

	_, err := w.battle.Resolve(ctx, BattleCmd{
		AttackerID:    a.ID,
		DefenderID:    d.ID,
		AttackerUnits: `[{"type":"cowboy","quantity":4611686018427387904,"attack":2}]`,
		DefenderUnits: `[{"type":"sheriff","quantity":1,"defense":1}]`,
	})
	require.Error(t, err)
	assert.Equal(t, domain.CodeValidation, errx.CodeOf(err))

	// 数值表重算后才溢出的情况同样拒绝：牛仔攻击 10
	w2 := newWorld(Rules{Start: DefaultRules().Start, ChatLimit: DefaultChatLimit, TrustBattleStats: false})
	a2, d2 := twoPlayers(t, w2)
	_, err = w2.battle.Resolve(ctx, BattleCmd{
		AttackerID:    a2.ID,
		DefenderID:    d2.ID,
		AttackerUnits: `[{"type":"cowboy","quantity":1000000000000000000,"attack":0}]`,
		DefenderUnits: `[{"type":"sheriff","quantity":1}]`,
	})
	assert.Equal(t, domain.CodeValidation, errx.CodeOf(err))

	battles, _ := w.store.ListBattles(ctx, a.ID)
	assert.Empty(t, battles)
	assert.Empty(t, w.bc.ofType(domain.EventBattle))
	assert.Empty(t, w2.bc.ofType(domain.EventBattle))
}
