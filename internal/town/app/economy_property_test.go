package app

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"FrontierTown/internal/shared/gameconfig/catalog"
	"FrontierTown/internal/town/domain"
	"FrontierTown/modules/kit/errx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomCatalog 生成 n 种成本随机的建筑写进临时文件，再走正常加载流程。
func randomCatalog(t *testing.T, rng *rand.Rand, n int) (*catalog.Catalog, []string) {
	t.Helper()
	keys := make([]string, 0, n)
	entries := make([]string, 0, n)
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("camp%02d", i)
		keys = append(keys, key)
		entries = append(entries, fmt.Sprintf(`"%s": {"name": "Camp %d", "goldCost": %d, "woodCost": %d, "foodCost": %d, "buildTime": %d}`,
			key, i, rng.Int63n(1000), rng.Int63n(1000), rng.Int63n(1000), 1+rng.Intn(120)))
	}
	p := filepath.Join(t.TempDir(), "catalog.json")
	body := `{"buildings": {` + strings.Join(entries, ",") + `}}`
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))

	c, err := catalog.Load(p)
	require.NoError(t, err)
	return c, keys
}

func TestBuild_随机余额与成本_扣费恰好等于成本或完全不动(t *testing.T) {
	rng := rand.New(rand.NewSource(20261017))
	cat, keys := randomCatalog(t, rng, 24)
	w := newWorldWith(DefaultRules(), cat, &inlineSerializer{})
	ctx := context.Background()

	for i := 0; i < 400; i++ {
		p, err := w.query.CreatePlayer(ctx, fmt.Sprintf("drifter%03d", i))
		require.NoError(t, err)
		start := domain.Resources{Gold: rng.Int63n(1500), Wood: rng.Int63n(1500), Food: rng.Int63n(1500)}
		p.SetResources(start)
		require.NoError(t, w.store.UpdatePlayer(ctx, p))

		key := keys[rng.Intn(len(keys))]
		bt, _ := cat.Building(key)
		cost := domain.Resources{Gold: bt.GoldCost, Wood: bt.WoodCost, Food: bt.FoodCost}

		b, err := w.economy.Build(ctx, BuildCmd{PlayerID: p.ID, Type: key, PosX: rng.Intn(20), PosY: rng.Intn(20)})
		got, _ := w.store.GetPlayer(ctx, p.ID)
		buildings, _ := w.store.ListBuildings(ctx, p.ID)

		if start.Covers(cost) {
			require.NoError(t, err, "case %d: start=%+v cost=%+v", i, start, cost)
			assert.Equal(t, start.Sub(cost), got.Resources(), "case %d", i)
			assert.Equal(t, 1, got.TerritorySize, "case %d", i)
			require.Len(t, buildings, 1)
			assert.Equal(t, b.ID, buildings[0].ID)
		} else {
			assert.Equal(t, domain.CodeInsufficientResources, errx.CodeOf(err), "case %d: start=%+v cost=%+v", i, start, cost)
			assert.Equal(t, start, got.Resources(), "case %d", i)
			assert.Equal(t, 0, got.TerritorySize, "case %d", i)
			assert.Empty(t, buildings, "case %d", i)
		}
		assert.GreaterOrEqual(t, got.Gold, int64(0))
		assert.GreaterOrEqual(t, got.Wood, int64(0))
		assert.GreaterOrEqual(t, got.Food, int64(0))
	}
}

func TestRecruit_随机数量_总价恰好等于单价乘数量(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	w := newWorld(DefaultRules())
	ctx := context.Background()
	units := w.cat.Units()

	for i := 0; i < 300; i++ {
		p, err := w.query.CreatePlayer(ctx, fmt.Sprintf("outlaw%03d", i))
		require.NoError(t, err)
		start := domain.Resources{Gold: rng.Int63n(2000), Wood: rng.Int63n(2000), Food: rng.Int63n(2000)}
		p.SetResources(start)
		require.NoError(t, w.store.UpdatePlayer(ctx, p))

		ut := units[rng.Intn(len(units))]
		qty := 1 + rng.Int63n(30)
		total := domain.Resources{Gold: ut.GoldCost * qty, Wood: ut.WoodCost * qty, Food: ut.FoodCost * qty}

		_, err = w.economy.Recruit(ctx, RecruitCmd{PlayerID: p.ID, Type: ut.ID, Quantity: qty})
		got, _ := w.store.GetPlayer(ctx, p.ID)
		if start.Covers(total) {
			require.NoError(t, err, "case %d", i)
			assert.Equal(t, start.Sub(total), got.Resources(), "case %d", i)
			u, found, _ := w.store.FindUnit(ctx, p.ID, ut.ID)
			require.True(t, found)
			assert.Equal(t, qty, u.Quantity)
		} else {
			assert.Equal(t, domain.CodeInsufficientResources, errx.CodeOf(err), "case %d", i)
			assert.Equal(t, start, got.Resources(), "case %d", i)
		}
	}
}
