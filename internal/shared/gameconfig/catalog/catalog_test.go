package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_内置数值(t *testing.T) {
	c := Default()

	saloon, ok := c.Building("saloon")
	require.True(t, ok)
	assert.Equal(t, int64(100), saloon.GoldCost)
	assert.Equal(t, int64(50), saloon.WoodCost)
	assert.Equal(t, 30, saloon.BuildTime)
	require.NotNil(t, saloon.Produces)
	assert.Equal(t, ResourceGold, saloon.Produces.Resource)
	assert.Equal(t, int64(10), saloon.Produces.Amount)

	sheriff, ok := c.Unit("sheriff")
	require.True(t, ok)
	assert.Equal(t, int64(12), sheriff.Attack)
	assert.Equal(t, int64(15), sheriff.Defense)

	_, ok = c.Building("castle")
	assert.False(t, ok)
	assert.Equal(t, DefaultMapSize, c.MapSize())
	require.NoError(t, validate(c))
}

func TestBuildings_按key排序(t *testing.T) {
	var ids []string
	for _, b := range Default().Buildings() {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"bank", "goldmine", "saloon", "stable"}, ids)

	ids = ids[:0]
	for _, u := range Default().Units() {
		ids = append(ids, u.ID)
	}
	assert.Equal(t, []string{"bandit", "cowboy", "sheriff"}, ids)
}

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_文件覆盖并新增条目(t *testing.T) {
	p := writeCatalog(t, `{
  "mapSize": 30,
  "buildings": {
    "saloon": {"name": "Saloon", "goldCost": 1, "woodCost": 2, "foodCost": 3, "buildTime": 5,
               "produces": {"resource": "gold", "amount": 99, "interval": 60}},
    "lumberyard": {"name": "Lumberyard", "goldCost": 40, "woodCost": 0, "foodCost": 0, "buildTime": 20,
                   "produces": {"resource": "wood", "amount": 12, "interval": 60}}
  }
}`)

	c, err := Load(p)
	require.NoError(t, err)

	saloon, _ := c.Building("saloon")
	assert.Equal(t, int64(1), saloon.GoldCost)
	assert.Equal(t, int64(99), saloon.Produces.Amount)
	assert.Equal(t, "saloon", saloon.ID)

	ly, ok := c.Building("lumberyard")
	require.True(t, ok)
	assert.Equal(t, ResourceWood, ly.Produces.Resource)

	_, ok = c.Building("bank")
	assert.True(t, ok, "未覆盖的内置条目保留")
	assert.Equal(t, 30, c.MapSize())
}

func TestLoad_非法条目被拒绝(t *testing.T) {
	cases := map[string]string{
		"负成本":    `{"units": {"cowboy": {"goldCost": -1}}}`,
		"建造时间为0": `{"buildings": {"saloon": {"goldCost": 1, "buildTime": 0}}}`,
		"未知产出资源": `{"buildings": {"saloon": {"buildTime": 3, "produces": {"resource": "iron", "amount": 1}}}}`,
		"产出为0":   `{"buildings": {"saloon": {"buildTime": 3, "produces": {"resource": "gold", "amount": 0}}}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeCatalog(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_空路径返回内置表(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Len(t, c.Buildings(), 4)
}
