package cmd

import (
	"path/filepath"
	"testing"
	"time"

	"FrontierTown/internal/shared/gameconfig/catalog"
	"FrontierTown/internal/shared/serverconfig"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	t.Setenv(serverconfig.EnvConfigPath, "")

	loader, err := serverconfig.Load("")
	require.NoError(t, err)
	conf := loader.Get()

	assert.Equal(t, 3000, conf.Server.Port)
	assert.Equal(t, 60*time.Second, conf.Game.TickInterval)
	assert.Equal(t, 5*time.Second, conf.Game.AskTimeout)
	assert.Equal(t, int64(500), conf.Game.Start.Gold)
	assert.True(t, conf.Game.TrustBattleStats)
	assert.Empty(t, conf.Journal.Driver)
}

func TestReadCatalog_与内置表一致(t *testing.T) {
	t.Setenv(serverconfig.EnvConfigPath, "")

	loader, err := serverconfig.Load("")
	require.NoError(t, err)
	path := filepath.Join(filepath.Dir(loader.Path()), loader.Get().Logic.CatalogFile)

	c, err := catalog.Load(path)
	require.NoError(t, err)
	assert.Equal(t, catalog.Default().Buildings(), c.Buildings())
	assert.Equal(t, catalog.Default().Units(), c.Units())
}
