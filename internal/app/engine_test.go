package app

import (
	"context"
	"net"
	"testing"

	"github.com/annel0/voxel-engine/internal/config"
	"github.com/annel0/voxel-engine/internal/entity"
	"github.com/annel0/voxel-engine/internal/input"
	"github.com/annel0/voxel-engine/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.World.RenderDistance = 1
	cfg.Logging.Level = "warn"
	t.Setenv("VOXEL_METRICS_PORT", "")
	return cfg
}

func TestTerrainParams(t *testing.T) {
	cfg := config.Default()
	cfg.Terrain.SurfaceBlock = "grass"

	params, err := TerrainParams(cfg.Terrain)
	require.NoError(t, err)
	assert.Equal(t, block.GrassBlockID, params.Surface)
	assert.Equal(t, cfg.Terrain.Octaves, params.Octaves)

	cfg.Terrain.SurfaceBlock = "lava"
	_, err = TerrainParams(cfg.Terrain)
	assert.Error(t, err)
}

func TestEngineWithoutStorage(t *testing.T) {
	e, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer e.Close()

	assert.Nil(t, e.Store)
	require.NoError(t, e.LoadAround(context.Background(), -5, 40))
	assert.Equal(t, 9, e.World.Len())

	_, ok := e.World.ChunkAt(-5, 40)
	assert.True(t, ok)
}

func TestEngineRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.World.Workers = 0

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestEngineSimulationUsesConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Physics.WalkSpeed = 4
	cfg.Physics.JumpStrength = 5
	cfg.Camera.Sensitivity = 0.2

	e, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer e.Close()
	require.NoError(t, e.LoadAround(context.Background(), 0, 0))

	s := e.NewSimulation(input.Static{}, 0, 0)
	assert.Equal(t, float32(4), s.Movement.WalkSpeed)
	assert.Equal(t, float32(5), s.Player.Physics.JumpStrength)
	assert.Equal(t, float32(0.2), s.Camera.Sensitivity)

	require.NoError(t, s.Run(context.Background(), 60, 1.0/60))
	assert.Equal(t, entity.Grounded, s.Player.State())
}

func TestEnginePersistsEdits(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Path = t.TempDir()
	ctx := context.Background()

	e, err := New(ctx, cfg)
	require.NoError(t, err)
	require.NotNil(t, e.Store)
	require.NoError(t, e.LoadAround(ctx, 0, 0))
	require.True(t, e.World.SetBlock(2, 15, 2, block.StoneBlockID))
	require.NoError(t, e.Close())

	again, err := New(ctx, cfg)
	require.NoError(t, err)
	defer again.Close()
	require.NoError(t, again.LoadAround(ctx, 0, 0))
	assert.Equal(t, block.StoneBlockID, again.World.GetBlock(2, 15, 2))
}

func TestEngineFailsOnBusyMetricsPort(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := testConfig(t)
	cfg.Server.MetricsPort = ln.Addr().(*net.TCPAddr).Port

	e, err := New(context.Background(), cfg)
	assert.Error(t, err)
	assert.Nil(t, e)
}
