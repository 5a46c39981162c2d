package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 4, cfg.Terrain.Octaves)
	assert.Equal(t, 2.0, cfg.Terrain.Lacunarity)
	assert.Equal(t, 0.5, cfg.Terrain.Gain)
	assert.Equal(t, float32(-20), cfg.Physics.Gravity)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	t.Setenv("VOXEL_CONFIG", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voxel.yaml")
	data := []byte("world:\n  seed: 42\n  render_distance: 2\nterrain:\n  surface_block: grass\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.World.Seed)
	assert.Equal(t, 2, cfg.World.RenderDistance)
	assert.Equal(t, "grass", cfg.Terrain.SurfaceBlock)
	// Незаданные поля остаются по умолчанию
	assert.Equal(t, 4, cfg.World.Workers)
	assert.Equal(t, 0.05, cfg.Terrain.Scale)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("terrain:\n  octaves: 0\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRenderDistance(t *testing.T) {
	cfg := Default()

	// Нулевой радиус: один чанк под игроком
	cfg.World.RenderDistance = 0
	assert.NoError(t, cfg.Validate())

	cfg.World.RenderDistance = -1
	assert.Error(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMetricsPortFallback(t *testing.T) {
	s := ServerConfig{}
	t.Setenv("VOXEL_METRICS_PORT", "")
	assert.Equal(t, 0, s.GetMetricsPort())

	t.Setenv("VOXEL_METRICS_PORT", "9100")
	assert.Equal(t, 9100, s.GetMetricsPort())

	s.MetricsPort = 2112
	assert.Equal(t, 2112, s.GetMetricsPort())
}
