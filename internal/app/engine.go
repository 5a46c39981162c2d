// Package app собирает движок из конфигурации: логирование, телеметрию,
// метрики, хранилище правок и мир.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/annel0/voxel-engine/internal/camera"
	"github.com/annel0/voxel-engine/internal/config"
	"github.com/annel0/voxel-engine/internal/entity"
	"github.com/annel0/voxel-engine/internal/input"
	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/metrics"
	"github.com/annel0/voxel-engine/internal/observability"
	"github.com/annel0/voxel-engine/internal/sim"
	"github.com/annel0/voxel-engine/internal/storage"
	"github.com/annel0/voxel-engine/internal/util"
	"github.com/annel0/voxel-engine/internal/world"
	"github.com/annel0/voxel-engine/internal/world/block"
	"github.com/go-gl/mathgl/mgl32"
	"go.opentelemetry.io/otel/attribute"
)

// Engine владеет миром и всеми ресурсами, которые нужно закрыть при выходе
type Engine struct {
	Config *config.Config
	World  *world.World
	Store  *storage.WorldStorage // nil, если storage.path не задан

	metricsServer *metrics.Server
	shutdownOtel  observability.ShutdownFunc
	logger        *logging.Logger
}

// TerrainParams переводит секцию terrain конфигурации в параметры генератора
func TerrainParams(cfg config.TerrainConfig) (world.TerrainParams, error) {
	surface, ok := block.ParseBlockID(cfg.SurfaceBlock)
	if !ok {
		return world.TerrainParams{}, fmt.Errorf("неизвестный блок поверхности %q", cfg.SurfaceBlock)
	}
	return world.TerrainParams{
		Scale:       cfg.Scale,
		BaseHeight:  cfg.BaseHeight,
		HeightRange: cfg.HeightRange,
		Lacunarity:  cfg.Lacunarity,
		Gain:        cfg.Gain,
		Octaves:     cfg.Octaves,
		Surface:     surface,
	}, nil
}

// NewWorld создаёт пустой мир по конфигурации (без хранилища)
func NewWorld(cfg *config.Config) (*world.World, error) {
	params, err := TerrainParams(cfg.Terrain)
	if err != nil {
		return nil, err
	}
	gen := world.NewGenerator(util.NewPerlinNoise(cfg.World.Seed), params)
	w := world.NewWorld(gen, world.Atlas{Tiles: cfg.World.AtlasTiles})
	w.SetWorkers(cfg.World.Workers)
	return w, nil
}

// New поднимает движок. При ошибке уже открытые ресурсы закрываются.
func New(ctx context.Context, cfg *config.Config) (e *Engine, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("конфигурация: %w", err)
	}

	logging.GetLoggerManager().Configure(cfg.Logging.Dir, logging.ParseLevel(cfg.Logging.Level))

	e = &Engine{
		Config: cfg,
		logger: logging.GetComponentLogger("app"),
	}
	defer func() {
		if err != nil {
			e.Close()
		}
	}()

	e.shutdownOtel, err = observability.Setup(ctx, cfg.Telemetry.Enabled, cfg.Telemetry.ServiceName,
		attribute.Int64("world.seed", cfg.World.Seed))
	if err != nil {
		return nil, fmt.Errorf("телеметрия: %w", err)
	}

	if port := cfg.Server.GetMetricsPort(); port > 0 {
		e.metricsServer, err = metrics.StartHTTP(fmt.Sprintf(":%d", port))
		if err != nil {
			return nil, err
		}
	}

	e.World, err = NewWorld(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Storage.Path != "" {
		e.Store, err = storage.NewWorldStorage(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("хранилище правок: %w", err)
		}
		e.World.SetEditStore(e.Store)
	}

	e.logger.Info("Движок готов: seed=%d, дальность=%d, воркеров=%d, хранилище=%q",
		cfg.World.Seed, cfg.World.RenderDistance, cfg.World.Workers, cfg.Storage.Path)
	return e, nil
}

// LoadAround загружает квадрат дальности прорисовки вокруг мирового столбца
func (e *Engine) LoadAround(ctx context.Context, x, z int) error {
	center, _, _ := world.Resolve(x, z)
	return e.World.LoadArea(ctx, center, e.Config.World.RenderDistance)
}

// NewSimulation создаёт игрока над столбцом (x, z) с параметрами из конфигурации
func (e *Engine) NewSimulation(src input.Source, x, z int) *sim.Context {
	pc := e.Config.Physics
	cc := e.Config.Camera

	player := sim.Spawn(e.World, x, z)
	player.Body = entity.Body{Width: pc.Width, Height: pc.Height, Depth: pc.Depth, EyeHeight: pc.EyeHeight}
	player.Physics = entity.PhysicsParams{
		Gravity:          pc.Gravity,
		JumpStrength:     pc.JumpStrength,
		TerminalVelocity: pc.TerminalVelocity,
	}

	cam := camera.NewWithAngles(mgl32.Vec3{}, cc.Yaw, cc.Pitch)
	cam.Sensitivity = cc.Sensitivity
	cam.Zoom = mgl32.Clamp(cc.Zoom, camera.MinZoom, camera.MaxZoom)

	ctx := sim.New(e.World, player, cam, src)
	ctx.Movement = sim.Movement{WalkSpeed: pc.WalkSpeed, SprintMultiplier: pc.SprintMultiplier}
	return ctx
}

// Close сохраняет правки и освобождает ресурсы в обратном порядке
func (e *Engine) Close() error {
	var errs []error

	if e.World != nil {
		if err := e.World.Close(); err != nil {
			errs = append(errs, fmt.Errorf("мир: %w", err))
		}
	}
	if e.Store != nil {
		if err := e.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("хранилище: %w", err))
		}
	}
	if err := e.metricsServer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("метрики: %w", err))
	}
	if e.shutdownOtel != nil {
		if err := e.shutdownOtel(context.Background()); err != nil {
			errs = append(errs, fmt.Errorf("телеметрия: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		e.logger.Error("Ошибки при остановке: %v", err)
		return err
	}
	e.logger.Debug("Движок остановлен")
	return nil
}
