package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации движка.
// Пустые поля заполняются значениями из Default().
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Terrain   TerrainConfig   `yaml:"terrain"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Camera    CameraConfig    `yaml:"camera"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
	Server    ServerConfig    `yaml:"server"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type WorldConfig struct {
	Seed           int64 `yaml:"seed"`
	RenderDistance int   `yaml:"render_distance"` // полуширина квадрата загрузки в чанках
	Workers        int   `yaml:"workers"`
	AtlasTiles     int   `yaml:"atlas_tiles"`
}

type TerrainConfig struct {
	Scale        float64 `yaml:"scale"`
	BaseHeight   int     `yaml:"base_height"`
	HeightRange  int     `yaml:"height_range"`
	Lacunarity   float64 `yaml:"lacunarity"`
	Gain         float64 `yaml:"gain"`
	Octaves      int     `yaml:"octaves"`
	SurfaceBlock string  `yaml:"surface_block"` // "dirt" или "grass"
}

type PhysicsConfig struct {
	Gravity          float32 `yaml:"gravity"`
	JumpStrength     float32 `yaml:"jump_strength"`
	TerminalVelocity float32 `yaml:"terminal_velocity"`
	Width            float32 `yaml:"width"`
	Height           float32 `yaml:"height"`
	Depth            float32 `yaml:"depth"`
	EyeHeight        float32 `yaml:"eye_height"`
	WalkSpeed        float32 `yaml:"walk_speed"`
	SprintMultiplier float32 `yaml:"sprint_multiplier"`
}

type CameraConfig struct {
	Yaw         float32 `yaml:"yaw"`
	Pitch       float32 `yaml:"pitch"`
	Sensitivity float32 `yaml:"sensitivity"`
	Zoom        float32 `yaml:"zoom"`
}

type StorageConfig struct {
	Path string `yaml:"path"` // пусто: правки не сохраняются
}

type LoggingConfig struct {
	Dir   string `yaml:"dir"`
	Level string `yaml:"level"`
}

type ServerConfig struct {
	MetricsPort int `yaml:"metrics_port"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Seed:           1337,
			RenderDistance: 4,
			Workers:        4,
			AtlasTiles:     3,
		},
		Terrain: TerrainConfig{
			Scale:        0.05,
			BaseHeight:   8,
			HeightRange:  6,
			Lacunarity:   2.0,
			Gain:         0.5,
			Octaves:      4,
			SurfaceBlock: "dirt",
		},
		Physics: PhysicsConfig{
			Gravity:          -20.0,
			JumpStrength:     8.0,
			TerminalVelocity: -50.0,
			Width:            0.6,
			Height:           1.8,
			Depth:            0.6,
			EyeHeight:        1.62,
			WalkSpeed:        10.0,
			SprintMultiplier: 2.5,
		},
		Camera: CameraConfig{
			Yaw:         -90.0,
			Pitch:       0.0,
			Sensitivity: 0.1,
			Zoom:        45.0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "voxel-engine",
		},
	}
}

// GetMetricsPort возвращает порт Prometheus: config -> env -> 0 (выключено)
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "VOXEL_METRICS_PORT", 0)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	// Если порт задан в конфиге и больше 0, используем его
	if configPort > 0 {
		return configPort
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать путь из ENV VOXEL_CONFIG,
// а при его отсутствии возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("VOXEL_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфигурации %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения, при которых ядро не может работать
func (c *Config) Validate() error {
	var errs []error

	if c.World.RenderDistance < 0 {
		errs = append(errs, fmt.Errorf("world.render_distance должен быть >= 0, получено %d", c.World.RenderDistance))
	}
	if c.World.Workers <= 0 {
		errs = append(errs, fmt.Errorf("world.workers должен быть > 0, получено %d", c.World.Workers))
	}
	if c.World.AtlasTiles <= 0 {
		errs = append(errs, fmt.Errorf("world.atlas_tiles должен быть > 0, получено %d", c.World.AtlasTiles))
	}
	if c.Terrain.Scale <= 0 {
		errs = append(errs, fmt.Errorf("terrain.scale должен быть > 0, получено %v", c.Terrain.Scale))
	}
	if c.Terrain.Octaves <= 0 {
		errs = append(errs, fmt.Errorf("terrain.octaves должен быть > 0, получено %d", c.Terrain.Octaves))
	}
	if c.Terrain.SurfaceBlock != "dirt" && c.Terrain.SurfaceBlock != "grass" {
		errs = append(errs, fmt.Errorf("terrain.surface_block: неизвестный блок %q", c.Terrain.SurfaceBlock))
	}
	if c.Physics.Width <= 0 || c.Physics.Height <= 0 || c.Physics.Depth <= 0 {
		errs = append(errs, errors.New("physics: размеры тела должны быть > 0"))
	}
	if c.Physics.TerminalVelocity >= 0 {
		errs = append(errs, errors.New("physics.terminal_velocity должна быть отрицательной"))
	}

	return errors.Join(errs...)
}
