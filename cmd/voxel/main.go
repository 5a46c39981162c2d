package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/voxel-engine/internal/app"
	"github.com/annel0/voxel-engine/internal/config"
	"github.com/annel0/voxel-engine/internal/input"
	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/metrics"
	"github.com/annel0/voxel-engine/internal/world"
	"github.com/annel0/voxel-engine/internal/world/block"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := logging.InitDefaultLogger("voxel"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp(ctx).Run(os.Args); err != nil {
		logging.Error("❌ %v", err)
		stop()
		logging.CloseDefaultLogger()
		os.Exit(1)
	}
}

func newApp(ctx context.Context) *cli.App {
	return &cli.App{
		Name:  "voxel",
		Usage: "генерация, построение мешей и физика воксельного мира",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML файл конфигурации", EnvVars: []string{"VOXEL_CONFIG"}},
			&cli.IntFlag{Name: "metrics-port", Usage: "порт Prometheus /metrics (0 = выключено)"},
			&cli.BoolFlag{Name: "trace", Usage: "включить экспорт трассировки OTLP"},
			&cli.StringFlag{Name: "log-level", Usage: "уровень консоли: trace, debug, info, warn, error"},
			&cli.Int64Flag{Name: "seed", Usage: "переопределить seed мира"},
			&cli.StringFlag{Name: "storage", Usage: "каталог хранилища правок"},
		},
		Commands: []*cli.Command{
			generateCommand(ctx),
			simulateCommand(ctx),
			editCommand(ctx),
		},
	}
}

// loadConfig читает конфигурацию и накладывает глобальные флаги
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("metrics-port") {
		cfg.Server.MetricsPort = c.Int("metrics-port")
	}
	if c.Bool("trace") {
		cfg.Telemetry.Enabled = true
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}
	if c.IsSet("seed") {
		cfg.World.Seed = c.Int64("seed")
	}
	if c.IsSet("storage") {
		cfg.Storage.Path = c.String("storage")
	}
	return cfg, cfg.Validate()
}

func startEngine(ctx context.Context, c *cli.Context) (*app.Engine, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg)
}

func generateCommand(ctx context.Context) *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "загрузить квадрат чанков и вывести статистику мешей",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "x", Usage: "мировая X центра"},
			&cli.IntFlag{Name: "z", Usage: "мировая Z центра"},
			&cli.IntFlag{Name: "radius", Usage: "радиус в чанках (по умолчанию world.render_distance)", Value: -1},
			&cli.BoolFlag{Name: "chunks", Usage: "вывести строку на каждый чанк"},
		},
		Action: func(c *cli.Context) error {
			engine, err := startEngine(ctx, c)
			if err != nil {
				return err
			}
			defer engine.Close()

			if r := c.Int("radius"); r >= 0 {
				engine.Config.World.RenderDistance = r
			}

			start := time.Now()
			if err := engine.LoadAround(ctx, c.Int("x"), c.Int("z")); err != nil {
				return err
			}
			elapsed := time.Since(start)

			var faces, vertices, solid int
			for _, chunk := range engine.World.Chunks() {
				mesh := chunk.Mesh()
				faces += mesh.Faces
				vertices += mesh.VertexCount()
				solid += chunk.SolidCount()
				if c.Bool("chunks") {
					fmt.Printf("chunk %4d %4d  solid=%4d faces=%5d vertices=%6d\n",
						chunk.Coords.X, chunk.Coords.Y, chunk.SolidCount(), mesh.Faces, mesh.VertexCount())
				}
			}

			stats := metrics.CurrentProcess()
			fmt.Printf("chunks:   %d\n", engine.World.Len())
			fmt.Printf("solid:    %d\n", solid)
			fmt.Printf("faces:    %d\n", faces)
			fmt.Printf("vertices: %d (%d floats)\n", vertices, vertices*world.FloatsPerVertex)
			fmt.Printf("time:     %v (%d workers)\n", elapsed.Round(time.Millisecond), engine.Config.World.Workers)
			fmt.Printf("heap:     %.1f MiB\n", float64(stats.HeapAllocBytes)/(1<<20))
			return nil
		},
	}
}

func simulateCommand(ctx context.Context) *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "поставить игрока в мир и прогнать физику со сценарием ввода",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "x", Usage: "столбец появления X"},
			&cli.IntFlag{Name: "z", Usage: "столбец появления Z"},
			&cli.IntFlag{Name: "ticks", Value: 600, Usage: "число тиков"},
			&cli.Float64Flag{Name: "dt", Value: 1.0 / 60.0, Usage: "длительность тика, с"},
			&cli.Float64Flag{Name: "drop", Usage: "поднять игрока над поверхностью на столько блоков"},
			&cli.Float64Flag{Name: "forward", Usage: "ввод вперёд/назад, -1..1"},
			&cli.Float64Flag{Name: "strafe", Usage: "ввод вправо/влево, -1..1"},
			&cli.Float64Flag{Name: "turn", Usage: "поворот за тик (в единицах указателя)"},
			&cli.BoolFlag{Name: "sprint", Usage: "бег"},
			&cli.IntFlag{Name: "jump-every", Usage: "прыгать каждые N тиков (0 = никогда)"},
		},
		Action: func(c *cli.Context) error {
			engine, err := startEngine(ctx, c)
			if err != nil {
				return err
			}
			defer engine.Close()

			if err := engine.LoadAround(ctx, c.Int("x"), c.Int("z")); err != nil {
				return err
			}

			ticks := c.Int("ticks")
			intent := input.Intent{
				Forward: float32(c.Float64("forward")),
				Strafe:  float32(c.Float64("strafe")),
				Sprint:  c.Bool("sprint"),
				LookDX:  float32(c.Float64("turn")),
			}
			script := buildScript(intent, ticks, c.Int("jump-every"))

			s := engine.NewSimulation(script, c.Int("x"), c.Int("z"))
			s.Player.Position[1] += float32(c.Float64("drop"))
			spawn := s.Player.Position

			if err := s.Run(ctx, ticks, float32(c.Float64("dt"))); err != nil {
				return err
			}

			fmt.Printf("run:      %s\n", s.RunID)
			fmt.Printf("spawn:    %.3f %.3f %.3f\n", spawn.X(), spawn.Y(), spawn.Z())
			fmt.Printf("final:    %.3f %.3f %.3f\n", s.Player.Position.X(), s.Player.Position.Y(), s.Player.Position.Z())
			fmt.Printf("velocity: %.3f %.3f %.3f\n", s.Player.Velocity.X(), s.Player.Velocity.Y(), s.Player.Velocity.Z())
			fmt.Printf("state:    %s\n", s.Player.State())
			if s.LandedAt > 0 {
				fmt.Printf("landed:   tick %d\n", s.LandedAt)
			} else {
				fmt.Println("landed:   never")
			}
			fmt.Printf("elapsed:  %v over %d ticks\n", s.Elapsed.Round(time.Millisecond), s.Ticks)
			return nil
		},
	}
}

// buildScript повторяет intent на каждом тике, добавляя прыжок каждые jumpEvery тиков
func buildScript(intent input.Intent, ticks, jumpEvery int) *input.Script {
	script := input.NewScript()
	for i := 1; i <= ticks; i++ {
		step := intent
		step.Jump = jumpEvery > 0 && i%jumpEvery == 0
		script.Repeat(step, 1)
	}
	return script
}

func editCommand(ctx context.Context) *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "изменить блок и сохранить правку в хранилище",
		ArgsUsage: "<x> <y> <z> <block>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 4 {
				return fmt.Errorf("ожидалось 4 аргумента: x y z block")
			}
			var x, y, z int
			for i, dst := range []*int{&x, &y, &z} {
				if _, err := fmt.Sscanf(c.Args().Get(i), "%d", dst); err != nil {
					return fmt.Errorf("координата %q: %w", c.Args().Get(i), err)
				}
			}
			id, ok := block.ParseBlockID(c.Args().Get(3))
			if !ok {
				return fmt.Errorf("неизвестный блок %q", c.Args().Get(3))
			}

			engine, err := startEngine(ctx, c)
			if err != nil {
				return err
			}
			defer engine.Close()
			if engine.Store == nil {
				return fmt.Errorf("хранилище не настроено: задайте storage.path или --storage")
			}

			coords, _, _ := world.Resolve(x, z)
			if _, err := engine.World.LoadChunk(ctx, coords); err != nil {
				return err
			}
			before := engine.World.GetBlock(x, y, z)
			if before == id {
				fmt.Printf("(%d,%d,%d): already %s\n", x, y, z, id)
				return nil
			}
			if !engine.World.SetBlock(x, y, z, id) {
				return fmt.Errorf("блок (%d,%d,%d) вне мира", x, y, z)
			}
			if err := engine.World.Flush(); err != nil {
				return err
			}

			fmt.Printf("(%d,%d,%d): %s -> %s in chunk %d %d\n", x, y, z, before, id, coords.X, coords.Y)
			return nil
		},
	}
}
