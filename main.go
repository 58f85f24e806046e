package main

import (
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pond/config"
	"github.com/pthm-cable/pond/renderer"
	"github.com/pthm-cable/pond/sim"
	"github.com/pthm-cable/pond/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV telemetry and run summary")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rngSeed))

	statsWindowSec := cfg.Telemetry.StatsWindow
	if *statsWindow > 0 {
		statsWindowSec = *statsWindow
	}

	world := sim.NewWorld(cfg, rng)
	collector := telemetry.NewCollector(statsWindowSec, cfg.Physics.DT)

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to initialize output", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := out.WriteSummary(world.Statistics()); err != nil {
			slog.Error("failed to write summary", "error", err)
		}
		if err := out.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}()
	if err := out.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	slog.Info("starting simulation",
		"seed", rngSeed,
		"headless", *headless,
		"stats_window", statsWindowSec,
		"max_ticks", *maxTicks,
	)

	if *headless {
		runHeadless(world, collector, out, *maxTicks)
		return
	}
	runGraphical(cfg, world, collector, out, *maxTicks)
}

// stepOnce advances the world one tick and feeds the collector,
// flushing a stats window when due.
func stepOnce(world *sim.World, collector *telemetry.Collector, out *telemetry.OutputManager) {
	agent := world.Agent
	prevStrikes := agent.Strikes
	prevCatches := agent.CaughtFlies

	snap := world.Step()
	collector.RecordTick(snap, agent.Energy)
	for i := prevStrikes; i < agent.Strikes; i++ {
		collector.RecordStrike()
	}
	for i := prevCatches; i < agent.CaughtFlies; i++ {
		collector.RecordCatch()
	}

	if collector.ShouldFlush(world.Tick) {
		stats := collector.Flush(world.Tick)
		if err := out.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		slog.Info("window",
			"tick", stats.WindowEndTick,
			"catches", stats.Catches,
			"strikes", stats.Strikes,
			"energy", stats.EnergyMean,
			"dopamine", stats.DopamineMean,
			"juvenile", stats.Juvenile,
		)
	}
}

func runHeadless(world *sim.World, collector *telemetry.Collector, out *telemetry.OutputManager, maxTicks int) {
	for {
		stepOnce(world, collector, out)
		if maxTicks > 0 && world.Tick >= maxTicks {
			slog.Info("max ticks reached", "tick", world.Tick)
			return
		}
	}
}

func runGraphical(cfg *config.Config, world *sim.World, collector *telemetry.Collector, out *telemetry.OutputManager, maxTicks int) {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Pond")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	rdr := renderer.New(cfg)
	ctl := renderer.Controls{Speed: 1}

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeySpace) {
			ctl.Paused = !ctl.Paused
		}
		if !ctl.Paused {
			for i := 0; i < ctl.Speed; i++ {
				stepOnce(world, collector, out)
			}
		}

		ctl = rdr.Draw(world, world.LastSnapshot, ctl)

		if maxTicks > 0 && world.Tick >= maxTicks {
			break
		}
	}
}
