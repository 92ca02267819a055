package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/savanna/animal"
	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/sim"
	"github.com/pthm-cable/savanna/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	biome := flag.String("biome", "", "Biome override: savanna, tundra, tropical forest, desert")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config, then time-based)")
	maxTurns := flag.Int("max-turns", 0, "Stop after N turns (0 = use config)")
	resume := flag.String("resume", "", "Resume from a snapshot JSON file")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *biome != "" {
		b, err := animal.ParseBiome(*biome)
		if err != nil {
			slog.Error("invalid biome", "error", err)
			os.Exit(1)
		}
		cfg.Simulation.Biome = b
	}

	opts := sim.Options{
		Seed:        *seed,
		MaxTurns:    *maxTurns,
		LogStats:    *logStats,
		OutputDir:   *outputDir,
		SnapshotDir: *snapshotDir,
	}

	if *resume != "" {
		snap, err := telemetry.LoadSnapshot(*resume)
		if err != nil {
			slog.Error("failed to load snapshot", "error", err)
			os.Exit(1)
		}
		opts.Resume = snap
		if opts.Seed == 0 {
			opts.Seed = snap.RNGSeed
		}
	}
	if opts.Seed == 0 {
		opts.Seed = cfg.Simulation.Seed
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts sim.Options) error {
	runner, err := sim.NewRunner(cfg, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := runner.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}()

	result, err := runner.Run(ctx)
	if errors.Is(err, context.Canceled) {
		slog.Info("interrupted", "turn", result.Turns)
		return nil
	}
	return err
}
