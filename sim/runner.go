// Package sim runs the headless turn loop over an ecosystem.
package sim

import (
	"context"
	"log/slog"
	"math/rand"
	"path/filepath"

	"github.com/pthm-cable/savanna/animal"
	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/ecosystem"
	"github.com/pthm-cable/savanna/species"
	"github.com/pthm-cable/savanna/telemetry"
)

// StopReason says why Run returned.
type StopReason string

const (
	StopExtinction StopReason = "extinction"
	StopMaxTurns   StopReason = "max_turns"
	StopCanceled   StopReason = "canceled"
)

// Options configures a Runner beyond what the config file holds.
type Options struct {
	Seed        int64 // RNG seed; the caller resolves 0 to a time-based seed
	MaxTurns    int   // overrides simulation.max_turns when > 0
	LogStats    bool  // log every flushed window
	OutputDir   string
	SnapshotDir string // defaults to <OutputDir>/snapshots when snapshot_on_bookmark is set

	// Resume continues from a saved snapshot instead of seeding.
	Resume *telemetry.Snapshot

	// StatsCallback, if set, receives every flushed window.
	StatsCallback func(telemetry.WindowStats)
}

// Result summarizes a finished run.
type Result struct {
	Turns      int
	Reason     StopReason
	Extinct    []animal.Type
	Herbivores int
	Carnivores int
}

// LogValue implements slog.LogValuer.
func (r Result) LogValue() slog.Value {
	extinct := make([]string, len(r.Extinct))
	for i, t := range r.Extinct {
		extinct[i] = t.String()
	}
	return slog.GroupValue(
		slog.Int("turns", r.Turns),
		slog.String("reason", string(r.Reason)),
		slog.Any("extinct", extinct),
		slog.Int("herbivores", r.Herbivores),
		slog.Int("carnivores", r.Carnivores),
	)
}

// Runner owns one ecosystem and drives it turn by turn. It is single-threaded;
// Run and Step must not be called concurrently.
type Runner struct {
	cfg      *config.Config
	rng      *rand.Rand
	seed     int64
	eco      *ecosystem.Ecosystem
	registry *species.Registry
	caps     map[animal.Type]int

	turn          int
	maxTurns      int
	lastFlushTurn int

	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	lifetimeTracker  *telemetry.LifetimeTracker
	hallOfFame       *telemetry.HallOfFame
	outputManager    *telemetry.OutputManager

	logStats      bool
	snapshotDir   string
	statsCallback func(telemetry.WindowStats)
}

// NewRunner builds the ecosystem from cfg, seeding or resuming the population.
func NewRunner(cfg *config.Config, opts Options) (*Runner, error) {
	rng := rand.New(rand.NewSource(opts.Seed))

	r := &Runner{
		cfg:              cfg,
		rng:              rng,
		seed:             opts.Seed,
		registry:         species.FromConfig(cfg),
		caps:             cfg.BreedingCaps(),
		maxTurns:         cfg.Simulation.MaxTurns,
		collector:        telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks),
		lifetimeTracker:  telemetry.NewLifetimeTracker(),
		hallOfFame:       telemetry.NewHallOfFame(cfg.Telemetry.HallOfFameSize),
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,
		statsCallback:    opts.StatsCallback,
	}
	if opts.MaxTurns > 0 {
		r.maxTurns = opts.MaxTurns
	}
	if r.snapshotDir == "" && opts.OutputDir != "" && cfg.Telemetry.SnapshotOnBookmark {
		r.snapshotDir = filepath.Join(opts.OutputDir, "snapshots")
	}

	source := ecosystem.NewRandSourceFrom(rng)
	if opts.Resume != nil {
		if err := r.resume(opts.Resume, source); err != nil {
			return nil, err
		}
	} else {
		r.eco = ecosystem.New(cfg.Simulation.Biome, source)
		if err := r.spawnInitialPopulation(); err != nil {
			return nil, err
		}
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	r.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, err
	}

	return r, nil
}

// Run steps the simulation until a type goes extinct, the turn limit is
// reached, or ctx is canceled. Canceling returns ctx.Err() with the partial result.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	slog.Info("starting simulation",
		"seed", r.seed,
		"biome", r.eco.Biome().String(),
		"max_turns", r.maxTurns,
		"herbivores", r.eco.Population(animal.TypeHerbivore),
		"carnivores", r.eco.Population(animal.TypeCarnivore),
	)

	for {
		if err := ctx.Err(); err != nil {
			return r.finish(StopCanceled), err
		}
		if r.eco.HasExtinctAnimalType() {
			return r.finish(StopExtinction), nil
		}
		if r.maxTurns > 0 && r.turn >= r.maxTurns {
			return r.finish(StopMaxTurns), nil
		}
		r.Step()
	}
}

// finish flushes the trailing partial window and writes end-of-run output.
func (r *Runner) finish(reason StopReason) Result {
	if r.turn > r.lastFlushTurn {
		r.flushWindow()
	}
	if err := r.outputManager.WriteHallOfFame(r.hallOfFame); err != nil {
		slog.Error("failed to write hall of fame", "error", err)
	}

	result := Result{
		Turns:      r.turn,
		Reason:     reason,
		Extinct:    r.eco.ExtinctTypes(),
		Herbivores: r.eco.Population(animal.TypeHerbivore),
		Carnivores: r.eco.Population(animal.TypeCarnivore),
	}
	slog.Info("simulation finished", "result", result)
	return result
}

// Close releases output files.
func (r *Runner) Close() error {
	return r.outputManager.Close()
}

// Turn returns the number of completed turns.
func (r *Runner) Turn() int {
	return r.turn
}

// Ecosystem returns the engine being driven.
func (r *Runner) Ecosystem() *ecosystem.Ecosystem {
	return r.eco
}

// Registry returns the species registry used for seeding and ids.
func (r *Runner) Registry() *species.Registry {
	return r.registry
}

// HallOfFame returns the best hunters recorded so far.
func (r *Runner) HallOfFame() *telemetry.HallOfFame {
	return r.hallOfFame
}
