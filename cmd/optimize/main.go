// Package main searches population caps and species rates with CMA-ES for
// settings where herbivores and carnivores coexist the longest.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/savanna/animal"
	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/telemetry"
)

const bestConfigFile = "best_config.yaml"

type options struct {
	configPath string
	biome      string
	outputDir  string
	maxTurns   int
	seeds      int
	maxEvals   int
	population int
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.StringVar(&o.biome, "biome", "", "Biome override")
	flag.StringVar(&o.outputDir, "output", "", "Output directory for results")
	flag.IntVar(&o.maxTurns, "max-turns", 2000, "Turn cap per run")
	flag.IntVar(&o.seeds, "seeds", 3, "Number of seeds per evaluation")
	flag.IntVar(&o.maxEvals, "max-evals", 200, "Maximum number of evaluations")
	flag.IntVar(&o.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.Parse()
	return o
}

func main() {
	opts := parseFlags()

	// Runners log every start and finish; keep only their warnings.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(opts, logger); err != nil {
		logger.Error("optimization failed", "error", err)
		os.Exit(1)
	}
}

func run(opts options, logger *slog.Logger) error {
	if opts.outputDir == "" {
		return errors.New("-output is required")
	}
	if opts.seeds < 1 {
		return errors.New("-seeds must be at least 1")
	}
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.biome != "" {
		b, err := animal.ParseBiome(opts.biome)
		if err != nil {
			return err
		}
		cfg.Simulation.Biome = b
	}

	params := NewParamVector()
	evaluator := NewFitnessEvaluator(params, opts.maxTurns, evalSeeds(opts.seeds), cfg)

	evals, err := openEvalLog(filepath.Join(opts.outputDir, evalLogFile))
	if err != nil {
		return err
	}
	defer evals.Close()

	tracker := &progress{logger: logger, total: opts.maxEvals, start: time.Now()}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			fitness := evaluator.Evaluate(params.Denormalize(x))
			n := tracker.record(evaluator.Last(), evaluator.Best())
			if err := evals.Write(newEvalRecord(n, evaluator.Last())); err != nil {
				logger.Warn("failed to write eval log", "error", err)
			}
			return fitness
		},
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   cmaPopulation(opts.population, params.Dim()),
	}

	logger.Info("starting optimization",
		"params", params.Dim(),
		"population", method.Population,
		"max_evals", opts.maxEvals,
		"seeds", opts.seeds,
		"max_turns", opts.maxTurns,
		"biome", cfg.Simulation.Biome.String(),
	)

	settings := &optimize.Settings{FuncEvaluations: opts.maxEvals}
	if _, err := optimize.Minimize(problem, params.Normalize(params.DefaultVector()), settings, method); err != nil {
		logger.Warn("optimization ended early", "error", err)
	}

	best := evaluator.Best()
	if best.Values == nil {
		return errors.New("no evaluation completed")
	}
	logBest(logger, params, best, time.Since(tracker.start))
	return writeResults(opts.outputDir, cfg, params, best, evaluator.BestHallOfFame(), logger)
}

// evalSeeds returns n fixed seeds so every evaluation sees the same runs.
func evalSeeds(n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = int64(i*1000 + 42)
	}
	return seeds
}

// cmaPopulation returns the requested population or 4 + 1.5 per dimension.
func cmaPopulation(requested, dim int) int {
	if requested > 0 {
		return requested
	}
	return 4 + 3*dim/2
}

// progress logs one line per evaluation with an ETA.
type progress struct {
	logger *slog.Logger
	total  int
	count  int
	start  time.Time
}

func (p *progress) record(last, best Evaluation) int {
	p.count++
	elapsed := time.Since(p.start)
	eta := elapsed / time.Duration(p.count) * time.Duration(max(p.total-p.count, 0))
	p.logger.Info("evaluation",
		"eval", p.count,
		"of", p.total,
		"fitness", last.Fitness,
		"quality", last.Quality,
		"mean_survival", last.MeanSurvival(),
		"extinct_seeds", last.Count(endExtinct),
		"functional_extinct_seeds", last.Count(endFunctional),
		"best_fitness", best.Fitness,
		"elapsed", elapsed.Round(time.Second).String(),
		"eta", eta.Round(time.Second).String(),
	)
	return p.count
}

// logBest reports the winning parameters and how each of its seeds ended.
func logBest(logger *slog.Logger, params *ParamVector, best Evaluation, took time.Duration) {
	attrs := make([]any, 0, 2*len(params.Specs))
	for i, spec := range params.Specs {
		attrs = append(attrs, spec.Name, best.Values[i])
	}
	logger.Info("best parameters",
		"fitness", best.Fitness,
		"quality", best.Quality,
		"took", took.Round(time.Second).String(),
		slog.Group("params", attrs...),
	)
	for _, s := range best.Seeds {
		logger.Info("best seed", "seed", s.Seed, "turns", s.Turns, "reason", string(s.Reason), "quality", s.Quality)
	}
}

// writeResults saves the best config and the hall of fame of its best seed.
func writeResults(dir string, base *config.Config, params *ParamVector, best Evaluation, hof *telemetry.HallOfFame, logger *slog.Logger) error {
	bestCfg := copyConfig(base)
	params.ApplyToConfig(bestCfg, best.Values)
	configPath := filepath.Join(dir, bestConfigFile)
	if err := bestCfg.WriteYAML(configPath); err != nil {
		return err
	}
	logger.Info("best config saved", "path", configPath)

	if hof == nil || hof.Size() == 0 {
		return nil
	}
	data, err := hof.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshaling hall of fame: %w", err)
	}
	hofPath := filepath.Join(dir, telemetry.HallOfFameFile)
	if err := os.WriteFile(hofPath, data, 0644); err != nil {
		return fmt.Errorf("writing hall of fame: %w", err)
	}
	logger.Info("hall of fame saved", "path", hofPath)
	return nil
}
