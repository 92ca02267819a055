package main

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/savanna/animal"
	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/sim"
	"github.com/pthm-cable/savanna/telemetry"
)

// endReason says how one seeded run ended.
type endReason string

const (
	endSurvived   endReason = "survived"
	endExtinct    endReason = "extinct"
	endFunctional endReason = "functional_extinction"
	endSeedError  endReason = "seed_error"
)

// SeedOutcome summarizes one seeded run of an evaluation.
type SeedOutcome struct {
	Seed    int64
	Turns   int
	Reason  endReason
	Quality float64
	Fitness float64
}

// Evaluation is the result of one parameter vector across every seed.
type Evaluation struct {
	Values  []float64 // clamped values actually applied
	Fitness float64
	Quality float64
	Seeds   []SeedOutcome
}

// MeanSurvival is the average number of turns survived across seeds.
func (e Evaluation) MeanSurvival() float64 {
	if len(e.Seeds) == 0 {
		return 0
	}
	total := 0
	for _, s := range e.Seeds {
		total += s.Turns
	}
	return float64(total) / float64(len(e.Seeds))
}

// Count returns how many seeds ended for reason.
func (e Evaluation) Count(reason endReason) int {
	n := 0
	for _, s := range e.Seeds {
		if s.Reason == reason {
			n++
		}
	}
	return n
}

// FitnessEvaluator runs simulations and computes fitness. It keeps the best
// evaluation seen so far along with the hall of fame of its best seed.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTurns   int
	seeds      []int64
	baseConfig *config.Config

	last           Evaluation
	best           Evaluation
	bestHallOfFame *telemetry.HallOfFame
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTurns int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTurns:   maxTurns,
		seeds:      seeds,
		baseConfig: baseCfg,
		best:       Evaluation{Fitness: math.Inf(1)},
	}
}

// Last returns the most recent evaluation.
func (fe *FitnessEvaluator) Last() Evaluation { return fe.last }

// Best returns the lowest-fitness evaluation so far.
func (fe *FitnessEvaluator) Best() Evaluation { return fe.best }

// BestHallOfFame returns the hall of fame from the best seed of the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame { return fe.bestHallOfFame }

// A type that stays below minViablePop for extinctionGraceTurns consecutive
// turns counts as functionally extinct.
const (
	minViablePop         = 3
	extinctionGraceTurns = 15
	warmupTurns          = 10
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTurns int
	reason        endReason
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
	hallOfFame    *telemetry.HallOfFame
}

// Evaluate computes fitness for raw parameter values (lower = better). Seeds
// run one after another against the same derived config.
func (fe *FitnessEvaluator) Evaluate(values []float64) float64 {
	cfg := copyConfig(fe.baseConfig)
	fe.params.ApplyToConfig(cfg, values)

	eval := Evaluation{Values: fe.params.Clamp(values)}
	var bestSeedHallOfFame *telemetry.HallOfFame
	bestSeedFitness := math.Inf(1)
	var totalFitness, totalQuality float64

	for _, seed := range fe.seeds {
		result := fe.runSimulation(cfg, seed)
		quality := computeQuality(result.windowStats)
		fitness := computeFitness(result.survivalTurns, quality)
		eval.Seeds = append(eval.Seeds, SeedOutcome{
			Seed:    seed,
			Turns:   result.survivalTurns,
			Reason:  result.reason,
			Quality: quality,
			Fitness: fitness,
		})
		totalFitness += fitness
		totalQuality += quality
		if fitness < bestSeedFitness {
			bestSeedFitness = fitness
			bestSeedHallOfFame = result.hallOfFame
		}
	}

	n := float64(len(fe.seeds))
	eval.Fitness = totalFitness / n
	eval.Quality = totalQuality / n

	fe.last = eval
	if eval.Fitness < fe.best.Fitness {
		fe.best = eval
		fe.bestHallOfFame = bestSeedHallOfFame
	}
	return eval.Fitness
}

// runSimulation steps one runner until hard or functional extinction, or maxTurns.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) *runResult {
	result := &runResult{survivalTurns: fe.maxTurns, reason: endSurvived}

	runner, err := sim.NewRunner(cfg, sim.Options{
		Seed:     seed,
		MaxTurns: fe.maxTurns,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		slog.Warn("cannot seed run", "seed", seed, "error", err)
		result.survivalTurns = 0
		result.reason = endSeedError
		return result
	}
	defer runner.Close()

	eco := runner.Ecosystem()
	var herbBelow, carnBelow int
	for runner.Turn() < fe.maxTurns {
		runner.Step()
		turn := runner.Turn()

		if eco.HasExtinctAnimalType() {
			result.survivalTurns, result.reason = turn, endExtinct
			break
		}
		if turn < warmupTurns {
			continue
		}

		herbBelow = belowCount(herbBelow, eco.Population(animal.TypeHerbivore))
		carnBelow = belowCount(carnBelow, eco.Population(animal.TypeCarnivore))
		if herbBelow >= extinctionGraceTurns || carnBelow >= extinctionGraceTurns {
			result.survivalTurns, result.reason = turn, endFunctional
			break
		}
	}

	result.hallOfFame = runner.HallOfFame()
	return result
}

func belowCount(streak, population int) int {
	if population < minViablePop {
		return streak + 1
	}
	return 0
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTurns × (1.0 + 0.2 × quality))
func computeFitness(survivalTurns int, quality float64) float64 {
	return -(float64(survivalTurns) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.35
	qualityWeightStability = 0.30
	qualityWeightHunger    = 0.15
	qualityWeightHunting   = 0.20

	qualityWarmupWindows = 3 // skip first N windows (warmup)
	qualityMinPop        = 3 // exclude windows where either type < this
)

// computeQuality computes ecosystem quality in [0, 1] from window stats.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var ratioSum, hungerSum, huntSum float64
	var ratioCount, huntCount int
	herbCounts := make([]float64, 0, len(valid))
	carnCounts := make([]float64, 0, len(valid))

	for _, w := range valid {
		if w.Herbivores < qualityMinPop || w.Carnivores < qualityMinPop {
			continue
		}
		herbCounts = append(herbCounts, float64(w.Herbivores))
		carnCounts = append(carnCounts, float64(w.Carnivores))

		// Herbivores should outnumber carnivores roughly ten to one.
		logErr := math.Log(float64(w.Herbivores) / float64(w.Carnivores) / 10.0)
		ratioSum += math.Exp(-logErr * logErr)
		ratioCount++

		// Median hunger near 40 means predators eat but not constantly.
		hungerSum += math.Exp(-math.Pow((w.HungerP50-40)/25, 2))

		if w.Attacks > 0 {
			hrScore := math.Exp(-math.Pow((w.KillRate-0.3)/0.2, 2))
			attacksPerCarn := float64(w.Attacks) / float64(w.Carnivores)
			activityScore := 1.0 - math.Exp(-attacksPerCarn)
			huntSum += 0.6*hrScore + 0.4*activityScore
			huntCount++
		}
	}

	if ratioCount == 0 {
		return 0
	}

	stabilityScore := 0.0
	if len(herbCounts) >= 2 {
		cvHerb, cvCarn := cv(herbCounts), cv(carnCounts)
		stabilityScore = math.Exp(-(cvHerb*cvHerb + cvCarn*cvCarn))
	}
	huntScore := 0.0
	if huntCount > 0 {
		huntScore = huntSum / float64(huntCount)
	}

	quality := qualityWeightRatio*ratioSum/float64(ratioCount) +
		qualityWeightStability*stabilityScore +
		qualityWeightHunger*hungerSum/float64(ratioCount) +
		qualityWeightHunting*huntScore

	return math.Min(math.Max(quality, 0), 1)
}

// cv computes the population coefficient of variation (std/mean).
func cv(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, variance := stat.PopMeanVariance(values, nil)
	if mean == 0 {
		return 0
	}
	return math.Sqrt(variance) / mean
}
