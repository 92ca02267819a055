package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/savanna/animal"
	"github.com/pthm-cable/savanna/ecosystem"
)

// WindowStats holds aggregated statistics for a turn window.
type WindowStats struct {
	WindowStartTurn int `csv:"-"`
	WindowEndTurn   int `csv:"window_end"`

	// Population at window end
	Herbivores      int `csv:"herbivores"`
	Carnivores      int `csv:"carnivores"`
	HerbivoreGroups int `csv:"herbivore_groups"`
	CarnivoreGroups int `csv:"carnivore_groups"`

	// Events during window
	HerbivoreBirths int `csv:"herbivore_births"`
	CarnivoreBirths int `csv:"carnivore_births"`
	Eaten           int `csv:"eaten"`
	Starved         int `csv:"starved"`
	HerbivoreOldAge int `csv:"herbivore_old_age"`
	CarnivoreOldAge int `csv:"carnivore_old_age"`

	// Hunting
	Attacks    int     `csv:"attacks"`
	Kills      int     `csv:"kills"`
	KillRate   float64 `csv:"kill_rate"`
	MeanChance float64 `csv:"mean_chance"`

	// Carnivore hunger distribution (sampled at window end)
	HungerMean float64 `csv:"hunger_mean"`
	HungerStd  float64 `csv:"hunger_std"`
	HungerP10  float64 `csv:"hunger_p10"`
	HungerP50  float64 `csv:"hunger_p50"`
	HungerP90  float64 `csv:"hunger_p90"`
	HungerMax  float64 `csv:"hunger_max"`

	HerbivoreAgeMean float64 `csv:"herbivore_age_mean"`
	CarnivoreAgeMean float64 `csv:"carnivore_age_mean"`
}

// PopulationSample is the population state a window is flushed against.
type PopulationSample struct {
	Herbivores      int
	Carnivores      int
	HerbivoreGroups int
	CarnivoreGroups int

	Hunger        []float64
	HerbivoreAges []float64
	CarnivoreAges []float64
}

// SamplePopulation reads counts, hunger and ages of the live animals in eco.
func SamplePopulation(eco *ecosystem.Ecosystem) PopulationSample {
	var s PopulationSample
	for _, a := range eco.LiveAnimals(animal.TypeHerbivore) {
		s.Herbivores++
		s.HerbivoreAges = append(s.HerbivoreAges, float64(a.CurrentAge))
	}
	for _, a := range eco.LiveAnimals(animal.TypeCarnivore) {
		s.Carnivores++
		s.CarnivoreAges = append(s.CarnivoreAges, float64(a.CurrentAge))
		s.Hunger = append(s.Hunger, a.Hunger())
	}
	s.HerbivoreGroups = len(eco.GroupNames(animal.TypeHerbivore))
	s.CarnivoreGroups = len(eco.GroupNames(animal.TypeCarnivore))
	return s
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean float64
	Std  float64
	P10  float64
	P50  float64
	P90  float64
	Max  float64
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Summarize computes mean, sample standard deviation, percentiles and max.
// An empty sample yields the zero Distribution.
func Summarize(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	var d Distribution
	if n == 1 {
		d.Mean = values[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(values, nil)
	}
	d.Max = floats.Max(values)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	d.P10 = Percentile(sorted, 0.10)
	d.P50 = Percentile(sorted, 0.50)
	d.P90 = Percentile(sorted, 0.90)
	return d
}

// ComputeHungerStats summarizes carnivore hunger levels.
func ComputeHungerStats(hunger []float64) Distribution {
	return Summarize(hunger)
}

// ComputeAgeStats summarizes ages in turns.
func ComputeAgeStats(ages []float64) Distribution {
	return Summarize(ages)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartTurn),
		slog.Int("window_end", s.WindowEndTurn),
		slog.Int("herbivores", s.Herbivores),
		slog.Int("carnivores", s.Carnivores),
		slog.Int("herbivore_groups", s.HerbivoreGroups),
		slog.Int("carnivore_groups", s.CarnivoreGroups),
		slog.Int("herbivore_births", s.HerbivoreBirths),
		slog.Int("carnivore_births", s.CarnivoreBirths),
		slog.Int("eaten", s.Eaten),
		slog.Int("starved", s.Starved),
		slog.Int("herbivore_old_age", s.HerbivoreOldAge),
		slog.Int("carnivore_old_age", s.CarnivoreOldAge),
		slog.Int("attacks", s.Attacks),
		slog.Int("kills", s.Kills),
		slog.Float64("kill_rate", s.KillRate),
		slog.Float64("mean_chance", s.MeanChance),
		slog.Float64("hunger_mean", s.HungerMean),
		slog.Float64("hunger_std", s.HungerStd),
		slog.Float64("hunger_p10", s.HungerP10),
		slog.Float64("hunger_p50", s.HungerP50),
		slog.Float64("hunger_p90", s.HungerP90),
		slog.Float64("hunger_max", s.HungerMax),
		slog.Float64("herbivore_age_mean", s.HerbivoreAgeMean),
		slog.Float64("carnivore_age_mean", s.CarnivoreAgeMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTurn,
		"herbivores", s.Herbivores,
		"carnivores", s.Carnivores,
		"herbivore_births", s.HerbivoreBirths,
		"carnivore_births", s.CarnivoreBirths,
		"eaten", s.Eaten,
		"starved", s.Starved,
		"old_age", s.HerbivoreOldAge+s.CarnivoreOldAge,
		"attacks", s.Attacks,
		"kills", s.Kills,
		"kill_rate", s.KillRate,
		"mean_chance", s.MeanChance,
		"hunger_mean", s.HungerMean,
		"hunger_p90", s.HungerP90,
	)
}
