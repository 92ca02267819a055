package main

import (
	"math"
	"slices"

	"github.com/pthm-cable/savanna/animal"
	"github.com/pthm-cable/savanna/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// Positions of each parameter in a ParamVector value slice.
const (
	paramMaxHerbivores = iota
	paramMaxCarnivores
	paramHerbivoreSeedScale
	paramCarnivoreSeedScale
	paramHungerRateScale
	paramHerbivoreReproScale
	paramCarnivoreReproScale
)

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// Scale parameters multiply every preset of the matching type.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Population
			{Name: "max_herbivores", Path: "population.max_herbivores", Min: 50, Max: 1000, Default: 400},
			{Name: "max_carnivores", Path: "population.max_carnivores", Min: 5, Max: 200, Default: 60},
			{Name: "herbivore_seed_scale", Path: "population.seed[herbivore].count", Min: 0.5, Max: 4.0, Default: 1.0},
			{Name: "carnivore_seed_scale", Path: "population.seed[carnivore].count", Min: 0.25, Max: 3.0, Default: 1.0},
			// Species
			{Name: "hunger_rate_scale", Path: "species[carnivore].hunger_rate", Min: 0.5, Max: 1.5, Default: 1.0},
			{Name: "herbivore_repro_scale", Path: "species[herbivore].reproductive_rate", Min: 0.3, Max: 2.0, Default: 1.0},
			{Name: "carnivore_repro_scale", Path: "species[carnivore].reproductive_rate", Min: 0.3, Max: 2.0, Default: 1.0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = math.Min(math.Max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to cfg. The species and seed lists
// are rewritten in place, so cfg must not share them with another config.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Population.MaxHerbivores = int(math.Round(clamped[paramMaxHerbivores]))
	cfg.Population.MaxCarnivores = int(math.Round(clamped[paramMaxCarnivores]))
	herbSeed, carnSeed := clamped[paramHerbivoreSeedScale], clamped[paramCarnivoreSeedScale]
	hungerScale := clamped[paramHungerRateScale]
	herbRepro, carnRepro := clamped[paramHerbivoreReproScale], clamped[paramCarnivoreReproScale]

	for i := range cfg.Population.Seed {
		seed := &cfg.Population.Seed[i]
		sp, ok := cfg.SpeciesByKind(seed.Kind)
		if !ok {
			continue
		}
		scale := herbSeed
		if sp.Type == animal.TypeCarnivore {
			scale = carnSeed
		}
		seed.Count = scaleInt(seed.Count, scale)
	}

	for i := range cfg.Species {
		sp := &cfg.Species[i]
		switch sp.Type {
		case animal.TypeCarnivore:
			sp.HungerRate = scaleInt(sp.HungerRate, hungerScale)
			sp.ReproductiveRate = scaleInt(sp.ReproductiveRate, carnRepro)
		case animal.TypeHerbivore:
			sp.ReproductiveRate = scaleInt(sp.ReproductiveRate, herbRepro)
		}
	}
}

// scaleInt multiplies v by scale, rounding and keeping the result at least 1.
func scaleInt(v int, scale float64) int {
	return max(1, int(math.Round(float64(v)*scale)))
}

// copyConfig clones base deeply enough for ApplyToConfig.
func copyConfig(base *config.Config) *config.Config {
	cfg := *base
	cfg.Species = slices.Clone(base.Species)
	cfg.Population.Seed = slices.Clone(base.Population.Seed)
	return &cfg
}
