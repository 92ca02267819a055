package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/telemetry"
)

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-9 {
			t.Errorf("%s: %v != %v", pv.Specs[i].Name, back[i], def[i])
		}
	}
}

func TestApplyToConfig(t *testing.T) {
	base, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	lion, _ := base.SpeciesByKind("lion")

	pv := NewParamVector()
	values := pv.DefaultVector()
	values[0] = 123       // max_herbivores
	values[3] = 2.0       // carnivore seed scale
	values[4] = 1.5       // hunger rate scale
	values[1] = 1_000_000 // clamped to 200

	cfg := copyConfig(base)
	pv.ApplyToConfig(cfg, values)

	if cfg.Population.MaxHerbivores != 123 || cfg.Population.MaxCarnivores != 200 {
		t.Errorf("caps = %d/%d", cfg.Population.MaxHerbivores, cfg.Population.MaxCarnivores)
	}
	got, _ := cfg.SpeciesByKind("lion")
	if got.HungerRate != scaleInt(lion.HungerRate, 1.5) {
		t.Errorf("lion hunger rate = %d", got.HungerRate)
	}
	for i, seed := range cfg.Population.Seed {
		if seed.Kind == "lion" && seed.Count != base.Population.Seed[i].Count*2 {
			t.Errorf("lion seed count = %d", seed.Count)
		}
	}

	// The base config must be untouched.
	if again, _ := base.SpeciesByKind("lion"); again.HungerRate != lion.HungerRate {
		t.Error("ApplyToConfig mutated the base species list")
	}
}

func TestScaleIntFloor(t *testing.T) {
	if got := scaleInt(1, 0.25); got != 1 {
		t.Errorf("scaleInt(1, 0.25) = %d, want 1", got)
	}
}

func TestComputeQuality(t *testing.T) {
	if q := computeQuality(nil); q != 0 {
		t.Errorf("empty quality = %v", q)
	}

	steady := make([]telemetry.WindowStats, 10)
	for i := range steady {
		steady[i] = telemetry.WindowStats{Herbivores: 100, Carnivores: 10, HungerP50: 40, Attacks: 10, Kills: 3, KillRate: 0.3}
	}
	q := computeQuality(steady)
	if q < 0.9 || q > 1 {
		t.Errorf("steady quality = %v, want near 1", q)
	}

	if computeFitness(100, q) >= computeFitness(50, q) {
		t.Error("longer survival should have lower fitness")
	}
}
