// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/savanna/animal"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Population PopulationConfig `yaml:"population"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Bookmarks  BookmarksConfig  `yaml:"bookmarks"`
	Species    []SpeciesConfig  `yaml:"species"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SimulationConfig holds run-level settings.
type SimulationConfig struct {
	Biome       animal.Biome `yaml:"biome"`
	MaxTurns    int          `yaml:"max_turns"`     // 0 = until extinction
	Seed        int64        `yaml:"seed"`          // 0 = time-based
	OldAgeDeath bool         `yaml:"old_age_death"` // animals die once currentAge reaches maxAge
}

// PopulationConfig holds breeding caps and the initial population.
type PopulationConfig struct {
	MaxCarnivores int          `yaml:"max_carnivores"` // 0 = uncapped
	MaxHerbivores int          `yaml:"max_herbivores"` // 0 = uncapped
	Seed          []SeedConfig `yaml:"seed"`
}

// SeedConfig places Count animals of Kind into Group at startup.
type SeedConfig struct {
	Kind  string `yaml:"kind"`
	Group string `yaml:"group,omitempty"`
	Count int    `yaml:"count"`
}

// TelemetryConfig holds telemetry collection parameters.
type TelemetryConfig struct {
	StatsWindow         int  `yaml:"stats_window"`          // turns per stats window
	BookmarkHistorySize int  `yaml:"bookmark_history_size"` // windows of history for bookmark detection
	PerfWindow          int  `yaml:"perf_window"`           // turns averaged per perf sample
	HallOfFameSize      int  `yaml:"hall_of_fame_size"`     // top hunters kept for hall_of_fame.json
	SnapshotOnBookmark  bool `yaml:"snapshot_on_bookmark"`  // write an ecosystem snapshot when a bookmark fires
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	PreyCrash        PreyCrashConfig        `yaml:"prey_crash"`
	PredatorRecovery PredatorRecoveryConfig `yaml:"predator_recovery"`
	HuntBreakthrough HuntBreakthroughConfig `yaml:"hunt_breakthrough"`
}

// PreyCrashConfig triggers when the herbivore population drops sharply within one window.
type PreyCrashConfig struct {
	DropPercent float64 `yaml:"drop_percent"`
	MinDrop     int     `yaml:"min_drop"`
}

// PredatorRecoveryConfig triggers when carnivores climb back from a low point.
type PredatorRecoveryConfig struct {
	MinPopulation      int `yaml:"min_population"`
	RecoveryMultiplier int `yaml:"recovery_multiplier"`
	MinFinal           int `yaml:"min_final"`
}

// HuntBreakthroughConfig triggers when kills jump above the recent average.
type HuntBreakthroughConfig struct {
	Multiplier float64 `yaml:"multiplier"`
	MinKills   int     `yaml:"min_kills"`
}

// SpeciesConfig is a species preset. Carnivore presets use AttackPoints and
// HungerRate, herbivore presets use EscapePoints.
type SpeciesConfig struct {
	Kind             string            `yaml:"kind"`
	Type             animal.Type       `yaml:"type"`
	LivingType       animal.LivingType `yaml:"living_type"`
	InGroup          bool              `yaml:"in_group"`
	Biomes           []animal.Biome    `yaml:"biomes"`
	Habitat          animal.Habitat    `yaml:"habitat"`
	MaxAge           int               `yaml:"max_age"`
	Weight           float64           `yaml:"weight"`
	ReproductiveRate int               `yaml:"reproductive_rate"`
	AttackPoints     int               `yaml:"attack_points,omitempty"`
	HungerRate       int               `yaml:"hunger_rate,omitempty"`
	EscapePoints     int               `yaml:"escape_points,omitempty"`
}

// DerivedConfig holds values computed from other config values.
type DerivedConfig struct {
	SpeciesIndex map[string]int // NormalizeKind(kind) -> index into Species
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file. A species list replaces the defaults.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse is like Load but reads the overlay from memory.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived validates the species presets and builds the lookup index.
func (c *Config) computeDerived() error {
	if c.Telemetry.StatsWindow <= 0 {
		c.Telemetry.StatsWindow = 1
	}
	if c.Telemetry.PerfWindow <= 0 {
		c.Telemetry.PerfWindow = c.Telemetry.StatsWindow
	}

	var errs []error
	c.Derived.SpeciesIndex = make(map[string]int, len(c.Species))
	for i := range c.Species {
		sp := &c.Species[i]
		key := NormalizeKind(sp.Kind)
		if key == "" {
			errs = append(errs, fmt.Errorf("species[%d]: kind is required", i))
			continue
		}
		if _, dup := c.Derived.SpeciesIndex[key]; dup {
			errs = append(errs, fmt.Errorf("species %q: duplicate kind", sp.Kind))
			continue
		}
		if sp.MaxAge <= 0 {
			errs = append(errs, fmt.Errorf("species %q: max_age must be positive", sp.Kind))
		}
		if sp.Weight <= 0 {
			errs = append(errs, fmt.Errorf("species %q: weight must be positive", sp.Kind))
		}
		if len(sp.Biomes) == 0 {
			errs = append(errs, fmt.Errorf("species %q: at least one biome is required", sp.Kind))
		}
		c.Derived.SpeciesIndex[key] = i
	}

	for _, seed := range c.Population.Seed {
		if _, ok := c.Derived.SpeciesIndex[NormalizeKind(seed.Kind)]; !ok {
			errs = append(errs, fmt.Errorf("population seed: unknown kind %q", seed.Kind))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// kindReplacer folds the separators accepted in species kinds into spaces.
var kindReplacer = strings.NewReplacer("_", " ", "-", " ")

// NormalizeKind is the lookup key for a species kind: trimmed, lower-cased,
// with underscores and dashes read as spaces.
func NormalizeKind(kind string) string {
	return kindReplacer.Replace(strings.ToLower(strings.TrimSpace(kind)))
}

// SpeciesByKind returns the preset for kind, matched by NormalizeKind.
func (c *Config) SpeciesByKind(kind string) (SpeciesConfig, bool) {
	i, ok := c.Derived.SpeciesIndex[NormalizeKind(kind)]
	if !ok {
		return SpeciesConfig{}, false
	}
	return c.Species[i], true
}

// BreedingCaps returns the per-type population caps used by the breeding pass.
func (c *Config) BreedingCaps() map[animal.Type]int {
	return map[animal.Type]int{
		animal.TypeCarnivore: c.Population.MaxCarnivores,
		animal.TypeHerbivore: c.Population.MaxHerbivores,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
