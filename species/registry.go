// Package species builds animals from named presets.
package species

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/pthm-cable/savanna/animal"
	"github.com/pthm-cable/savanna/config"
)

var (
	ErrUnknownSpecies = errors.New("unknown species")
	ErrBiomeMismatch  = errors.New("species does not inhabit biome")
)

// Registry resolves species kinds to presets and hands out animal ids.
// It is not safe for concurrent use.
type Registry struct {
	presets []config.SpeciesConfig
	index   map[string]int
	ids     *animal.IDAllocator
}

// NewRegistry indexes presets by config.NormalizeKind. Presets from a loaded
// config are already free of duplicates; otherwise later duplicates win.
func NewRegistry(presets []config.SpeciesConfig) *Registry {
	r := &Registry{
		presets: presets,
		index:   make(map[string]int, len(presets)),
		ids:     &animal.IDAllocator{},
	}
	for i, p := range presets {
		r.index[config.NormalizeKind(p.Kind)] = i
	}
	return r
}

// FromConfig builds a registry from the loaded species presets.
func FromConfig(cfg *config.Config) *Registry {
	return NewRegistry(cfg.Species)
}

// IDs returns the allocator shared by every animal this registry creates.
// Breeding passes draw offspring ids from it too.
func (r *Registry) IDs() *animal.IDAllocator { return r.ids }

// Kinds returns every registered kind, sorted.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.presets))
	for _, p := range r.presets {
		kinds = append(kinds, p.Kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Preset looks up kind case-insensitively.
func (r *Registry) Preset(kind string) (config.SpeciesConfig, error) {
	i, ok := r.index[config.NormalizeKind(kind)]
	if !ok {
		if s := r.Suggest(kind); s != "" {
			return config.SpeciesConfig{}, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownSpecies, kind, s)
		}
		return config.SpeciesConfig{}, fmt.Errorf("%w %q", ErrUnknownSpecies, kind)
	}
	return r.presets[i], nil
}

// Create builds a new live animal of kind. Solitary species always join the
// loners group; grouped species default to a group named after the kind.
func (r *Registry) Create(kind, group string) (*animal.Animal, error) {
	p, err := r.Preset(kind)
	if err != nil {
		return nil, err
	}

	switch {
	case !p.InGroup:
		group = animal.LonersGroup
	case strings.TrimSpace(group) == "":
		group = p.Kind
	}

	base := animal.Base{
		Kind:             p.Kind,
		LivingType:       p.LivingType,
		Habitat:          p.Habitat,
		Biomes:           p.Biomes,
		MaxAge:           p.MaxAge,
		Weight:           p.Weight,
		ReproductiveRate: p.ReproductiveRate,
		InGroup:          p.InGroup,
		GroupName:        group,
	}
	if p.Type == animal.TypeCarnivore {
		return animal.NewCarnivore(r.ids.Next(), base, p.AttackPoints, p.HungerRate), nil
	}
	return animal.NewHerbivore(r.ids.Next(), base, p.EscapePoints), nil
}

// CreateFor is like Create but rejects species that cannot live in biome.
// No id is consumed on rejection.
func (r *Registry) CreateFor(biome animal.Biome, kind, group string) (*animal.Animal, error) {
	p, err := r.Preset(kind)
	if err != nil {
		return nil, err
	}
	if !inhabits(p, biome) {
		return nil, fmt.Errorf("%s in %s: %w", p.Kind, biome, ErrBiomeMismatch)
	}
	return r.Create(kind, group)
}

// AllowedIn returns the sorted kinds that can live in biome.
func (r *Registry) AllowedIn(biome animal.Biome) []string {
	var kinds []string
	for _, p := range r.presets {
		if inhabits(p, biome) {
			kinds = append(kinds, p.Kind)
		}
	}
	sort.Strings(kinds)
	return kinds
}

// Suggest returns the registered kind closest to the input, or "" when
// nothing is within edit distance.
func (r *Registry) Suggest(kind string) string {
	in := config.NormalizeKind(kind)
	if len(in) < 3 {
		return ""
	}
	best, bestDist := "", -1
	for _, p := range r.presets {
		name := config.NormalizeKind(p.Kind)
		dist := levenshtein.ComputeDistance(in, name)
		if dist > levenshteinLimit(len(name)) {
			continue
		}
		if bestDist < 0 || dist < bestDist || (dist == bestDist && p.Kind < best) {
			best, bestDist = p.Kind, dist
		}
	}
	return best
}

func inhabits(p config.SpeciesConfig, biome animal.Biome) bool {
	for _, b := range p.Biomes {
		if b == biome {
			return true
		}
	}
	return false
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
