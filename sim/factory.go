package sim

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/savanna/animal"
	"github.com/pthm-cable/savanna/ecosystem"
	"github.com/pthm-cable/savanna/species"
	"github.com/pthm-cable/savanna/telemetry"
)

// fallbackSeedCount is how many of each allowed kind are placed when the
// configured seed list has nothing that fits the biome.
const fallbackSeedCount = 4

// ErrEmptyPopulation is returned when no species can be placed in the biome.
var ErrEmptyPopulation = errors.New("no species can live in this biome")

// spawnInitialPopulation places the configured seed list into the ecosystem.
// Entries whose species cannot live in the biome are skipped with a warning.
func (r *Runner) spawnInitialPopulation() error {
	biome := r.eco.Biome()
	placed := 0

	for _, seed := range r.cfg.Population.Seed {
		for i := 0; i < seed.Count; i++ {
			a, err := r.registry.CreateFor(biome, seed.Kind, seed.Group)
			if errors.Is(err, species.ErrBiomeMismatch) {
				slog.Warn("skipping seed outside biome", "kind", seed.Kind, "biome", biome.String())
				break
			}
			if err != nil {
				return fmt.Errorf("seeding %s: %w", seed.Kind, err)
			}
			r.addAnimal(a)
			placed++
		}
	}

	if placed > 0 {
		return nil
	}

	kinds := r.registry.AllowedIn(biome)
	if len(kinds) == 0 {
		return fmt.Errorf("%s: %w", biome, ErrEmptyPopulation)
	}
	slog.Info("seed list does not fit biome, placing every allowed species", "biome", biome.String(), "kinds", kinds)
	for _, kind := range kinds {
		for i := 0; i < fallbackSeedCount; i++ {
			a, err := r.registry.Create(kind, "")
			if err != nil {
				return fmt.Errorf("seeding %s: %w", kind, err)
			}
			r.addAnimal(a)
		}
	}
	return nil
}

// resume rebuilds the ecosystem and lifetime records from a snapshot.
func (r *Runner) resume(s *telemetry.Snapshot, source ecosystem.OutcomeSource) error {
	eco, err := s.Restore(source, r.registry.IDs(), r.lifetimeTracker)
	if err != nil {
		return fmt.Errorf("resuming snapshot: %w", err)
	}
	r.eco = eco
	r.turn = s.Turn
	r.lastFlushTurn = s.Turn
	r.collector.StartAt(s.Turn)
	slog.Info("resumed from snapshot", "turn", s.Turn, "animals", len(s.Animals))
	return nil
}

// addAnimal inserts a into the ecosystem and starts tracking it.
func (r *Runner) addAnimal(a *animal.Animal) {
	r.eco.AddAnimal(a)
	r.lifetimeTracker.Register(a, r.turn)
}
