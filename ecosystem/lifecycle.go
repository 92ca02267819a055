package ecosystem

import (
	"log/slog"

	"github.com/pthm-cable/savanna/animal"
)

// IncreaseCarnivoreHunger runs the once-per-turn hunger pass over every
// carnivore group. A carnivore whose hunger already reached the starvation
// threshold dies and is removed; every other carnivore gets hungrier. Groups
// left empty are deleted. The starved animals are returned.
func (e *Ecosystem) IncreaseCarnivoreHunger() []*animal.Animal {
	var starved []*animal.Animal
	for _, name := range e.GroupNames(animal.TypeCarnivore) {
		key := GroupKey{Type: animal.TypeCarnivore, Name: name}
		removed := e.pruneGroup(key, func(a *animal.Animal) bool {
			if !a.Alive || a.HasDiedFromHunger() {
				return false
			}
			a.IncreaseHunger()
			return true
		})
		for _, a := range removed {
			slog.Debug("starved", "id", uint64(a.ID()), "kind", a.Kind, "group", name, "hunger", a.Hunger())
		}
		starved = append(starved, removed...)
	}
	return starved
}

// AgeAll grows every live animal by one turn. When oldAgeDeath is set,
// animals that reach their maximum age die and are pruned in the same pass.
// The animals that died are returned.
func (e *Ecosystem) AgeAll(oldAgeDeath bool) []*animal.Animal {
	var died []*animal.Animal
	for _, t := range animal.Types {
		for _, name := range e.GroupNames(t) {
			key := GroupKey{Type: t, Name: name}
			removed := e.pruneGroup(key, func(a *animal.Animal) bool {
				if !a.Alive {
					return false
				}
				a.GrowUp()
				if oldAgeDeath && a.IsOld() {
					a.Kill()
					return false
				}
				return true
			})
			died = append(died, removed...)
		}
	}
	return died
}

// BreedAll lets every live animal whose age triggers reproduction produce one
// offspring, which is inserted into the parent's group. Offspring born this
// pass do not breed. limits caps the live population per type; a missing or
// zero entry means unlimited. The offspring are returned.
func (e *Ecosystem) BreedAll(ids *animal.IDAllocator, limits map[animal.Type]int) []*animal.Animal {
	var born []*animal.Animal
	for _, t := range animal.Types {
		parents := e.LiveAnimals(t)
		population := len(parents)
		limit := limits[t]
		for _, parent := range parents {
			if !parent.ReadyToBreed() {
				continue
			}
			if limit > 0 && population >= limit {
				break
			}
			child := parent.Breed(ids.Next())
			e.AddAnimal(child)
			born = append(born, child)
			population++
		}
	}
	return born
}
