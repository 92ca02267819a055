// Package ecosystem implements the predator/prey engine for a single biome.
//
// The Ecosystem owns a two-level mapping {Type -> {group name -> members}} that
// is the only record of who is alive. Every state transition that matters to
// the population (feeding, starvation, removal, extinction) goes through the
// Ecosystem's methods so the group invariants are kept in one place:
//
//   - a live animal belongs to exactly one group list
//   - a group that becomes empty is deleted immediately
//   - dead animals are pruned in the same pass that detects their death
//
// The engine is not safe for concurrent use; callers that share one across
// goroutines must serialize access.
package ecosystem

import (
	"fmt"
	"slices"

	"github.com/pthm-cable/savanna/animal"
)

// GroupKey is the composite (type, group name) key of a group.
type GroupKey struct {
	Type animal.Type
	Name string
}

func (k GroupKey) String() string {
	return fmt.Sprintf("%s/%s", k.Type, k.Name)
}

// Grouped is the nested population layout: type -> group name -> members.
type Grouped map[animal.Type]map[string][]*animal.Animal

// Ecosystem holds the grouped population of one biome.
type Ecosystem struct {
	biome  animal.Biome
	source OutcomeSource
	groups Grouped
}

// New creates an empty ecosystem for biome that draws attack outcomes from source.
func New(biome animal.Biome, source OutcomeSource) *Ecosystem {
	return &Ecosystem{
		biome:  biome,
		source: source,
		groups: make(Grouped, len(animal.Types)),
	}
}

// Biome returns the ecosystem's biome.
func (e *Ecosystem) Biome() animal.Biome {
	return e.biome
}

// AddAnimal inserts a into the group keyed by (a.Type, a.GroupName), creating
// the group lazily. There is no duplicate-id check.
func (e *Ecosystem) AddAnimal(a *animal.Animal) {
	e.Register(a.Type)
	byName := e.groups[a.Type]
	byName[a.GroupName] = append(byName[a.GroupName], a)
}

// GroupedAnimals returns a read-only snapshot for iteration. The maps and
// slices are copies; the animals are shared with the engine.
func (e *Ecosystem) GroupedAnimals() Grouped {
	out := make(Grouped, len(e.groups))
	for t, byName := range e.groups {
		inner := make(map[string][]*animal.Animal, len(byName))
		for name, members := range byName {
			inner[name] = slices.Clone(members)
		}
		out[t] = inner
	}
	return out
}

// Group returns a copy of the members of a group, or nil if it does not exist.
func (e *Ecosystem) Group(t animal.Type, name string) []*animal.Animal {
	members, ok := e.groups[t][name]
	if !ok {
		return nil
	}
	return slices.Clone(members)
}

// GroupNames returns the sorted group names registered under t.
func (e *Ecosystem) GroupNames(t animal.Type) []string {
	var names []string
	for name := range e.groups[t] {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Find resolves an id by scanning every group of every type.
func (e *Ecosystem) Find(id animal.ID) (*animal.Animal, bool) {
	for _, t := range animal.Types {
		for _, members := range e.groups[t] {
			for _, a := range members {
				if a.ID() == id {
					return a, true
				}
			}
		}
	}
	return nil, false
}

// LiveAnimals returns the live members of type t in deterministic order
// (group name, then insertion order).
func (e *Ecosystem) LiveAnimals(t animal.Type) []*animal.Animal {
	var out []*animal.Animal
	for _, name := range e.GroupNames(t) {
		for _, a := range e.groups[t][name] {
			if a.Alive {
				out = append(out, a)
			}
		}
	}
	return out
}

// Population counts the live members of type t.
func (e *Ecosystem) Population(t animal.Type) int {
	n := 0
	for _, members := range e.groups[t] {
		for _, a := range members {
			if a.Alive {
				n++
			}
		}
	}
	return n
}

// Register marks type t as populated without adding an animal, so a type
// restored with no live members still counts as extinct.
func (e *Ecosystem) Register(t animal.Type) {
	if _, ok := e.groups[t]; !ok {
		e.groups[t] = make(map[string][]*animal.Animal)
	}
}

// Registered reports whether any animal of type t was ever added.
func (e *Ecosystem) Registered(t animal.Type) bool {
	_, ok := e.groups[t]
	return ok
}

// HasExtinctAnimalType reports whether a registered type has no live member
// left. A type that was never populated is not considered extinct.
func (e *Ecosystem) HasExtinctAnimalType() bool {
	for _, t := range animal.Types {
		if e.Registered(t) && e.Population(t) == 0 {
			return true
		}
	}
	return false
}

// ExtinctTypes lists the registered types with no live member.
func (e *Ecosystem) ExtinctTypes() []animal.Type {
	var out []animal.Type
	for _, t := range animal.Types {
		if e.Registered(t) && e.Population(t) == 0 {
			out = append(out, t)
		}
	}
	return out
}

// remove deletes the member with id from its group and drops the group when
// it becomes empty. The type entry itself is kept so extinction stays visible.
func (e *Ecosystem) remove(key GroupKey, id animal.ID) bool {
	byName, ok := e.groups[key.Type]
	if !ok {
		return false
	}
	members, ok := byName[key.Name]
	if !ok {
		return false
	}
	idx := slices.IndexFunc(members, func(a *animal.Animal) bool { return a.ID() == id })
	if idx < 0 {
		return false
	}
	members = slices.Delete(members, idx, idx+1)
	if len(members) == 0 {
		delete(byName, key.Name)
		return true
	}
	byName[key.Name] = members
	return true
}

// pruneGroup keeps only members for which keep returns true, deleting the
// group when nothing is left. Removed members are returned.
func (e *Ecosystem) pruneGroup(key GroupKey, keep func(*animal.Animal) bool) []*animal.Animal {
	byName := e.groups[key.Type]
	members := byName[key.Name]
	var removed []*animal.Animal
	kept := members[:0]
	for _, a := range members {
		if keep(a) {
			kept = append(kept, a)
		} else {
			removed = append(removed, a)
		}
	}
	clear(members[len(kept):])
	if len(kept) == 0 {
		delete(byName, key.Name)
	} else {
		byName[key.Name] = kept
	}
	return removed
}

func keyOf(a *animal.Animal) GroupKey {
	return GroupKey{Type: a.Type, Name: a.GroupName}
}
