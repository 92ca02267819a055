// Package animal defines the animal data model mutated by the ecosystem engine.
//
// An Animal is a tagged variant: the shared attributes live on the struct and
// exactly one of the Carnivore or Herbivore payloads is set, matching Type.
package animal

import "slices"

// LonersGroup is the reserved group name for solitary individuals.
const LonersGroup = "Loners"

// StarvationThreshold is the hunger level at which a carnivore dies.
const StarvationThreshold = 100.0

// ID identifies an animal. IDs are unique and never reused.
type ID uint64

// IDAllocator hands out monotonic animal IDs starting at 1.
// The zero value is ready to use.
type IDAllocator struct {
	last ID
}

// Next returns a fresh ID.
func (a *IDAllocator) Next() ID {
	a.last++
	return a.last
}

// Last returns the most recently allocated ID (0 if none).
func (a *IDAllocator) Last() ID {
	return a.last
}

// Reserve marks id as used so Next never returns it.
func (a *IDAllocator) Reserve(id ID) {
	if id > a.last {
		a.last = id
	}
}

// CarnivoreTraits holds the predator-only payload.
type CarnivoreTraits struct {
	AttackPoints  int
	HungerRate    int
	CurrentHunger float64
}

// HerbivoreTraits holds the prey-only payload.
type HerbivoreTraits struct {
	EscapePoints int
}

// Animal is a single individual. Pointers to it are shared between the
// ecosystem's group lists and transient callers; group membership decides lifetime.
type Animal struct {
	id ID

	Kind             string
	Type             Type
	LivingType       LivingType
	Habitat          Habitat
	Biomes           []Biome
	MaxAge           int
	Weight           float64
	ReproductiveRate int

	CurrentAge int
	Alive      bool
	InGroup    bool
	GroupName  string

	// ParentID is zero for founders.
	ParentID ID

	// Exactly one is non-nil, selected by Type.
	Carnivore *CarnivoreTraits
	Herbivore *HerbivoreTraits
}

// Base carries the attributes shared by both variants.
type Base struct {
	Kind             string
	LivingType       LivingType
	Habitat          Habitat
	Biomes           []Biome
	MaxAge           int
	Weight           float64
	ReproductiveRate int
	CurrentAge       int
	InGroup          bool
	GroupName        string
}

// NewCarnivore creates a live carnivore with zero hunger.
func NewCarnivore(id ID, base Base, attackPoints, hungerRate int) *Animal {
	a := newAnimal(id, TypeCarnivore, base)
	a.Carnivore = &CarnivoreTraits{AttackPoints: attackPoints, HungerRate: hungerRate}
	return a
}

// NewHerbivore creates a live herbivore.
func NewHerbivore(id ID, base Base, escapePoints int) *Animal {
	a := newAnimal(id, TypeHerbivore, base)
	a.Herbivore = &HerbivoreTraits{EscapePoints: escapePoints}
	return a
}

func newAnimal(id ID, t Type, base Base) *Animal {
	group := base.GroupName
	if group == "" {
		group = LonersGroup
	}
	return &Animal{
		id:               id,
		Kind:             base.Kind,
		Type:             t,
		LivingType:       base.LivingType,
		Habitat:          base.Habitat,
		Biomes:           slices.Clone(base.Biomes),
		MaxAge:           base.MaxAge,
		Weight:           base.Weight,
		ReproductiveRate: base.ReproductiveRate,
		CurrentAge:       base.CurrentAge,
		Alive:            true,
		InGroup:          base.InGroup,
		GroupName:        group,
	}
}

// ID returns the animal's immutable identifier.
func (a *Animal) ID() ID { return a.id }

// IsCarnivore reports whether the animal carries the carnivore payload.
func (a *Animal) IsCarnivore() bool { return a.Type == TypeCarnivore && a.Carnivore != nil }

// IsHerbivore reports whether the animal carries the herbivore payload.
func (a *Animal) IsHerbivore() bool { return a.Type == TypeHerbivore && a.Herbivore != nil }

// Inhabits reports whether the animal can live in the biome.
func (a *Animal) Inhabits(b Biome) bool { return slices.Contains(a.Biomes, b) }

// GrowUp ages the animal by one turn.
func (a *Animal) GrowUp() {
	a.CurrentAge++
}

// IsOld reports whether the animal reached its maximum age.
func (a *Animal) IsOld() bool {
	return a.CurrentAge >= a.MaxAge
}

// ReadyToBreed reports whether this turn's age triggers reproduction.
func (a *Animal) ReadyToBreed() bool {
	return a.ReproductiveRate > 0 && a.CurrentAge > 0 && a.CurrentAge%a.ReproductiveRate == 0
}

// ScaledPoints is the age-normalized strength score: 100 at birth, 0 at max age.
// Integer division truncates.
func (a *Animal) ScaledPoints() int {
	if a.MaxAge <= 0 {
		return 0
	}
	return 100 - (a.CurrentAge * 100 / a.MaxAge)
}

// Breed returns an offspring of the same variant with age 0 and the parent's
// traits. The offspring is not inserted anywhere.
func (a *Animal) Breed(id ID) *Animal {
	child := &Animal{
		id:               id,
		Kind:             a.Kind,
		Type:             a.Type,
		LivingType:       a.LivingType,
		Habitat:          a.Habitat,
		Biomes:           slices.Clone(a.Biomes),
		MaxAge:           a.MaxAge,
		Weight:           a.Weight,
		ReproductiveRate: a.ReproductiveRate,
		Alive:            true,
		InGroup:          a.InGroup,
		GroupName:        a.GroupName,
		ParentID:         a.id,
	}
	switch a.Type {
	case TypeCarnivore:
		c := *a.Carnivore
		c.CurrentHunger = 0
		child.Carnivore = &c
	case TypeHerbivore:
		h := *a.Herbivore
		child.Herbivore = &h
	}
	return child
}

// Hunger returns the carnivore's current hunger, or 0 for herbivores.
func (a *Animal) Hunger() float64 {
	if a.Carnivore == nil {
		return 0
	}
	return a.Carnivore.CurrentHunger
}

// IncreaseHunger adds the hunger rate. Hunger is unbounded above.
func (a *Animal) IncreaseHunger() {
	if a.Carnivore == nil {
		return
	}
	a.Carnivore.CurrentHunger += float64(a.Carnivore.HungerRate)
}

// DecreaseHunger lowers hunger by amount, clamping at zero when the amount
// exceeds the current value.
func (a *Animal) DecreaseHunger(amount float64) {
	if a.Carnivore == nil {
		return
	}
	if amount > a.Carnivore.CurrentHunger {
		a.Carnivore.CurrentHunger = 0
		return
	}
	a.Carnivore.CurrentHunger -= amount
}

// SetHunger overwrites the hunger value; negative values become zero.
func (a *Animal) SetHunger(v float64) {
	if a.Carnivore == nil {
		return
	}
	a.Carnivore.CurrentHunger = max(v, 0)
}

// HasDiedFromHunger marks the carnivore dead once hunger reaches the
// starvation threshold and reports whether it did.
func (a *Animal) HasDiedFromHunger() bool {
	if a.Carnivore == nil {
		return false
	}
	if a.Carnivore.CurrentHunger >= StarvationThreshold {
		a.Alive = false
		return true
	}
	return false
}

// Kill marks the animal dead.
func (a *Animal) Kill() {
	a.Alive = false
}
