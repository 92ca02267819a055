package ecosystem

import (
	"slices"
	"testing"

	"github.com/pthm-cable/savanna/animal"
)

func TestAddAnimal_CreatesGroupLazily(t *testing.T) {
	eco := New(animal.BiomeSavanna, FixedSource(0))
	zebra := newZebra(7)

	if eco.Group(animal.TypeHerbivore, zebraGroup) != nil {
		t.Fatal("group should not exist yet")
	}
	eco.AddAnimal(zebra)

	members := eco.Group(animal.TypeHerbivore, zebraGroup)
	if len(members) != 1 || members[0] != zebra {
		t.Fatalf("group = %v, want exactly the zebra", members)
	}
	if !eco.Registered(animal.TypeHerbivore) {
		t.Error("herbivores should be registered")
	}
	if eco.Registered(animal.TypeCarnivore) {
		t.Error("carnivores should not be registered")
	}
}

func TestAddAnimal_NoDuplicateCheck(t *testing.T) {
	eco := New(animal.BiomeSavanna, FixedSource(0))
	zebra := newZebra(1)
	eco.AddAnimal(zebra)
	eco.AddAnimal(zebra)

	if got := len(eco.Group(animal.TypeHerbivore, zebraGroup)); got != 2 {
		t.Errorf("group size = %d, want 2", got)
	}
}

func TestGroupedAnimals_IsSnapshot(t *testing.T) {
	eco := New(animal.BiomeSavanna, FixedSource(0))
	eco.AddAnimal(newZebra(1))

	snap := eco.GroupedAnimals()
	snap[animal.TypeHerbivore][zebraGroup] = nil
	delete(snap, animal.TypeHerbivore)

	if got := len(eco.Group(animal.TypeHerbivore, zebraGroup)); got != 1 {
		t.Errorf("engine state changed through snapshot: size %d", got)
	}
}

func TestFindAndLiveAnimals(t *testing.T) {
	eco := New(animal.BiomeSavanna, FixedSource(0))
	eco.AddAnimal(newHyena(1, "b-pack"))
	eco.AddAnimal(newHyena(2, "a-pack"))
	eco.AddAnimal(newCheetah(3))
	eco.AddAnimal(newZebra(4))

	if a, ok := eco.Find(4); !ok || a.Kind != "Zebra" {
		t.Errorf("Find(4) = %v, %v", a, ok)
	}
	if _, ok := eco.Find(5); ok {
		t.Error("Find(5) should fail")
	}

	var ids []animal.ID
	for _, a := range eco.LiveAnimals(animal.TypeCarnivore) {
		ids = append(ids, a.ID())
	}
	// Sorted by group name: Loners, a-pack, b-pack.
	if want := []animal.ID{3, 2, 1}; !slices.Equal(ids, want) {
		t.Errorf("live carnivores = %v, want %v", ids, want)
	}
	if got := eco.Population(animal.TypeCarnivore); got != 3 {
		t.Errorf("carnivore population = %d, want 3", got)
	}
	if got := eco.GroupNames(animal.TypeCarnivore); !slices.Equal(got, []string{"Loners", "a-pack", "b-pack"}) {
		t.Errorf("group names = %v", got)
	}
}

func TestHasExtinctAnimalType(t *testing.T) {
	eco := New(animal.BiomeSavanna, FixedSource(0))
	if eco.HasExtinctAnimalType() {
		t.Error("empty ecosystem is not extinct")
	}

	zebra := newZebra(1)
	eco.AddAnimal(zebra)
	eco.AddAnimal(newCheetah(2))
	if eco.HasExtinctAnimalType() {
		t.Error("both types alive")
	}

	// A dead member still in a list does not count as alive.
	zebra.Kill()
	if !eco.HasExtinctAnimalType() {
		t.Error("herbivores have no live member")
	}
	if got := eco.ExtinctTypes(); !slices.Equal(got, []animal.Type{animal.TypeHerbivore}) {
		t.Errorf("extinct types = %v", got)
	}
}

func TestRegister_EmptyTypeIsExtinct(t *testing.T) {
	eco := New(animal.BiomeSavanna, FixedSource(0))
	eco.AddAnimal(newCheetah(1))
	eco.Register(animal.TypeHerbivore)
	eco.Register(animal.TypeCarnivore) // already populated, no-op

	if !eco.Registered(animal.TypeHerbivore) {
		t.Fatal("herbivores should be registered")
	}
	if got := eco.ExtinctTypes(); !slices.Equal(got, []animal.Type{animal.TypeHerbivore}) {
		t.Errorf("extinct types = %v, want [herbivore]", got)
	}
	if got := eco.Population(animal.TypeCarnivore); got != 1 {
		t.Errorf("carnivore population = %d, want 1", got)
	}
}

func TestBiome(t *testing.T) {
	eco := New(animal.BiomeTundra, FixedSource(0))
	if eco.Biome() != animal.BiomeTundra {
		t.Errorf("Biome() = %v", eco.Biome())
	}
}

func TestGroupKeyString(t *testing.T) {
	k := GroupKey{Type: animal.TypeCarnivore, Name: "pride"}
	if k.String() != "carnivore/pride" {
		t.Errorf("String() = %q", k.String())
	}
}
