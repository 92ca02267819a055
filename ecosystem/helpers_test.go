package ecosystem

import "github.com/pthm-cable/savanna/animal"

const zebraGroup = "zebra test"

func newCheetah(id animal.ID) *animal.Animal {
	return animal.NewCarnivore(id, animal.Base{
		Kind:             "Cheetah",
		LivingType:       animal.LivingAlone,
		Biomes:           []animal.Biome{animal.BiomeSavanna},
		MaxAge:           30,
		Weight:           60,
		ReproductiveRate: 5,
		CurrentAge:       10,
		GroupName:        animal.LonersGroup,
	}, 110, 15)
}

func newHyena(id animal.ID, group string) *animal.Animal {
	return animal.NewCarnivore(id, animal.Base{
		Kind:             "Hyena",
		LivingType:       animal.LivingGroup,
		Biomes:           []animal.Biome{animal.BiomeSavanna},
		MaxAge:           24,
		Weight:           50,
		ReproductiveRate: 5,
		CurrentAge:       10,
		InGroup:          true,
		GroupName:        group,
	}, 80, 14)
}

func newZebra(id animal.ID) *animal.Animal {
	return animal.NewHerbivore(id, animal.Base{
		Kind:             "Zebra",
		LivingType:       animal.LivingGroup,
		Biomes:           []animal.Biome{animal.BiomeSavanna},
		MaxAge:           50,
		Weight:           300,
		ReproductiveRate: 10,
		CurrentAge:       10,
		InGroup:          true,
		GroupName:        zebraGroup,
	}, 80)
}

func newGazelle(id animal.ID, group string) *animal.Animal {
	return animal.NewHerbivore(id, animal.Base{
		Kind:             "Gazelle",
		LivingType:       animal.LivingGroup,
		Biomes:           []animal.Biome{animal.BiomeSavanna},
		MaxAge:           25,
		Weight:           25,
		ReproductiveRate: 5,
		CurrentAge:       10,
		InGroup:          true,
		GroupName:        group,
	}, 80)
}

// emptyGroups lists every group whose member list is empty.
func emptyGroups(e *Ecosystem) []GroupKey {
	var out []GroupKey
	for t, byName := range e.GroupedAnimals() {
		for name, members := range byName {
			if len(members) == 0 {
				out = append(out, GroupKey{Type: t, Name: name})
			}
		}
	}
	return out
}
