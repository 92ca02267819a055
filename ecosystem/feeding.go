package ecosystem

import (
	"math"

	"github.com/pthm-cable/savanna/animal"
)

// AttackerShares is how many per-animal shares the attacking group member eats.
const AttackerShares = 2

// Fed records a hunger change applied to one carnivore after a kill.
type Fed struct {
	ID     animal.ID
	Before float64
	After  float64
}

// HungerDecrease is the total hunger relief a kill provides, proportional to
// the victim/predator weight ratio.
func HungerDecrease(predator, victim *animal.Animal) float64 {
	if predator.Weight <= 0 {
		return 0
	}
	return victim.Weight / predator.Weight * 100
}

// RoundToOneDecimal rounds half up to one decimal place.
func RoundToOneDecimal(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

// feed distributes the kill. A lone predator eats everything; a grouped one
// splits it into len(group)+1 shares, keeping two for itself and giving one
// to every other carnivore in the group.
func feed(predator, victim *animal.Animal, group []*animal.Animal) []Fed {
	total := HungerDecrease(predator, victim)

	if !predator.InGroup {
		before := predator.Hunger()
		predator.DecreaseHunger(total)
		return []Fed{{ID: predator.ID(), Before: before, After: predator.Hunger()}}
	}

	share := total / float64(len(group)+1)
	fed := make([]Fed, 0, len(group))
	for _, member := range group {
		if !member.IsCarnivore() || !member.Alive {
			continue
		}
		amount := share
		if member.ID() == predator.ID() {
			amount = share * AttackerShares
		}
		fed = append(fed, feedMember(member, amount))
	}
	return fed
}

func feedMember(member *animal.Animal, amount float64) Fed {
	before := member.Hunger()
	if amount > before {
		member.SetHunger(0)
	} else {
		member.SetHunger(RoundToOneDecimal(before - amount))
	}
	return Fed{ID: member.ID(), Before: before, After: member.Hunger()}
}
