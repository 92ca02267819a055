package ecosystem

import (
	"errors"
	"testing"

	"github.com/pthm-cable/savanna/animal"
)

func TestAttack_SolitaryCheetahKillsZebra(t *testing.T) {
	eco := New(animal.BiomeSavanna, FixedSource(0))
	cheetah := newCheetah(1)
	zebra := newZebra(2)
	eco.AddAnimal(cheetah)
	eco.AddAnimal(zebra)

	result, err := eco.Attack(cheetah.ID(), zebra.ID())
	if err != nil {
		t.Fatalf("Attack: %v", err)
	}

	// 67 scaled, solitary keeps 67 - 67/2 = 34. Halving as 67/2 would give
	// 33; the subtraction form is the one applied, and the chance is 4 either way.
	if result.AttackPoints != 34 {
		t.Errorf("attack points = %d, want 34", result.AttackPoints)
	}
	// 80 scaled + ceil(80*0.3) herd bonus.
	if result.EscapePoints != 104 {
		t.Errorf("escape points = %d, want 104", result.EscapePoints)
	}
	// floor(100*34/138) = 24, lighter predator: floor(24*60/300) = 4.
	if result.SucceedChance != 4 {
		t.Errorf("succeed chance = %d, want 4", result.SucceedChance)
	}
	if !result.Success {
		t.Fatal("draw 0 should succeed")
	}
	if zebra.Alive {
		t.Error("killed zebra should be marked dead")
	}
	if _, ok := eco.Find(zebra.ID()); ok {
		t.Error("zebra should be removed from its group")
	}
	if eco.Group(animal.TypeHerbivore, zebraGroup) != nil {
		t.Error("emptied zebra group should be deleted")
	}
	if got := emptyGroups(eco); len(got) != 0 {
		t.Errorf("empty groups persisted: %v", got)
	}
	if !eco.HasExtinctAnimalType() {
		t.Error("herbivores should be extinct after the last one is eaten")
	}
}

func TestAttack_KeepsGroupWithRemainingMembers(t *testing.T) {
	eco := New(animal.BiomeSavanna, FixedSource(0))
	cheetah := newCheetah(1)
	eco.AddAnimal(cheetah)
	eco.AddAnimal(newZebra(2))
	eco.AddAnimal(newZebra(3))

	if _, err := eco.Attack(1, 2); err != nil {
		t.Fatalf("Attack: %v", err)
	}

	members := eco.Group(animal.TypeHerbivore, zebraGroup)
	if len(members) != 1 || members[0].ID() != 3 {
		t.Fatalf("remaining zebras = %v, want only id 3", members)
	}
	if eco.HasExtinctAnimalType() {
		t.Error("no type should be extinct")
	}
}

func TestAttack_FailureLeavesStateUnchanged(t *testing.T) {
	eco := New(animal.BiomeSavanna, FixedSource(5))
	cheetah := newCheetah(1)
	cheetah.SetHunger(30)
	zebra := newZebra(2)
	eco.AddAnimal(cheetah)
	eco.AddAnimal(zebra)

	result, err := eco.Attack(cheetah.ID(), zebra.ID())
	if err != nil {
		t.Fatalf("Attack: %v", err)
	}
	if result.Success {
		t.Fatalf("draw 5 > chance %d should fail", result.SucceedChance)
	}
	if result.Draw != 5 {
		t.Errorf("draw = %d, want 5", result.Draw)
	}
	if !zebra.Alive {
		t.Error("zebra should survive a failed attack")
	}
	if got := eco.Group(animal.TypeHerbivore, zebraGroup); len(got) != 1 {
		t.Errorf("zebra group size = %d, want 1", len(got))
	}
	if cheetah.Hunger() != 30 {
		t.Errorf("hunger changed on failure: %v", cheetah.Hunger())
	}
	if result.Feeding != nil {
		t.Error("failed attack should not feed anyone")
	}
}

func TestAttack_ConsumesOneDrawPerAttempt(t *testing.T) {
	src := &SequenceSource{Values: []int{100, 100, 0}}
	eco := New(animal.BiomeSavanna, src)
	eco.AddAnimal(newCheetah(1))
	eco.AddAnimal(newZebra(2))

	for i := 0; i < 2; i++ {
		r, err := eco.Attack(1, 2)
		if err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
		if r.Success {
			t.Fatalf("attempt %d should fail with draw 100", i)
		}
	}
	r, err := eco.Attack(1, 2)
	if err != nil {
		t.Fatalf("third attempt: %v", err)
	}
	if !r.Success {
		t.Error("third attempt should succeed with draw 0")
	}
}

func TestAttack_Errors(t *testing.T) {
	eco := New(animal.BiomeSavanna, FixedSource(0))
	cheetah := newCheetah(1)
	hyena := newHyena(2, "pack")
	zebra := newZebra(3)
	gazelle := newGazelle(4, "herd")
	for _, a := range []*animal.Animal{cheetah, hyena, zebra, gazelle} {
		eco.AddAnimal(a)
	}

	tests := []struct {
		name     string
		predator animal.ID
		victim   animal.ID
		wantErr  error
	}{
		{"unknown predator", 99, zebra.ID(), ErrAnimalNotFound},
		{"unknown victim", cheetah.ID(), 99, ErrAnimalNotFound},
		{"herbivore attacks herbivore", zebra.ID(), zebra.ID(), ErrIllegalAttackTarget},
		{"herbivore attacks carnivore", gazelle.ID(), cheetah.ID(), ErrIllegalAttackTarget},
		{"carnivore attacks carnivore", cheetah.ID(), hyena.ID(), ErrIllegalAttackTarget},
		{"carnivore attacks itself", cheetah.ID(), cheetah.ID(), ErrIllegalAttackTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eco.Attack(tt.predator, tt.victim)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Nothing was removed by the failed validations.
	for _, id := range []animal.ID{1, 2, 3, 4} {
		if _, ok := eco.Find(id); !ok {
			t.Errorf("animal %d disappeared after rejected attacks", id)
		}
	}
}

func TestAttack_DeadPredatorRejected(t *testing.T) {
	eco := New(animal.BiomeSavanna, FixedSource(0))
	cheetah := newCheetah(1)
	eco.AddAnimal(cheetah)
	eco.AddAnimal(newZebra(2))
	cheetah.Kill()

	if _, err := eco.Attack(1, 2); !errors.Is(err, ErrIllegalAttackTarget) {
		t.Fatalf("err = %v, want ErrIllegalAttackTarget", err)
	}
}

func TestSucceedChance_WeightRatio(t *testing.T) {
	// Grouped hyena age 10/24: 100 - 41 = 59 attack points.
	// Gazelle age 10/25 in herd: 60 + ceil(18) = 78 escape points.
	// Base chance floor(5900/137) = 43.
	tests := []struct {
		name         string
		victimWeight float64
		want         int
	}{
		{"predator heavier", 25, 43},
		{"equal weight keeps chance", 50, 43},
		{"predator lighter", 51, 42},
		{"much heavier prey", 500, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hyena := newHyena(1, "pack")
			gazelle := newGazelle(2, "herd")
			gazelle.Weight = tt.victimWeight
			if got := SucceedChance(hyena, gazelle); got != tt.want {
				t.Errorf("SucceedChance = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSucceedChance_BothAtMaxAge(t *testing.T) {
	hyena := newHyena(1, "pack")
	hyena.CurrentAge = hyena.MaxAge
	gazelle := newGazelle(2, "herd")
	gazelle.CurrentAge = gazelle.MaxAge
	if got := SucceedChance(hyena, gazelle); got != 0 {
		t.Errorf("SucceedChance = %d, want 0", got)
	}
}

func TestEscapePoints_NoBonusAlone(t *testing.T) {
	gazelle := newGazelle(1, animal.LonersGroup)
	gazelle.InGroup = false
	if got := EscapePoints(gazelle); got != 60 {
		t.Errorf("EscapePoints = %d, want 60", got)
	}
}
