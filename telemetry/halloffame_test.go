package telemetry

import (
	"encoding/json"
	"testing"

	"github.com/pthm-cable/savanna/animal"
)

func newLion(id animal.ID) *animal.Animal {
	return animal.NewCarnivore(id, animal.Base{Kind: "Lion", MaxAge: 30, Weight: 150, InGroup: true, GroupName: "pride"}, 110, 20)
}

func TestLifetimeTracker(t *testing.T) {
	lt := NewLifetimeTracker()
	lion := newLion(1)
	lt.Register(lion, 3)

	lt.RecordAttack(1, false)
	lt.RecordAttack(1, true)
	lt.RecordMeal(1, 12.5)
	lt.RecordMeal(1, -1)
	lt.RecordChild(1)
	lt.UpdateHunger(1, 40)
	lt.UpdateHunger(1, 20)
	lt.RecordAttack(99, true) // untracked ids are ignored

	s := lt.Get(1)
	if s == nil {
		t.Fatal("stats missing")
	}
	if s.Attacks != 2 || s.Kills != 1 || s.FoodEaten != 12.5 || s.Children != 1 || s.PeakHunger != 40 {
		t.Errorf("stats = %+v", s)
	}
	if s.BirthTurn != 3 || s.Group != "pride" {
		t.Errorf("registration = %+v", s)
	}

	if removed := lt.Remove(1); removed != s {
		t.Error("Remove should return the tracked stats")
	}
	if lt.Count() != 0 {
		t.Errorf("count = %d, want 0", lt.Count())
	}
}

func TestHallOfFame_RanksAndCaps(t *testing.T) {
	hof := NewHallOfFame(2)

	consider := func(id animal.ID, kills int) bool {
		return hof.Consider(
			Death{Turn: 10, ID: id, Kind: "Lion", Type: animal.TypeCarnivore, Cause: CauseStarved},
			&LifetimeStats{BirthTurn: 0, Kills: kills, Group: "pride"},
		)
	}

	if consider(1, 0) {
		t.Error("a hunter without kills should not qualify")
	}
	if !consider(2, 1) || !consider(3, 3) {
		t.Fatal("hunters with kills should qualify")
	}
	if !consider(4, 2) {
		t.Error("better hunter should displace the weakest")
	}
	if consider(5, 1) {
		t.Error("hunter weaker than a full hall should be rejected")
	}

	top := hof.Top("Lion")
	if len(top) != 2 || top[0].ID != 3 || top[1].ID != 4 {
		t.Fatalf("top = %+v, want ids 3, 4", top)
	}
	if top[0].Lifespan != 10 || top[0].Cause != "starved" {
		t.Errorf("entry = %+v", top[0])
	}
	if hof.Size() != 2 {
		t.Errorf("size = %d, want 2", hof.Size())
	}
}

func TestHallOfFame_IgnoresHerbivores(t *testing.T) {
	hof := NewHallOfFame(5)
	ok := hof.Consider(Death{Kind: "Zebra", Type: animal.TypeHerbivore}, &LifetimeStats{Kills: 3})
	if ok || hof.Size() != 0 {
		t.Error("herbivores should never enter the hall")
	}
}

func TestHallOfFame_MarshalJSON(t *testing.T) {
	hof := NewHallOfFame(3)
	hof.Consider(Death{Turn: 5, ID: 7, Kind: "Cheetah", Type: animal.TypeCarnivore, Cause: CauseOldAge}, &LifetimeStats{Kills: 2})

	data, err := hof.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	var decoded map[string][]HallEntry
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded["Cheetah"]) != 1 || decoded["Cheetah"][0].ID != 7 {
		t.Errorf("decoded = %+v", decoded)
	}
}
