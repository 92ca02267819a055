package telemetry

import "github.com/pthm-cable/savanna/animal"

// LifetimeStats tracks per-animal statistics over its lifetime.
type LifetimeStats struct {
	BirthTurn int
	Kind      string
	Type      animal.Type
	Group     string

	// Hunting (carnivores)
	Attacks    int
	Kills      int
	FoodEaten  float64 // total hunger removed by meals
	PeakHunger float64

	Children int
}

// LifetimeTracker manages per-animal lifetime statistics.
type LifetimeTracker struct {
	stats map[animal.ID]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[animal.ID]*LifetimeStats),
	}
}

// Register creates lifetime stats for a newly added animal.
func (lt *LifetimeTracker) Register(a *animal.Animal, birthTurn int) {
	lt.stats[a.ID()] = &LifetimeStats{
		BirthTurn: birthTurn,
		Kind:      a.Kind,
		Type:      a.Type,
		Group:     a.GroupName,
	}
}

// Restore tracks a restored animal. Without a saved record it is registered
// fresh with birthTurn.
func (lt *LifetimeTracker) Restore(a *animal.Animal, birthTurn int, saved *LifetimeStatsJSON) {
	if saved == nil {
		lt.Register(a, birthTurn)
		return
	}
	lt.stats[a.ID()] = &LifetimeStats{
		BirthTurn:  saved.BirthTurn,
		Kind:       a.Kind,
		Type:       a.Type,
		Group:      a.GroupName,
		Attacks:    saved.Attacks,
		Kills:      saved.Kills,
		FoodEaten:  saved.FoodEaten,
		PeakHunger: saved.PeakHunger,
		Children:   saved.Children,
	}
}

// Get returns the lifetime stats for an animal, or nil if not found.
func (lt *LifetimeTracker) Get(id animal.ID) *LifetimeStats {
	return lt.stats[id]
}

// Remove removes an animal's stats and returns them.
func (lt *LifetimeTracker) Remove(id animal.ID) *LifetimeStats {
	stats := lt.stats[id]
	delete(lt.stats, id)
	return stats
}

// RecordAttack counts an attack attempt and, on success, a kill.
func (lt *LifetimeTracker) RecordAttack(id animal.ID, success bool) {
	if s := lt.stats[id]; s != nil {
		s.Attacks++
		if success {
			s.Kills++
		}
	}
}

// RecordMeal adds the hunger a meal removed.
func (lt *LifetimeTracker) RecordMeal(id animal.ID, amount float64) {
	if s := lt.stats[id]; s != nil && amount > 0 {
		s.FoodEaten += amount
	}
}

// RecordChild increments children count.
func (lt *LifetimeTracker) RecordChild(parentID animal.ID) {
	if s := lt.stats[parentID]; s != nil {
		s.Children++
	}
}

// UpdateHunger tracks peak hunger.
func (lt *LifetimeTracker) UpdateHunger(id animal.ID, hunger float64) {
	if s := lt.stats[id]; s != nil && hunger > s.PeakHunger {
		s.PeakHunger = hunger
	}
}

// Count returns the number of tracked animals.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// LifetimeStatsJSON is the JSON-serializable form of LifetimeStats.
type LifetimeStatsJSON struct {
	BirthTurn  int     `json:"birth_turn"`
	Attacks    int     `json:"attacks"`
	Kills      int     `json:"kills"`
	FoodEaten  float64 `json:"food_eaten"`
	PeakHunger float64 `json:"peak_hunger"`
	Children   int     `json:"children"`
}

// ToJSON converts LifetimeStats to its JSON form.
func (ls *LifetimeStats) ToJSON() *LifetimeStatsJSON {
	if ls == nil {
		return nil
	}
	return &LifetimeStatsJSON{
		BirthTurn:  ls.BirthTurn,
		Attacks:    ls.Attacks,
		Kills:      ls.Kills,
		FoodEaten:  ls.FoodEaten,
		PeakHunger: ls.PeakHunger,
		Children:   ls.Children,
	}
}
