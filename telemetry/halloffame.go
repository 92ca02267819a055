package telemetry

import (
	"encoding/json"
	"sort"

	"github.com/pthm-cable/savanna/animal"
)

// Fitness weights for ranking dead hunters.
const (
	killWeight     = 10.0
	childWeight    = 5.0
	survivalWeight = 0.5
)

// HallEntry records a successful carnivore after its death.
type HallEntry struct {
	ID       animal.ID `json:"id"`
	Kind     string    `json:"kind"`
	Group    string    `json:"group"`
	Fitness  float64   `json:"fitness"`
	Kills    int       `json:"kills"`
	Attacks  int       `json:"attacks"`
	Children int       `json:"children"`
	Lifespan int       `json:"lifespan"`
	Cause    string    `json:"cause"`
}

// HallOfFame keeps the best hunters per species, ranked by fitness.
type HallOfFame struct {
	halls   map[string][]HallEntry
	maxSize int
}

// NewHallOfFame creates a hall of fame with the given capacity per species.
func NewHallOfFame(maxSize int) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		halls:   make(map[string][]HallEntry),
		maxSize: maxSize,
	}
}

// Consider evaluates a dead carnivore for entry. Only animals with at least
// one kill qualify. Returns true if the animal was added.
func (hof *HallOfFame) Consider(d Death, stats *LifetimeStats) bool {
	if stats == nil || d.Type != animal.TypeCarnivore || stats.Kills == 0 {
		return false
	}

	lifespan := d.Turn - stats.BirthTurn
	entry := HallEntry{
		ID:       d.ID,
		Kind:     d.Kind,
		Group:    stats.Group,
		Fitness:  float64(stats.Kills)*killWeight + float64(stats.Children)*childWeight + float64(lifespan)*survivalWeight,
		Kills:    stats.Kills,
		Attacks:  stats.Attacks,
		Children: stats.Children,
		Lifespan: lifespan,
		Cause:    d.Cause.String(),
	}

	hall, added := hof.insertEntry(hof.halls[d.Kind], entry)
	hof.halls[d.Kind] = hall
	return added
}

// insertEntry adds an entry keeping the hall sorted by descending fitness.
// If the hall is full, the lowest-fitness entry is dropped.
func (hof *HallOfFame) insertEntry(hall []HallEntry, entry HallEntry) ([]HallEntry, bool) {
	idx := sort.Search(len(hall), func(i int) bool {
		return hall[i].Fitness < entry.Fitness
	})
	if idx >= hof.maxSize {
		return hall, false
	}

	hall = append(hall, HallEntry{})
	copy(hall[idx+1:], hall[idx:])
	hall[idx] = entry

	if len(hall) > hof.maxSize {
		hall = hall[:hof.maxSize]
	}
	return hall, true
}

// Top returns the ranked entries for kind.
func (hof *HallOfFame) Top(kind string) []HallEntry {
	return append([]HallEntry(nil), hof.halls[kind]...)
}

// Size returns the number of entries across all species.
func (hof *HallOfFame) Size() int {
	n := 0
	for _, hall := range hof.halls {
		n += len(hall)
	}
	return n
}

// MarshalJSON serializes the halls keyed by species kind.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(hof.halls, "", "  ")
}
