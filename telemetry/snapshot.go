package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/savanna/animal"
	"github.com/pthm-cable/savanna/ecosystem"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 2

// Snapshot holds the complete population state for inspection or resuming.
type Snapshot struct {
	Version int          `json:"version"`
	RNGSeed int64        `json:"rng_seed"`
	Biome   animal.Biome `json:"biome"`
	Turn    int          `json:"turn"`

	// Registered lists every type ever populated, including extinct ones.
	Registered []animal.Type `json:"registered"`
	Animals    []AnimalState `json:"animals"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// AnimalState holds one animal's complete state.
type AnimalState struct {
	ID       animal.ID   `json:"id"`
	ParentID animal.ID   `json:"parent_id,omitempty"`
	Kind     string      `json:"kind"`
	Type     animal.Type `json:"type"`
	Group    string      `json:"group"`
	InGroup  bool        `json:"in_group"`

	LivingType       animal.LivingType `json:"living_type"`
	Habitat          animal.Habitat    `json:"habitat"`
	Biomes           []animal.Biome    `json:"biomes"`
	MaxAge           int               `json:"max_age"`
	Weight           float64           `json:"weight"`
	ReproductiveRate int               `json:"reproductive_rate"`
	Age              int               `json:"age"`

	AttackPoints int     `json:"attack_points,omitempty"`
	HungerRate   int     `json:"hunger_rate,omitempty"`
	Hunger       float64 `json:"hunger,omitempty"`
	EscapePoints int     `json:"escape_points,omitempty"`

	Lifetime *LifetimeStatsJSON `json:"lifetime,omitempty"`
}

// TakeSnapshot captures every live animal in eco. lt may be nil.
func TakeSnapshot(eco *ecosystem.Ecosystem, seed int64, turn int, lt *LifetimeTracker, bookmark *Bookmark) *Snapshot {
	snapshot := &Snapshot{
		Version:  SnapshotVersion,
		RNGSeed:  seed,
		Biome:    eco.Biome(),
		Turn:     turn,
		Bookmark: bookmark,
	}

	for _, t := range animal.Types {
		if eco.Registered(t) {
			snapshot.Registered = append(snapshot.Registered, t)
		}
		for _, a := range eco.LiveAnimals(t) {
			state := AnimalState{
				ID:               a.ID(),
				ParentID:         a.ParentID,
				Kind:             a.Kind,
				Type:             a.Type,
				Group:            a.GroupName,
				InGroup:          a.InGroup,
				LivingType:       a.LivingType,
				Habitat:          a.Habitat,
				Biomes:           a.Biomes,
				MaxAge:           a.MaxAge,
				Weight:           a.Weight,
				ReproductiveRate: a.ReproductiveRate,
				Age:              a.CurrentAge,
			}
			if a.IsCarnivore() {
				state.AttackPoints = a.Carnivore.AttackPoints
				state.HungerRate = a.Carnivore.HungerRate
				state.Hunger = a.Hunger()
			} else if a.IsHerbivore() {
				state.EscapePoints = a.Herbivore.EscapePoints
			}
			if lt != nil {
				state.Lifetime = lt.Get(a.ID()).ToJSON()
			}
			snapshot.Animals = append(snapshot.Animals, state)
		}
	}

	return snapshot
}

// Restore rebuilds an ecosystem from the snapshot. Every restored id is
// reserved in ids so new animals never collide with them. When lt is non-nil
// each animal is tracked again, keeping its saved lifetime record if present.
func (s *Snapshot) Restore(source ecosystem.OutcomeSource, ids *animal.IDAllocator, lt *LifetimeTracker) (*ecosystem.Ecosystem, error) {
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", s.Version, SnapshotVersion)
	}

	eco := ecosystem.New(s.Biome, source)
	for _, t := range s.Registered {
		eco.Register(t)
	}
	for _, st := range s.Animals {
		base := animal.Base{
			Kind:             st.Kind,
			LivingType:       st.LivingType,
			Habitat:          st.Habitat,
			Biomes:           st.Biomes,
			MaxAge:           st.MaxAge,
			Weight:           st.Weight,
			ReproductiveRate: st.ReproductiveRate,
			CurrentAge:       st.Age,
			InGroup:          st.InGroup,
			GroupName:        st.Group,
		}

		var a *animal.Animal
		switch st.Type {
		case animal.TypeCarnivore:
			a = animal.NewCarnivore(st.ID, base, st.AttackPoints, st.HungerRate)
			a.SetHunger(st.Hunger)
		case animal.TypeHerbivore:
			a = animal.NewHerbivore(st.ID, base, st.EscapePoints)
		default:
			return nil, fmt.Errorf("animal %d: unknown type %v", st.ID, st.Type)
		}
		a.ParentID = st.ParentID

		ids.Reserve(st.ID)
		eco.AddAnimal(a)
		if lt != nil {
			lt.Restore(a, s.Turn-st.Age, st.Lifetime)
		}
	}
	return eco, nil
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Turn)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Turn, sanitized)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}
