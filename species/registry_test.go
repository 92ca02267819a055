package species

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/pthm-cable/savanna/animal"
	"github.com/pthm-cable/savanna/config"
)

func init() {
	config.MustInit("")
}

func TestCreate(t *testing.T) {
	r := FromConfig(config.Cfg())

	tests := []struct {
		kind, group string
		wantKind    string
		wantGroup   string
		wantType    animal.Type
	}{
		{"zebra", "stripes", "Zebra", "stripes", animal.TypeHerbivore},
		{"ZEBRA", "", "Zebra", "Zebra", animal.TypeHerbivore},
		{"cheetah", "ignored", "Cheetah", animal.LonersGroup, animal.TypeCarnivore},
		{"hare", "", "Hare", animal.LonersGroup, animal.TypeHerbivore},
		{"lion", "pride", "Lion", "pride", animal.TypeCarnivore},
		{"arctic_fox", "", "Arctic Fox", animal.LonersGroup, animal.TypeCarnivore},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			a, err := r.Create(tt.kind, tt.group)
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if a.Kind != tt.wantKind || a.GroupName != tt.wantGroup || a.Type != tt.wantType {
				t.Errorf("got kind %q group %q type %v", a.Kind, a.GroupName, a.Type)
			}
			if !a.Alive || a.CurrentAge != 0 {
				t.Errorf("new animal should be alive at age 0: %+v", a)
			}
		})
	}
}

func TestCreate_Traits(t *testing.T) {
	r := FromConfig(config.Cfg())

	hyena, err := r.Create("hyena", "clan")
	if err != nil {
		t.Fatal(err)
	}
	if !hyena.IsCarnivore() || hyena.Carnivore.AttackPoints != 80 || hyena.Carnivore.HungerRate != 14 {
		t.Errorf("hyena traits = %+v", hyena.Carnivore)
	}
	if hyena.Hunger() != 0 {
		t.Errorf("hunger = %v, want 0", hyena.Hunger())
	}

	buffalo, err := r.Create("buffalo", "")
	if err != nil {
		t.Fatal(err)
	}
	if !buffalo.IsHerbivore() || buffalo.Herbivore.EscapePoints != 40 || buffalo.Weight != 800 {
		t.Errorf("buffalo = %+v", buffalo)
	}
}

func TestCreate_AllocatesSequentialIDs(t *testing.T) {
	r := FromConfig(config.Cfg())
	for want := animal.ID(1); want <= 3; want++ {
		a, err := r.Create("gazelle", "")
		if err != nil {
			t.Fatal(err)
		}
		if a.ID() != want {
			t.Errorf("id = %d, want %d", a.ID(), want)
		}
	}
	if r.IDs().Last() != 3 {
		t.Errorf("last id = %d, want 3", r.IDs().Last())
	}
}

func TestPreset_SeparatorsMatchConfig(t *testing.T) {
	r := FromConfig(config.Cfg())
	for _, kind := range []string{"wild_dog", "Wild-Dog", "wild dog"} {
		p, err := r.Preset(kind)
		if err != nil {
			t.Errorf("Preset(%q): %v", kind, err)
			continue
		}
		if cp, ok := config.Cfg().SpeciesByKind(kind); !ok || cp.Kind != p.Kind {
			t.Errorf("registry and config disagree on %q: %q vs %q", kind, p.Kind, cp.Kind)
		}
	}
}

func TestCreate_UnknownSpecies(t *testing.T) {
	r := FromConfig(config.Cfg())

	tests := []struct {
		kind        string
		wantSuggest string
	}{
		{"zebar", "Zebra"},
		{"cheeta", "Cheetah"},
		{"wild-dgo", "Wild Dog"},
		{"xyzzy", ""},
		{"ox", ""},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			_, err := r.Create(tt.kind, "")
			if !errors.Is(err, ErrUnknownSpecies) {
				t.Fatalf("err = %v, want ErrUnknownSpecies", err)
			}
			hasHint := strings.Contains(err.Error(), "did you mean")
			if tt.wantSuggest == "" && hasHint {
				t.Errorf("unexpected suggestion: %v", err)
			}
			if tt.wantSuggest != "" && !strings.Contains(err.Error(), tt.wantSuggest) {
				t.Errorf("err = %v, want suggestion %q", err, tt.wantSuggest)
			}
		})
	}
	if r.IDs().Last() != 0 {
		t.Error("failed lookups should not consume ids")
	}
}

func TestCreateFor(t *testing.T) {
	r := FromConfig(config.Cfg())

	if _, err := r.CreateFor(animal.BiomeTundra, "zebra", ""); !errors.Is(err, ErrBiomeMismatch) {
		t.Errorf("zebra in tundra err = %v, want ErrBiomeMismatch", err)
	}
	if r.IDs().Last() != 0 {
		t.Error("rejected creation should not consume an id")
	}

	owl, err := r.CreateFor(animal.BiomeSavanna, "snowy owl", "")
	if err != nil {
		t.Fatalf("snowy owl in savanna: %v", err)
	}
	if !owl.Inhabits(animal.BiomeTundra) || !owl.Inhabits(animal.BiomeSavanna) {
		t.Errorf("owl biomes = %v", owl.Biomes)
	}

	if _, err := r.CreateFor(animal.BiomeDesert, "unicorn", ""); !errors.Is(err, ErrUnknownSpecies) {
		t.Errorf("err = %v, want ErrUnknownSpecies", err)
	}
}

func TestAllowedIn(t *testing.T) {
	r := FromConfig(config.Cfg())

	got := r.AllowedIn(animal.BiomeTundra)
	want := []string{"Arctic Fox", "Boar", "Fennec Fox", "Lemming", "Ocelot", "Reindeer", "Snowy Owl", "Wild Dog"}
	if !slices.Equal(got, want) {
		t.Errorf("AllowedIn(tundra) = %v, want %v", got, want)
	}

	for _, b := range animal.Biomes {
		kinds := r.AllowedIn(b)
		if !slices.Contains(kinds, "Boar") || !slices.Contains(kinds, "Wild Dog") {
			t.Errorf("%v should allow the universal species: %v", b, kinds)
		}
	}
}

func TestKinds(t *testing.T) {
	r := NewRegistry([]config.SpeciesConfig{{Kind: "b"}, {Kind: "a"}})
	if got := r.Kinds(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Kinds = %v", got)
	}
}
