package animal

import (
	"fmt"
	"strings"
)

// Type separates predators from prey.
type Type uint8

const (
	TypeCarnivore Type = iota
	TypeHerbivore
)

// Types lists every animal type in iteration order.
var Types = [...]Type{TypeCarnivore, TypeHerbivore}

func (t Type) String() string {
	switch t {
	case TypeCarnivore:
		return "carnivore"
	case TypeHerbivore:
		return "herbivore"
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// ParseType parses a case-insensitive type name.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "carnivore":
		return TypeCarnivore, nil
	case "herbivore":
		return TypeHerbivore, nil
	}
	return 0, fmt.Errorf("unknown animal type %q", s)
}

// MarshalYAML implements yaml.Marshaler.
func (t Type) MarshalYAML() (any, error) { return t.String(), nil }

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Type) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParseType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// LivingType describes social behavior.
type LivingType uint8

const (
	LivingAlone LivingType = iota
	LivingGroup
)

func (l LivingType) String() string {
	if l == LivingGroup {
		return "group"
	}
	return "alone"
}

// ParseLivingType parses "alone" or "group".
func ParseLivingType(s string) (LivingType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alone":
		return LivingAlone, nil
	case "group":
		return LivingGroup, nil
	}
	return 0, fmt.Errorf("unknown living type %q", s)
}

func (l LivingType) MarshalYAML() (any, error) { return l.String(), nil }

func (l *LivingType) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParseLivingType(s)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Biome is a habitat category that decides which species an ecosystem accepts.
type Biome uint8

const (
	BiomeSavanna Biome = iota
	BiomeTundra
	BiomeTropicalForest
	BiomeDesert
)

// Biomes lists every biome.
var Biomes = [...]Biome{BiomeSavanna, BiomeTundra, BiomeTropicalForest, BiomeDesert}

var biomeNames = [...]string{"savanna", "tundra", "tropical_forest", "desert"}

func (b Biome) String() string {
	if int(b) < len(biomeNames) {
		return biomeNames[b]
	}
	return fmt.Sprintf("biome(%d)", uint8(b))
}

// ParseBiome parses a biome name. Spaces and dashes are accepted in place of underscores.
func ParseBiome(s string) (Biome, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	for i, name := range biomeNames {
		if name == norm {
			return Biome(i), nil
		}
	}
	return 0, fmt.Errorf("unknown biome %q", s)
}

func (b Biome) MarshalYAML() (any, error) { return b.String(), nil }

func (b *Biome) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParseBiome(s)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// Habitat is the main medium an animal lives in.
type Habitat uint8

const (
	HabitatLand Habitat = iota
	HabitatWater
	HabitatAir
)

var habitatNames = [...]string{"land", "water", "air"}

func (h Habitat) String() string {
	if int(h) < len(habitatNames) {
		return habitatNames[h]
	}
	return fmt.Sprintf("habitat(%d)", uint8(h))
}

// ParseHabitat parses a habitat name.
func ParseHabitat(s string) (Habitat, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for i, name := range habitatNames {
		if name == norm {
			return Habitat(i), nil
		}
	}
	return 0, fmt.Errorf("unknown habitat %q", s)
}

func (h Habitat) MarshalYAML() (any, error) { return h.String(), nil }

func (h *Habitat) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParseHabitat(s)
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (l LivingType) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *LivingType) UnmarshalText(b []byte) error {
	v, err := ParseLivingType(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

func (b Biome) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *Biome) UnmarshalText(text []byte) error {
	v, err := ParseBiome(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

func (h Habitat) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *Habitat) UnmarshalText(b []byte) error {
	v, err := ParseHabitat(string(b))
	if err != nil {
		return err
	}
	*h = v
	return nil
}
