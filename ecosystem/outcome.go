package ecosystem

import "math/rand"

// OutcomeSource yields uniform draws in [0, 100] inclusive.
// One draw is consumed per attack attempt.
type OutcomeSource interface {
	Draw() int
}

// RandSource draws from a seeded math/rand generator.
type RandSource struct {
	rng *rand.Rand
}

// NewRandSource creates a source seeded with seed.
func NewRandSource(seed int64) *RandSource {
	return &RandSource{rng: rand.New(rand.NewSource(seed))}
}

// NewRandSourceFrom wraps an existing generator so the orchestrator can share one stream.
func NewRandSourceFrom(rng *rand.Rand) *RandSource {
	return &RandSource{rng: rng}
}

// Draw returns a value in [0, 100].
func (s *RandSource) Draw() int {
	return s.rng.Intn(101)
}

// FixedSource always returns the same value.
type FixedSource int

// Draw returns the fixed value.
func (f FixedSource) Draw() int { return int(f) }

// SequenceSource replays values in order, repeating the last one when exhausted.
type SequenceSource struct {
	Values []int
	next   int
}

// Draw returns the next value in the sequence.
func (s *SequenceSource) Draw() int {
	if len(s.Values) == 0 {
		return 100
	}
	if s.next >= len(s.Values) {
		return s.Values[len(s.Values)-1]
	}
	v := s.Values[s.next]
	s.next++
	return v
}
