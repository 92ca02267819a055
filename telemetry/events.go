// Package telemetry provides ecosystem health tracking, bookmarking, and snapshots.
package telemetry

import (
	"fmt"

	"github.com/pthm-cable/savanna/animal"
)

// DeathCause identifies why an animal left the ecosystem.
type DeathCause uint8

const (
	CauseEaten DeathCause = iota
	CauseStarved
	CauseOldAge
)

func (c DeathCause) String() string {
	switch c {
	case CauseEaten:
		return "eaten"
	case CauseStarved:
		return "starved"
	case CauseOldAge:
		return "old_age"
	}
	return fmt.Sprintf("cause(%d)", uint8(c))
}

// Death is a single removal from the ecosystem.
type Death struct {
	Turn  int
	ID    animal.ID
	Kind  string
	Type  animal.Type
	Cause DeathCause
	Age   int
}

// NewDeath records a removal of a at turn.
func NewDeath(turn int, a *animal.Animal, cause DeathCause) Death {
	return Death{
		Turn:  turn,
		ID:    a.ID(),
		Kind:  a.Kind,
		Type:  a.Type,
		Cause: cause,
		Age:   a.CurrentAge,
	}
}
