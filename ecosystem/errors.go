package ecosystem

import "errors"

var (
	// ErrAnimalNotFound is returned when an id resolves to no group member.
	ErrAnimalNotFound = errors.New("animal not found")

	// ErrIllegalAttackTarget is returned when the predator is not a live
	// carnivore or the victim is not a live herbivore.
	ErrIllegalAttackTarget = errors.New("illegal attack target")
)
