package sim

import (
	"github.com/pthm-cable/savanna/animal"
	"github.com/pthm-cable/savanna/telemetry"
)

// recordBirths starts tracking offspring and credits their parents.
func (r *Runner) recordBirths(born []*animal.Animal) {
	for _, child := range born {
		r.collector.RecordBirth(child.Type)
		r.lifetimeTracker.Register(child, r.turn)
		r.lifetimeTracker.RecordChild(child.ParentID)
	}
}

// recordDeaths counts removals and offers dead hunters to the hall of fame.
func (r *Runner) recordDeaths(dead []*animal.Animal, cause telemetry.DeathCause) {
	for _, a := range dead {
		d := telemetry.NewDeath(r.turn, a, cause)
		r.collector.RecordDeath(d)
		if stats := r.lifetimeTracker.Remove(a.ID()); stats != nil {
			r.hallOfFame.Consider(d, stats)
		}
	}
}
