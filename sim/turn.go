package sim

import (
	"log/slog"

	"github.com/pthm-cable/savanna/animal"
	"github.com/pthm-cable/savanna/telemetry"
)

// Step runs one turn: aging, breeding, the hunger pass, then one attack per
// live carnivore. Telemetry windows are flushed at the end of the turn.
func (r *Runner) Step() {
	r.turn++
	r.perfCollector.StartTurn()

	r.perfCollector.StartPhase(telemetry.PhaseAging)
	died := r.eco.AgeAll(r.cfg.Simulation.OldAgeDeath)
	r.recordDeaths(died, telemetry.CauseOldAge)

	r.perfCollector.StartPhase(telemetry.PhaseBreeding)
	born := r.eco.BreedAll(r.registry.IDs(), r.caps)
	r.recordBirths(born)

	r.perfCollector.StartPhase(telemetry.PhaseHunger)
	starved := r.eco.IncreaseCarnivoreHunger()
	r.recordDeaths(starved, telemetry.CauseStarved)

	r.perfCollector.StartPhase(telemetry.PhaseAttack)
	r.huntAll()

	r.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	r.flushTelemetry()
	r.checkExtinction()

	r.perfCollector.EndTurn()
}

// huntAll gives every live carnivore one attack on a uniformly chosen live
// herbivore. Hunting stops early once no herbivores remain.
func (r *Runner) huntAll() {
	for _, predator := range r.eco.LiveAnimals(animal.TypeCarnivore) {
		prey := r.eco.LiveAnimals(animal.TypeHerbivore)
		if len(prey) == 0 {
			return
		}
		victim := prey[r.rng.Intn(len(prey))]

		result, err := r.eco.Attack(predator.ID(), victim.ID())
		if err != nil {
			slog.Warn("attack rejected", "predator", uint64(predator.ID()), "victim", uint64(victim.ID()), "error", err)
			continue
		}

		r.collector.RecordAttack(result.SucceedChance, result.Success)
		r.lifetimeTracker.RecordAttack(predator.ID(), result.Success)
		if !result.Success {
			continue
		}
		for _, fed := range result.Feeding {
			r.lifetimeTracker.RecordMeal(fed.ID, fed.Before-fed.After)
		}
		r.recordDeaths([]*animal.Animal{victim}, telemetry.CauseEaten)
	}
}

// checkExtinction records an extinction bookmark for each newly extinct type.
func (r *Runner) checkExtinction() {
	for _, t := range r.eco.ExtinctTypes() {
		if bm, ok := r.bookmarkDetector.Extinction(r.turn, t); ok {
			r.handleBookmark(bm)
		}
	}
}
