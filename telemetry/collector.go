package telemetry

import "github.com/pthm-cable/savanna/animal"

// Collector accumulates events within turn windows and produces WindowStats.
type Collector struct {
	windowTurns     int
	windowStartTurn int

	// Event counters for current window
	herbivoreBirths int
	carnivoreBirths int
	eaten           int
	starved         int
	herbivoreOldAge int
	carnivoreOldAge int
	attacks         int
	kills           int
	chanceSum       int
}

// NewCollector creates a collector that flushes every windowTurns turns.
func NewCollector(windowTurns int) *Collector {
	if windowTurns < 1 {
		windowTurns = 1
	}
	return &Collector{windowTurns: windowTurns}
}

// RecordAttack records one resolved attack attempt and its success chance.
func (c *Collector) RecordAttack(chance int, success bool) {
	c.attacks++
	c.chanceSum += chance
	if success {
		c.kills++
	}
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth(t animal.Type) {
	if t == animal.TypeHerbivore {
		c.herbivoreBirths++
	} else {
		c.carnivoreBirths++
	}
}

// RecordDeath records a death event.
func (c *Collector) RecordDeath(d Death) {
	switch d.Cause {
	case CauseEaten:
		c.eaten++
	case CauseStarved:
		c.starved++
	case CauseOldAge:
		if d.Type == animal.TypeHerbivore {
			c.herbivoreOldAge++
		} else {
			c.carnivoreOldAge++
		}
	}
}

// StartAt moves the current window start to turn, for runs resumed mid-way.
func (c *Collector) StartAt(turn int) {
	c.windowStartTurn = turn
}

// ShouldFlush returns true if enough turns have passed to flush the window.
func (c *Collector) ShouldFlush(turn int) bool {
	return turn-c.windowStartTurn >= c.windowTurns
}

// Flush produces a WindowStats from the window's counters and a population
// sample taken at turn, then resets counters for the next window.
func (c *Collector) Flush(turn int, pop PopulationSample) WindowStats {
	var killRate, meanChance float64
	if c.attacks > 0 {
		killRate = float64(c.kills) / float64(c.attacks)
		meanChance = float64(c.chanceSum) / float64(c.attacks)
	}

	hunger := ComputeHungerStats(pop.Hunger)

	stats := WindowStats{
		WindowStartTurn: c.windowStartTurn,
		WindowEndTurn:   turn,

		Herbivores:      pop.Herbivores,
		Carnivores:      pop.Carnivores,
		HerbivoreGroups: pop.HerbivoreGroups,
		CarnivoreGroups: pop.CarnivoreGroups,

		HerbivoreBirths: c.herbivoreBirths,
		CarnivoreBirths: c.carnivoreBirths,
		Eaten:           c.eaten,
		Starved:         c.starved,
		HerbivoreOldAge: c.herbivoreOldAge,
		CarnivoreOldAge: c.carnivoreOldAge,

		Attacks:    c.attacks,
		Kills:      c.kills,
		KillRate:   killRate,
		MeanChance: meanChance,

		HungerMean: hunger.Mean,
		HungerStd:  hunger.Std,
		HungerP10:  hunger.P10,
		HungerP50:  hunger.P50,
		HungerP90:  hunger.P90,
		HungerMax:  hunger.Max,

		HerbivoreAgeMean: ComputeAgeStats(pop.HerbivoreAges).Mean,
		CarnivoreAgeMean: ComputeAgeStats(pop.CarnivoreAges).Mean,
	}

	c.windowStartTurn = turn
	c.herbivoreBirths = 0
	c.carnivoreBirths = 0
	c.eaten = 0
	c.starved = 0
	c.herbivoreOldAge = 0
	c.carnivoreOldAge = 0
	c.attacks = 0
	c.kills = 0
	c.chanceSum = 0

	return stats
}

// WindowTurns returns the number of turns per window.
func (c *Collector) WindowTurns() int {
	return c.windowTurns
}
