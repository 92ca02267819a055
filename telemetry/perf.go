package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for a simulation turn.
const (
	PhaseAging     = "aging"
	PhaseBreeding  = "breeding"
	PhaseHunger    = "hunger"
	PhaseAttack    = "attack"
	PhaseTelemetry = "telemetry"
)

// Phases lists every turn phase in execution order.
var Phases = []string{PhaseAging, PhaseBreeding, PhaseHunger, PhaseAttack, PhaseTelemetry}

// PerfSample holds timing data for a single turn.
type PerfSample struct {
	TurnDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	turnStart     time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a new performance collector averaging over windowSize turns.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 50
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartTurn begins timing a new turn.
func (p *PerfCollector) StartTurn() {
	p.turnStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase begins timing a specific phase, ending the previous one.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTurn finishes timing the current turn and records the sample.
func (p *PerfCollector) EndTurn() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		TurnDuration: now.Sub(p.turnStart),
		Phases:       p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTurnDuration time.Duration
	MinTurnDuration time.Duration
	MaxTurnDuration time.Duration

	// Average phase durations and their share of turn time
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TurnsPerSecond float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg: make(map[string]time.Duration),
			PhasePct: make(map[string]float64),
		}
	}

	var total, minTurn, maxTurn time.Duration
	phaseSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.TurnDuration

		if i == 0 || s.TurnDuration < minTurn {
			minTurn = s.TurnDuration
		}
		if s.TurnDuration > maxTurn {
			maxTurn = s.TurnDuration
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avg := total / time.Duration(p.sampleCount)

	phaseAvg := make(map[string]time.Duration, len(phaseSum))
	phasePct := make(map[string]float64, len(phaseSum))
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avg > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avg) * 100
		}
	}

	var perSec float64
	if avg > 0 {
		perSec = float64(time.Second) / float64(avg)
	}

	return PerfStats{
		AvgTurnDuration: avg,
		MinTurnDuration: minTurn,
		MaxTurnDuration: maxTurn,
		PhaseAvg:        phaseAvg,
		PhasePct:        phasePct,
		TurnsPerSecond:  perSec,
	}
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_turn_us", s.AvgTurnDuration.Microseconds(),
		"min_turn_us", s.MinTurnDuration.Microseconds(),
		"max_turn_us", s.MaxTurnDuration.Microseconds(),
		"turns_per_sec", int(s.TurnsPerSecond),
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_turn_us", s.AvgTurnDuration.Microseconds()),
		slog.Int64("min_turn_us", s.MinTurnDuration.Microseconds()),
		slog.Int64("max_turn_us", s.MaxTurnDuration.Microseconds()),
		slog.Float64("turns_per_sec", s.TurnsPerSecond),
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    int     `csv:"window_end"`
	AvgTurnUS    int64   `csv:"avg_turn_us"`
	MinTurnUS    int64   `csv:"min_turn_us"`
	MaxTurnUS    int64   `csv:"max_turn_us"`
	TurnsPerSec  float64 `csv:"turns_per_sec"`
	AgingPct     float64 `csv:"aging_pct"`
	BreedingPct  float64 `csv:"breeding_pct"`
	HungerPct    float64 `csv:"hunger_pct"`
	AttackPct    float64 `csv:"attack_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTurnUS:    s.AvgTurnDuration.Microseconds(),
		MinTurnUS:    s.MinTurnDuration.Microseconds(),
		MaxTurnUS:    s.MaxTurnDuration.Microseconds(),
		TurnsPerSec:  s.TurnsPerSecond,
		AgingPct:     s.PhasePct[PhaseAging],
		BreedingPct:  s.PhasePct[PhaseBreeding],
		HungerPct:    s.PhasePct[PhaseHunger],
		AttackPct:    s.PhasePct[PhaseAttack],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
