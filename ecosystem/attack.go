package ecosystem

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/pthm-cable/savanna/animal"
)

const (
	// HerdBonus is the escape bonus fraction for prey in a group.
	HerdBonus = 0.3

	// SolitaryDivisor halves the attack points of a lone hunter.
	SolitaryDivisor = 2

	// MaxSucceedChance is the percentage scale shared by chances and draws.
	MaxSucceedChance = 100
)

// AttackResult describes one resolved attack attempt.
type AttackResult struct {
	PredatorID    animal.ID
	VictimID      animal.ID
	AttackPoints  int
	EscapePoints  int
	SucceedChance int
	Draw          int
	Success       bool

	// Feeding is set only on success.
	Feeding []Fed
}

// LogValue implements slog.LogValuer.
func (r AttackResult) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("predator", uint64(r.PredatorID)),
		slog.Uint64("victim", uint64(r.VictimID)),
		slog.Int("attack_points", r.AttackPoints),
		slog.Int("escape_points", r.EscapePoints),
		slog.Int("chance", r.SucceedChance),
		slog.Int("draw", r.Draw),
		slog.Bool("success", r.Success),
	)
}

// Attack resolves predatorID attacking victimID. The predator must be a live
// carnivore and the victim a live herbivore. On success the group is fed and
// the victim is removed from its group; on failure only the draw is consumed.
func (e *Ecosystem) Attack(predatorID, victimID animal.ID) (AttackResult, error) {
	result := AttackResult{PredatorID: predatorID, VictimID: victimID}

	predator, ok := e.Find(predatorID)
	if !ok {
		return result, fmt.Errorf("predator %d: %w", predatorID, ErrAnimalNotFound)
	}
	victim, ok := e.Find(victimID)
	if !ok {
		return result, fmt.Errorf("victim %d: %w", victimID, ErrAnimalNotFound)
	}
	if !predator.IsCarnivore() {
		return result, fmt.Errorf("predator %d is a %s: %w", predatorID, predator.Type, ErrIllegalAttackTarget)
	}
	if !victim.IsHerbivore() {
		return result, fmt.Errorf("victim %d is a %s: %w", victimID, victim.Type, ErrIllegalAttackTarget)
	}
	if !predator.Alive || !victim.Alive {
		return result, fmt.Errorf("attack %d -> %d involves a dead animal: %w", predatorID, victimID, ErrIllegalAttackTarget)
	}

	result.AttackPoints = AttackPoints(predator)
	result.EscapePoints = EscapePoints(victim)
	result.SucceedChance = SucceedChance(predator, victim)
	result.Draw = e.source.Draw()
	result.Success = result.Draw <= result.SucceedChance

	slog.Debug("attack", "result", result)

	if !result.Success {
		return result, nil
	}

	predatorKey := keyOf(predator)
	result.Feeding = feed(predator, victim, e.groups[predatorKey.Type][predatorKey.Name])

	victim.Kill()
	e.remove(keyOf(victim), victim.ID())

	return result, nil
}

// AttackPoints is the predator's scaled points, halved when it hunts alone.
func AttackPoints(predator *animal.Animal) int {
	points := predator.ScaledPoints()
	if !predator.InGroup {
		points -= points / SolitaryDivisor
	}
	return points
}

// EscapePoints is the victim's scaled points plus the herd bonus when it is in a group.
func EscapePoints(victim *animal.Animal) int {
	points := victim.ScaledPoints()
	if victim.InGroup {
		points += int(math.Ceil(float64(points) * HerdBonus))
	}
	return points
}

// SucceedChance is the percentage chance that predator kills victim. A
// predator that is not strictly heavier has its chance scaled down by the
// weight ratio.
func SucceedChance(predator, victim *animal.Animal) int {
	attack := AttackPoints(predator)
	escape := EscapePoints(victim)
	total := attack + escape
	if total <= 0 || attack <= 0 {
		return 0
	}
	chance := MaxSucceedChance * attack / total

	if predator.Weight <= victim.Weight && victim.Weight > 0 {
		chance = int(math.Floor(float64(chance) * predator.Weight / victim.Weight))
	}
	return chance
}
