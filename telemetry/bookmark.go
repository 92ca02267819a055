package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/savanna/animal"
	"github.com/pthm-cable/savanna/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkHuntBreakthrough BookmarkType = "hunt_breakthrough"
	BookmarkPredatorRecovery BookmarkType = "predator_recovery"
	BookmarkPreyCrash        BookmarkType = "prey_crash"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
	BookmarkExtinction       BookmarkType = "extinction"
)

// stableWindows is how many consecutive low-variance windows mark a stable ecosystem.
const stableWindows = 5

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Turn        int          `csv:"turn"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"turn", b.Turn,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recentPredMin      int // minimum carnivore count in recent history
	recentPreyPeak     int // peak herbivore count in recent history
	stableWindowsCount int // consecutive windows with stable populations
	extinct            map[animal.Type]bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < stableWindows {
		historySize = stableWindows
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
		extinct:     make(map[animal.Type]bool),
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkHuntBreakthrough(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkPredatorRecovery(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkPreyCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkStableEcosystem(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if stats.Carnivores > 0 && (stats.Carnivores < bd.recentPredMin || bd.recentPredMin == 0) {
		bd.recentPredMin = stats.Carnivores
	}
	if stats.Herbivores > bd.recentPreyPeak {
		bd.recentPreyPeak = stats.Herbivores
	}

	return bookmarks
}

// Extinction returns a bookmark the first time t is reported extinct.
func (bd *BookmarkDetector) Extinction(turn int, t animal.Type) (Bookmark, bool) {
	if bd.extinct[t] {
		return Bookmark{}, false
	}
	bd.extinct[t] = true
	return Bookmark{
		Type:        BookmarkExtinction,
		Turn:        turn,
		Description: fmt.Sprintf("No live %ss remain", t),
	}, true
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns recorded windows oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	ordered := make([]WindowStats, 0, bd.historySize)
	ordered = append(ordered, bd.history[bd.historyIdx:]...)
	return append(ordered, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) checkHuntBreakthrough(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var totalKills, totalAttacks int
	for _, h := range history {
		totalKills += h.Kills
		totalAttacks += h.Attacks
	}
	if totalAttacks == 0 || stats.Attacks == 0 {
		return nil
	}

	avgKillRate := float64(totalKills) / float64(totalAttacks)
	if avgKillRate == 0 {
		return nil
	}

	cfg := bd.cfg.HuntBreakthrough
	if stats.KillRate > avgKillRate*cfg.Multiplier && stats.Kills >= cfg.MinKills {
		return &Bookmark{
			Type:        BookmarkHuntBreakthrough,
			Turn:        stats.WindowEndTurn,
			Description: fmt.Sprintf("Kill rate %.2f is %.1fx average (%.2f)", stats.KillRate, stats.KillRate/avgKillRate, avgKillRate),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPredatorRecovery(stats WindowStats) *Bookmark {
	cfg := bd.cfg.PredatorRecovery
	if bd.recentPredMin == 0 || bd.recentPredMin > cfg.MinPopulation {
		return nil
	}

	threshold := bd.recentPredMin * cfg.RecoveryMultiplier
	if stats.Carnivores >= threshold && stats.Carnivores >= cfg.MinFinal {
		oldMin := bd.recentPredMin
		bd.recentPredMin = stats.Carnivores

		return &Bookmark{
			Type:        BookmarkPredatorRecovery,
			Turn:        stats.WindowEndTurn,
			Description: fmt.Sprintf("Carnivore population recovered from %d to %d", oldMin, stats.Carnivores),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPreyCrash(stats WindowStats) *Bookmark {
	if bd.recentPreyPeak == 0 {
		return nil
	}

	cfg := bd.cfg.PreyCrash
	dropPercent := 1.0 - float64(stats.Herbivores)/float64(bd.recentPreyPeak)
	if dropPercent > cfg.DropPercent && stats.Herbivores <= bd.recentPreyPeak-cfg.MinDrop {
		oldPeak := bd.recentPreyPeak
		bd.recentPreyPeak = stats.Herbivores

		return &Bookmark{
			Type:        BookmarkPreyCrash,
			Turn:        stats.WindowEndTurn,
			Description: fmt.Sprintf("Herbivores crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.Herbivores),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	if stats.Herbivores == 0 || stats.Carnivores == 0 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	prey := make([]float64, len(recent))
	pred := make([]float64, len(recent))
	for i, h := range recent {
		prey[i] = float64(h.Herbivores)
		pred[i] = float64(h.Carnivores)
	}

	// CV^2 < 0.04 means CV < 0.2
	if squaredCV(prey) < 0.04 && squaredCV(pred) < 0.04 {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == stableWindows {
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Turn:        stats.WindowEndTurn,
			Description: fmt.Sprintf("Stable ecosystem with %d herbivores, %d carnivores over %d+ windows", stats.Herbivores, stats.Carnivores, stableWindows),
		}
	}
	return nil
}

func squaredCV(x []float64) float64 {
	mean, variance := stat.PopMeanVariance(x, nil)
	if mean == 0 {
		return 0
	}
	return variance / (mean * mean)
}
