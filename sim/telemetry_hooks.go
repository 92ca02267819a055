package sim

import (
	"log/slog"

	"github.com/pthm-cable/savanna/animal"
	"github.com/pthm-cable/savanna/telemetry"
)

// flushTelemetry flushes the stats window when it is due.
func (r *Runner) flushTelemetry() {
	for _, a := range r.eco.LiveAnimals(animal.TypeCarnivore) {
		r.lifetimeTracker.UpdateHunger(a.ID(), a.Hunger())
	}
	if r.collector.ShouldFlush(r.turn) {
		r.flushWindow()
	}
}

// flushWindow emits the current window to logs, CSV and bookmark detection.
func (r *Runner) flushWindow() {
	stats := r.collector.Flush(r.turn, telemetry.SamplePopulation(r.eco))
	perfStats := r.perfCollector.Stats()
	r.lastFlushTurn = r.turn

	if r.statsCallback != nil {
		r.statsCallback(stats)
	}

	if r.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := r.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := r.outputManager.WritePerf(perfStats, stats.WindowEndTurn); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range r.bookmarkDetector.Check(stats) {
		r.handleBookmark(bm)
	}
}

// handleBookmark logs, records and optionally snapshots a bookmark.
func (r *Runner) handleBookmark(bm telemetry.Bookmark) {
	if r.logStats {
		bm.LogBookmark()
	}
	if err := r.outputManager.WriteBookmark(bm); err != nil {
		slog.Error("failed to write bookmark", "error", err)
	}
	if r.snapshotDir != "" {
		r.saveSnapshot(&bm)
	}
}

// saveSnapshot writes the current population to the snapshot directory.
func (r *Runner) saveSnapshot(bookmark *telemetry.Bookmark) {
	snapshot := telemetry.TakeSnapshot(r.eco, r.seed, r.turn, r.lifetimeTracker, bookmark)

	path, err := telemetry.SaveSnapshot(snapshot, r.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "turn", r.turn)
}
