package game

import (
	"fmt"
	"strings"
)

// reportWindowTicks is the default sliding window for recent-behaviour reports (~10s at 120 UPS).
const reportWindowTicks = 1200

// WorldReport captures the population and score of a world at one tick.
type WorldReport struct {
	Tick      int
	Time      float64
	Enemies   int
	Bullets   int
	Particles int
	Score     uint32
	Kills     int // cumulative
	Deaths    int // cumulative
}

// SimReporter collects periodic reports from a world and can produce
// summaries over sliding time windows.
type SimReporter struct {
	history     []WorldReport
	windowTicks int
}

// NewSimReporter creates a reporter with the given window size in ticks.
func NewSimReporter(windowTicks int) *SimReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &SimReporter{windowTicks: windowTicks}
}

// Collect records the current state of w. Call it periodically (e.g. every
// ReferenceUPS ticks).
func (r *SimReporter) Collect(w *World) {
	r.history = append(r.history, WorldReport{
		Tick:      w.Tick,
		Time:      w.Timers.CurrentTime,
		Enemies:   len(w.Enemies),
		Bullets:   len(w.Bullets),
		Particles: len(w.Particles),
		Score:     w.Player.Score,
		Kills:     w.Kills,
		Deaths:    w.Deaths,
	})

	// Prune old history beyond 2x window to prevent unbounded growth.
	maxKeep := r.windowTicks / ReferenceUPS * 2
	if maxKeep < 100 {
		maxKeep = 100
	}
	if len(r.history) > maxKeep {
		r.history = r.history[len(r.history)-maxKeep:]
	}
}

// Latest returns the most recent report, or nil if none collected yet.
func (r *SimReporter) Latest() *WorldReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns all retained reports.
func (r *SimReporter) History() []WorldReport {
	return r.history
}

// WindowReport is an aggregated summary over a time window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int

	AvgEnemies, AvgBullets, AvgParticles float64
	MaxEnemies, MaxParticles             int

	// Deltas across the window.
	KillsInWindow  int
	DeathsInWindow int
	PeakScore      uint32
}

// WindowSummary aggregates the reports that fall inside the most recent window.
func (r *SimReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}

	latestTick := r.history[len(r.history)-1].Tick
	cutoff := latestTick - r.windowTicks
	var window []WorldReport
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Tick < cutoff {
			break
		}
		window = append(window, r.history[i])
	}
	if len(window) == 0 {
		return nil
	}

	newest := window[0]
	oldest := window[len(window)-1]
	wr := &WindowReport{
		FromTick:       oldest.Tick,
		ToTick:         newest.Tick,
		SampleCount:    len(window),
		KillsInWindow:  newest.Kills - oldest.Kills,
		DeathsInWindow: newest.Deaths - oldest.Deaths,
	}
	for _, rpt := range window {
		wr.AvgEnemies += float64(rpt.Enemies)
		wr.AvgBullets += float64(rpt.Bullets)
		wr.AvgParticles += float64(rpt.Particles)
		if rpt.Enemies > wr.MaxEnemies {
			wr.MaxEnemies = rpt.Enemies
		}
		if rpt.Particles > wr.MaxParticles {
			wr.MaxParticles = rpt.Particles
		}
		if rpt.Score > wr.PeakScore {
			wr.PeakScore = rpt.Score
		}
	}
	n := float64(len(window))
	wr.AvgEnemies /= n
	wr.AvgBullets /= n
	wr.AvgParticles /= n
	return wr
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== World Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)
	fmt.Fprintf(&sb, "  population avg: enemies=%.1f bullets=%.1f particles=%.1f\n",
		wr.AvgEnemies, wr.AvgBullets, wr.AvgParticles)
	fmt.Fprintf(&sb, "  population max: enemies=%d particles=%d\n", wr.MaxEnemies, wr.MaxParticles)
	fmt.Fprintf(&sb, "  combat: kills=%d deaths=%d peak_score=%d\n",
		wr.KillsInWindow, wr.DeathsInWindow, wr.PeakScore)
	return sb.String()
}

// FormatLatest returns a one-line view of the most recent report.
func (r *SimReporter) FormatLatest() string {
	rpt := r.Latest()
	if rpt == nil {
		return "No data.\n"
	}
	return fmt.Sprintf("T=%d t=%.2fs enemies=%d bullets=%d particles=%d score=%d kills=%d deaths=%d\n",
		rpt.Tick, rpt.Time, rpt.Enemies, rpt.Bullets, rpt.Particles, rpt.Score, rpt.Kills, rpt.Deaths)
}
