package game

import (
	"fmt"
	"strings"
)

// Event categories written by the engine.
const (
	CatSpawn  = "spawn"
	CatFire   = "fire"
	CatCombat = "combat"
	CatWorld  = "world"
	CatScore  = "score"
	CatMove   = "move"
)

// Event keys written by the engine.
const (
	KeyEnemySpawn  = "enemy"
	KeyBulletFired = "bullet"
	KeyEnemyKilled = "kill"
	KeyPlayerDeath = "player_death"
	KeyReset       = "reset"
	KeyScoreChange = "change"
	KeyPlayerPos   = "player"
	KeySpawnRetry  = "retry_exhausted"
)

// SimLogEntry is one recorded engine event.
type SimLogEntry struct {
	Tick     int
	Time     float64 // simulated seconds
	Category string  // spawn, fire, combat, world, score, move
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=0242  2.017s] combat  kill             (512.0,300.4)
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%04d %6.3fs] %-7s %-16s %s",
		e.Tick, e.Time, e.Category, e.Key, e.Value)
}

// SimLog collects structured events from a world. It is unbounded; front-ends
// that only care about new events call Drain each frame.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-tick movement entries
// are recorded too.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(tick int, t float64, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Time:     t,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, t float64, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, t, category, key, value, numVal)
}

// Len returns the number of entries held.
func (sl *SimLog) Len() int {
	return len(sl.entries)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Since returns the entries recorded after the first n.
func (sl *SimLog) Since(n int) []SimLogEntry {
	if n < 0 {
		n = 0
	}
	if n >= len(sl.entries) {
		return nil
	}
	return sl.entries[n:]
}

// Drain returns every entry and empties the log.
func (sl *SimLog) Drain() []SimLogEntry {
	out := sl.entries
	sl.entries = nil
	return out
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a tick range.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	var sb strings.Builder
	for _, e := range sl.FilterTickRange(fromTick, toTick) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func posString(v Vector) string {
	return fmt.Sprintf("(%.1f,%.1f)", v.X, v.Y)
}
