package view

import (
	"fmt"
	"image/color"

	"github.com/Garsondee/rocket/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	feedPanelWidth = 280
	feedMaxEntries = 60
	feedLineHeight = 14
)

// FeedEntry is a single line in the event feed.
type FeedEntry struct {
	Tick     int
	Category string
	Message  string
}

// EventFeed is a ring buffer of recent engine events rendered in a side panel.
type EventFeed struct {
	entries []FeedEntry
	head    int
	count   int
}

// NewEventFeed creates a feed with a fixed capacity.
func NewEventFeed() *EventFeed {
	return &EventFeed{entries: make([]FeedEntry, feedMaxEntries)}
}

// Add appends an entry, evicting the oldest when full.
func (f *EventFeed) Add(tick int, category, msg string) {
	f.entries[f.head] = FeedEntry{Tick: tick, Category: category, Message: msg}
	f.head = (f.head + 1) % feedMaxEntries
	if f.count < feedMaxEntries {
		f.count++
	}
}

// AddEntries appends engine events. Movement and fire events are too
// frequent to read and are skipped.
func (f *EventFeed) AddEntries(entries []game.SimLogEntry) {
	for _, e := range entries {
		if e.Category == game.CatMove || e.Category == game.CatFire {
			continue
		}
		f.Add(e.Tick, e.Category, fmt.Sprintf("%s %s", e.Key, e.Value))
	}
}

// Len returns the number of entries held.
func (f *EventFeed) Len() int { return f.count }

// Recent returns entries oldest first.
func (f *EventFeed) Recent() []FeedEntry {
	out := make([]FeedEntry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + feedMaxEntries) % feedMaxEntries
		out[i] = f.entries[idx]
	}
	return out
}

func categoryColor(cat string) color.RGBA {
	switch cat {
	case game.CatCombat:
		return color.RGBA{R: 220, G: 80, B: 60, A: 255}
	case game.CatScore:
		return color.RGBA{R: 230, G: 200, B: 60, A: 255}
	case game.CatSpawn:
		return color.RGBA{R: 80, G: 160, B: 230, A: 255}
	case game.CatWorld:
		return color.RGBA{R: 200, G: 200, B: 200, A: 255}
	}
	return color.RGBA{R: 120, G: 120, B: 120, A: 255}
}

// Draw renders the feed panel at panelX, newest entry at the bottom.
func (f *EventFeed) Draw(screen *ebiten.Image, panelX, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, feedPanelWidth, float32(panelH), color.RGBA{R: 10, G: 10, B: 14, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1, color.RGBA{R: 50, G: 50, B: 70, A: 255}, false)
	vector.FillRect(screen, float32(panelX), 0, feedPanelWidth, 16, color.RGBA{R: 20, G: 20, B: 30, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS", panelX+8, 0)

	entries := f.Recent()
	maxVisible := (panelH - 24) / feedLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	y := 20
	for i, e := range entries {
		if i >= len(entries)-3 {
			vector.FillRect(screen, float32(panelX+2), float32(y), feedPanelWidth-4, feedLineHeight, color.RGBA{R: 30, G: 30, B: 44, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+4), 3, 6, categoryColor(e.Category), false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%5d %s", e.Tick, e.Message), panelX+12, y-1)
		y += feedLineHeight
	}
}
