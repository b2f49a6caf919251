// Package view is the windowed front-end. It owns a game.Session, feeds it
// keyboard state and draws its snapshots with ebiten.
package view

import (
	"fmt"
	"log"

	"github.com/Garsondee/rocket/internal/audio"
	"github.com/Garsondee/rocket/internal/config"
	"github.com/Garsondee/rocket/internal/game"
	"github.com/Garsondee/rocket/internal/trace"
	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// statusTicks is how long a status line stays on screen.
const statusTicks = 3 * game.ReferenceUPS

// Game implements ebiten.Game.
type Game struct {
	session *game.Session
	opts    config.Options
	feed    *EventFeed
	cues    *audio.CuePlayer
	rec     *trace.Recorder
	face    text.Face

	prevKeys map[ebiten.Key]bool
	keyBuf   []ebiten.Key

	simSpeed  float64
	tickAccum float64

	status     string
	statusLeft int
}

// Option customizes a Game.
type Option func(*Game)

// WithCues plays sound cues for engine events.
func WithCues(p *audio.CuePlayer) Option {
	return func(g *Game) { g.cues = p }
}

// WithRecorder writes a snapshot trace while playing.
func WithRecorder(r *trace.Recorder) Option {
	return func(g *Game) { g.rec = r }
}

// New creates a windowed game from the runtime options.
func New(opts config.Options, extra ...Option) *Game {
	worldOpts := opts.WorldOptions(game.NewSimLog(false))
	g := &Game{
		session:  game.NewSession(game.Size{Width: game.DefaultWorldWidth, Height: game.DefaultWorldHeight}, worldOpts...),
		opts:     opts,
		feed:     NewEventFeed(),
		face:     text.NewGoXFace(basicfont.Face7x13),
		prevKeys: make(map[ebiten.Key]bool),
		simSpeed: opts.Speed,
	}
	for _, o := range extra {
		o(g)
	}
	return g
}

// Session exposes the simulated session.
func (g *Game) Session() *game.Session { return g.session }

// Update polls input and advances the world by as many fixed steps as the
// current speed allows.
func (g *Game) Update() error {
	g.handleInput()
	if g.statusLeft > 0 {
		g.statusLeft--
	}
	if g.simSpeed <= 0 {
		return nil
	}

	// Speeds above 1 run several steps per frame; below 1 accumulate fractions.
	g.tickAccum += g.simSpeed
	dt := 1 / float64(ebiten.TPS())
	for g.tickAccum >= 1 {
		g.tickAccum--
		g.simTick(dt)
	}
	return nil
}

func (g *Game) simTick(dt float64) {
	g.session.Update(dt)
	w := g.session.World
	events := w.Log.Drain()
	g.feed.AddEntries(events)
	if g.cues != nil {
		g.cues.HandleAll(events)
	}
	if g.rec != nil {
		if err := g.rec.Record(w); err != nil {
			log.Printf("trace disabled: %v", err)
			g.rec = nil
		}
	}
}

func (g *Game) handleInput() {
	g.keyBuf = inpututil.AppendPressedKeys(g.keyBuf[:0])
	cur := make(map[ebiten.Key]bool, len(g.keyBuf))
	for _, k := range g.keyBuf {
		cur[k] = true
	}

	applyControls(&g.session.Intent, cur)

	// Sim speed controls: P=pause/resume, ,=slower, .=faster.
	if pressedNow(cur, g.prevKeys, ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if pressedNow(cur, g.prevKeys, ebiten.KeyComma) {
		g.simSpeed = slower(g.simSpeed)
	}
	if pressedNow(cur, g.prevKeys, ebiten.KeyPeriod) {
		g.simSpeed = faster(g.simSpeed)
	}

	if pressedNow(cur, g.prevKeys, ebiten.KeyC) {
		g.copyReport()
	}
	if pressedNow(cur, g.prevKeys, ebiten.KeyR) {
		w := g.session.World
		w.Reset()
		g.feed.AddEntries(w.Log.Drain())
		g.setStatus(fmt.Sprintf("reset (%s)", w.Policy))
	}

	g.prevKeys = cur
}

func (g *Game) copyReport() {
	report := g.session.World.Snapshot().Report(10)
	if err := clipboard.WriteAll(report); err != nil {
		log.Printf("clipboard: %v", err)
		g.setStatus("clipboard unavailable")
		return
	}
	g.setStatus("report copied to clipboard")
}

func (g *Game) setStatus(s string) {
	g.status = s
	g.statusLeft = statusTicks
}

// Layout returns the world size plus the event panel.
func (g *Game) Layout(_, _ int) (int, int) {
	w := g.session.World.Size
	return int(w.Width) + feedPanelWidth, int(w.Height)
}

// speedLabel formats the current sim speed for the HUD.
func speedLabel(speed float64) string {
	switch speed {
	case 0:
		return "PAUSED"
	case 1, 2, 4:
		return fmt.Sprintf("%.0fx", speed)
	}
	return fmt.Sprintf("%.1fx", speed)
}
