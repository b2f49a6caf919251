// Package term is a terminal front-end for the rocket engine built on tcell.
package term

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Garsondee/rocket/internal/audio"
	"github.com/Garsondee/rocket/internal/game"
	"github.com/Garsondee/rocket/internal/trace"
	"github.com/gdamore/tcell/v2"
)

const (
	frameInterval = 16 * time.Millisecond // ~60 FPS redraw
	maxCatchUp    = 12                    // steps per frame before dropping time
)

// Options configure Run.
type Options struct {
	Speed    float64 // sim speed multiplier; 0 starts paused
	Cues     *audio.CuePlayer
	Recorder *trace.Recorder
}

// loop holds the per-session state of Run. It is separate from the select
// loop so it can be driven directly.
type loop struct {
	session *game.Session
	opts    Options
	input   *Input
	raster  *Raster

	paused  bool
	last    time.Time
	accum   float64
	lastMsg string
}

func newLoop(s *game.Session, cols, rows int, opts Options, now time.Time) *loop {
	return &loop{
		session: s,
		opts:    opts,
		input:   NewInput(),
		raster:  NewRaster(cols, rows),
		paused:  opts.Speed <= 0,
		last:    now,
	}
}

// handle processes one terminal event and reports whether to keep running.
func (l *loop) handle(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return l.key(ev.Key(), ev.Rune(), now)
	case *tcell.EventResize:
		cols, rows := ev.Size()
		l.raster.Resize(cols, rows)
	}
	return true
}

func (l *loop) key(k tcell.Key, r rune, now time.Time) bool {
	switch l.input.Press(k, r, now) {
	case ActionQuit:
		return false
	case ActionPause:
		l.paused = !l.paused
		l.last = now
		l.accum = 0
	case ActionReset:
		l.session.World.Reset()
		l.drainEvents()
	}
	return true
}

// frame advances the world by the wall time since the previous frame and
// redraws the raster.
func (l *loop) frame(now time.Time) int {
	elapsed := now.Sub(l.last).Seconds()
	l.last = now
	l.input.Apply(now, &l.session.Intent)

	steps := 0
	if !l.paused {
		speed := l.opts.Speed
		if speed <= 0 {
			speed = 1
		}
		l.accum += elapsed * speed
		for l.accum >= game.FixedDT && steps < maxCatchUp {
			l.session.Update(game.FixedDT)
			l.drainEvents()
			l.record()
			l.accum -= game.FixedDT
			steps++
		}
		if steps == maxCatchUp {
			l.accum = 0
		}
	}

	l.raster.Draw(l.session.World.Snapshot(), l.status())
	return steps
}

func (l *loop) drainEvents() {
	events := l.session.World.Log.Drain()
	for _, e := range events {
		if e.Category == game.CatCombat || e.Category == game.CatWorld {
			l.lastMsg = fmt.Sprintf("%s %s", e.Key, e.Value)
		}
	}
	if l.opts.Cues != nil {
		l.opts.Cues.HandleAll(events)
	}
}

// record samples the world into the trace. Only stepped ticks are recorded.
func (l *loop) record() {
	if l.opts.Recorder != nil {
		if err := l.opts.Recorder.Record(l.session.World); err != nil {
			log.Printf("trace disabled: %v", err)
			l.opts.Recorder = nil
		}
	}
}

func (l *loop) status() string {
	state := "arrows=steer/boost space=fire p=pause r=reset q=quit"
	if l.paused {
		state = "PAUSED  " + state
	}
	if l.lastMsg != "" {
		state += "  | " + l.lastMsg
	}
	return state
}

// Run plays s on screen until the player quits or ctx is done. The screen
// must already be initialized; the caller finalizes it.
func Run(ctx context.Context, screen tcell.Screen, s *game.Session, opts Options) error {
	if s.World.Log == nil {
		return fmt.Errorf("term: world has no event log")
	}
	cols, rows := screen.Size()
	l := newLoop(s, cols, rows, opts, time.Now())

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return // screen finalized
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !l.handle(ev, time.Now()) {
				return nil
			}
		case now := <-ticker.C:
			l.frame(now)
			l.raster.Blit(screen)
			screen.Show()
		}
	}
}
