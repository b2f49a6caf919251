// Package audio turns engine events into short synthesized sound cues.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/Garsondee/rocket/internal/game"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// SampleRate is the output rate used by the speaker.
const SampleRate = beep.SampleRate(44100)

// Cue identifies one sound.
type Cue int

const (
	CueShot Cue = iota
	CueKill
	CueDeath
	CueSpawn
	cueCount
)

func (c Cue) String() string {
	switch c {
	case CueShot:
		return "shot"
	case CueKill:
		return "kill"
	case CueDeath:
		return "death"
	case CueSpawn:
		return "spawn"
	}
	return fmt.Sprintf("cue(%d)", int(c))
}

// CueFor maps an engine event to its cue.
func CueFor(e game.SimLogEntry) (Cue, bool) {
	switch {
	case e.Category == game.CatFire && e.Key == game.KeyBulletFired:
		return CueShot, true
	case e.Category == game.CatCombat && e.Key == game.KeyEnemyKilled:
		return CueKill, true
	case e.Category == game.CatCombat && e.Key == game.KeyPlayerDeath:
		return CueDeath, true
	case e.Category == game.CatSpawn && e.Key == game.KeyEnemySpawn:
		return CueSpawn, true
	}
	return 0, false
}

// Build synthesizes a fresh streamer for c.
func Build(c Cue, rate beep.SampleRate, volume float64) beep.Streamer {
	switch c {
	case CueShot:
		const d = 60 * time.Millisecond
		osc := NewOscillator(660, d, WaveSquare, rate)
		return newVolume(NewEnvelope(osc, d, 2*time.Millisecond, 40*time.Millisecond, rate), 0.25*volume)
	case CueKill:
		const d = 250 * time.Millisecond
		noise := NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, 5*time.Millisecond, 200*time.Millisecond, rate)
		thump := NewEnvelope(NewOscillator(110, d, WaveSine, rate), d, 5*time.Millisecond, 150*time.Millisecond, rate)
		return newVolume(beep.Mix(newVolume(noise, 0.6), newVolume(thump, 0.4)), volume)
	case CueDeath:
		const d = 180 * time.Millisecond
		var notes []beep.Streamer
		for _, f := range []float64{330, 220, 110} {
			osc := NewOscillator(f, d, WaveSaw, rate)
			notes = append(notes, NewEnvelope(osc, d, 5*time.Millisecond, 120*time.Millisecond, rate))
		}
		return newVolume(beep.Seq(notes...), 0.5*volume)
	case CueSpawn:
		const d = 80 * time.Millisecond
		sine, err := generators.SineTone(rate, 330)
		if err != nil {
			return nil
		}
		tone := beep.Take(rate.N(d), sine)
		return newVolume(NewEnvelope(tone, d, 10*time.Millisecond, 50*time.Millisecond, rate), 0.2*volume)
	}
	return nil
}

// Sink plays streamers. The speaker sink is used by the binaries; tests use
// an in-memory one.
type Sink interface {
	Play(s beep.Streamer)
}

type speakerSink struct {
	mixer *beep.Mixer
}

func (s *speakerSink) Play(st beep.Streamer) {
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

// CuePlayer plays the cue for each engine event handed to it.
type CuePlayer struct {
	mu          sync.Mutex
	sink        Sink
	mixer       *beep.Mixer
	rate        beep.SampleRate
	volume      float64
	initialized bool
	played      [cueCount]int
}

// NewCuePlayer returns a player for the system speaker. Call Init before use.
func NewCuePlayer(volume float64) *CuePlayer {
	mixer := &beep.Mixer{}
	return &CuePlayer{
		sink:   &speakerSink{mixer: mixer},
		mixer:  mixer,
		rate:   SampleRate,
		volume: volume,
	}
}

// NewCuePlayerWithSink returns an initialized player that plays into sink.
func NewCuePlayerWithSink(sink Sink, rate beep.SampleRate, volume float64) *CuePlayer {
	return &CuePlayer{sink: sink, rate: rate, volume: volume, initialized: true}
}

// Init opens the speaker. It is a no-op for sink-backed players.
func (p *CuePlayer) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("audio: init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close stops playback and releases the speaker.
func (p *CuePlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	p.initialized = false
	if p.mixer == nil {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
}

// Handle plays the cue for e, if it has one.
func (p *CuePlayer) Handle(e game.SimLogEntry) {
	c, ok := CueFor(e)
	if !ok {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	st := Build(c, p.rate, p.volume)
	if st == nil {
		return
	}
	p.sink.Play(st)
	p.played[c]++
}

// HandleAll plays cues for a batch of events in order.
func (p *CuePlayer) HandleAll(entries []game.SimLogEntry) {
	for _, e := range entries {
		p.Handle(e)
	}
}

// Played returns how many times c has been played.
func (p *CuePlayer) Played(c Cue) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c < 0 || c >= cueCount {
		return 0
	}
	return p.played[c]
}
