package game

import (
	"math"
	"math/rand"
)

// TestSim is a headless simulation harness used by tests and the batch
// report. It drives a World at a fixed step with a scripted pilot and
// records events to SimLog.
type TestSim struct {
	World  *World
	SimLog *SimLog
	Intent Intent
	DT     float64

	pilot   Pilot
	width   float64
	height  float64
	policy  ResetPolicy
	rng     *rand.Rand
	verbose bool
}

// Pilot chooses the intent for the next step.
type Pilot func(w *World) Intent

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra  simOptionKind = iota // size, seed, policy, verbose; applied before the world exists
	simOptEntity                      // player placement and prepopulated entities
	simOptTimers                      // clock overrides, applied last so entity options cannot clobber them
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithWorldSize sets the playfield dimensions.
func WithWorldSize(w, h float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.width = w
		ts.height = h
	}}
}

// WithSimSeed sets the RNG seed for deterministic runs.
func WithSimSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}}
}

// WithSimPolicy sets the reset policy.
func WithSimPolicy(p ResetPolicy) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.policy = p
	}}
}

// WithVerbose enables per-tick movement logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.verbose = v
	}}
}

// WithStep overrides the fixed step length.
func WithStep(dt float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.DT = dt
	}}
}

// WithPilot installs a pilot that chooses the intent before each step.
func WithPilot(p Pilot) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.pilot = p
	}}
}

// WithPlayerAt places the player.
func WithPlayerAt(x, y, dir float64) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.World.Player.Vector = NewVector(x, y, dir)
	}}
}

// WithEnemyAt adds an enemy.
func WithEnemyAt(x, y float64) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.World.Enemies = append(ts.World.Enemies, NewEnemy(NewVector(x, y, 0)))
	}}
}

// WithBulletAt adds a bullet heading dir.
func WithBulletAt(x, y, dir float64) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.World.Bullets = append(ts.World.Bullets, NewBullet(NewVector(x, y, dir)))
	}}
}

// WithParticleAt adds a particle.
func WithParticleAt(x, y, dir, ttl float64) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.World.Particles = append(ts.World.Particles, NewParticle(NewVector(x, y, dir), ttl))
	}}
}

// WithScore sets the starting score.
func WithScore(score uint32) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.World.Player.Score = score
	}}
}

// WithClock sets the simulation clock and marks every periodic event as
// having last fired at lastFired.
func WithClock(now, lastFired float64) SimOption {
	return SimOption{simOptTimers, func(ts *TestSim) {
		w := ts.World
		w.Timers = Timers{
			CurrentTime:      now,
			LastTailParticle: lastFired,
			LastShoot:        lastFired,
			LastSpawnedEnemy: lastFired,
		}
		w.Player.LastShoot = lastFired
		w.Player.LastTailParticle = lastFired
	}}
}

// WithQuietSpawner pushes the next enemy spawn far into the future.
func WithQuietSpawner() SimOption {
	return SimOption{simOptTimers, func(ts *TestSim) {
		ts.World.Timers.LastSpawnedEnemy = math.Inf(1)
	}}
}

// NewTestSim constructs a TestSim from the given options in ordered passes:
//  1. Infrastructure (size, seed, policy, verbose, pilot)
//  2. Build the World
//  3. Entities
//  4. Timers
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		DT:     FixedDT,
		width:  DefaultWorldWidth,
		height: DefaultWorldHeight,
		policy: ResetCanonical,
		rng:    rand.New(rand.NewSource(1)), // #nosec G404 -- test harness default
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	ts.SimLog = NewSimLog(ts.verbose)
	ts.World = NewWorld(Size{Width: ts.width, Height: ts.height},
		WithRand(ts.rng),
		WithResetPolicy(ts.policy),
		WithSimLog(ts.SimLog),
	)
	for _, o := range opts {
		if o.kind == simOptEntity {
			o.fn(ts)
		}
	}
	for _, o := range opts {
		if o.kind == simOptTimers {
			o.fn(ts)
		}
	}
	return ts
}

// Step advances one fixed step. The pilot, if any, overrides Intent first.
func (ts *TestSim) Step() {
	if ts.pilot != nil {
		ts.Intent = ts.pilot(ts.World)
	}
	UpdateWorld(ts.World, ts.Intent, ts.DT)
}

// RunTicks advances the simulation n steps.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.Step()
	}
}

// RunUntil advances up to maxTicks steps, stopping early once predicate holds.
// Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.Step()
		if predicate(ts) {
			return ts.World.Tick
		}
	}
	return -1
}

// CurrentTick returns the number of completed steps.
func (ts *TestSim) CurrentTick() int {
	return ts.World.Tick
}
