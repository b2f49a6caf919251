package game

import (
	"math/rand"
	"time"
)

// Player is the ship flown by the user. Exactly one exists per world.
type Player struct {
	Vector           Vector
	Radius           float64
	Score            uint32
	LastShoot        float64 // sim time of the last bullet
	LastTailParticle float64 // sim time of the last trail particle
}

// NewPlayer returns a player at a random position facing direction 0,
// with cleared cooldowns and no score.
func NewPlayer(rng *rand.Rand, bounds Size) Player {
	return Player{
		Vector: RandomVector(rng, 0, bounds),
		Radius: PlayerRadius,
	}
}

// Nose returns the world-space tip of the ship polygon.
func (p *Player) Nose() Vector {
	tip := NewVector(PlayerPolygon[noseVertex][0], PlayerPolygon[noseVertex][1], p.Vector.Direction)
	tip.Rotate(p.Vector.Direction)
	tip.Translate(p.Vector)
	return tip
}

// Enemy chases the player and dies to a single bullet.
type Enemy struct {
	Vector Vector
	Radius float64
}

// NewEnemy returns an enemy at v.
func NewEnemy(v Vector) Enemy {
	return Enemy{Vector: v, Radius: EnemyRadius}
}

// Bullet travels straight and is dropped once it leaves the playfield.
type Bullet struct {
	Vector Vector
	Radius float64
}

// NewBullet returns a bullet at v.
func NewBullet(v Vector) Bullet {
	return Bullet{Vector: v, Radius: BulletRadius}
}

// Particle is a purely visual speck with a time to live in seconds.
type Particle struct {
	Vector Vector
	TTL    float64
}

// NewParticle returns a particle at v that lives for ttl seconds.
func NewParticle(v Vector, ttl float64) Particle {
	return Particle{Vector: v, TTL: ttl}
}

// Timers track the simulation clock and the last time each periodic event fired.
type Timers struct {
	CurrentTime      float64
	LastTailParticle float64
	LastShoot        float64
	LastSpawnedEnemy float64
}

// World owns every entity plus the clock. It is mutated only by UpdateWorld
// and must not be read concurrently with an update.
type World struct {
	Player    Player
	Enemies   []Enemy
	Bullets   []Bullet
	Particles []Particle
	Size      Size
	Timers    Timers

	// Policy decides what a player death clears.
	Policy ResetPolicy
	// Log receives engine events when non-nil.
	Log *SimLog

	Tick   int // number of completed updates
	Kills  int // enemies destroyed over the world's life
	Deaths int // player deaths over the world's life

	rng *rand.Rand
}

// WorldOption configures a World at construction.
type WorldOption func(*World)

// WithRand supplies the random source used for spawning.
func WithRand(rng *rand.Rand) WorldOption {
	return func(w *World) {
		w.rng = rng
	}
}

// WithSeed seeds a private random source for deterministic worlds.
func WithSeed(seed int64) WorldOption {
	return func(w *World) {
		w.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- gameplay only
	}
}

// WithResetPolicy selects what a player death clears.
func WithResetPolicy(p ResetPolicy) WorldOption {
	return func(w *World) {
		w.Policy = p
	}
}

// WithSimLog attaches an event log.
func WithSimLog(sl *SimLog) WorldOption {
	return func(w *World) {
		w.Log = sl
	}
}

// NewWorld returns a world of the given size with a freshly seeded player.
func NewWorld(size Size, opts ...WorldOption) *World {
	w := &World{
		Size:   size,
		Policy: ResetCanonical,
	}
	for _, o := range opts {
		o(w)
	}
	if w.rng == nil {
		w.rng = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404 -- gameplay only
	}
	w.Player = NewPlayer(w.rng, w.Size)
	return w
}

// Session pairs a world with the intent its front-end writes.
type Session struct {
	World  *World
	Intent Intent
}

// NewSession returns a session over a new world.
func NewSession(size Size, opts ...WorldOption) *Session {
	return &Session{World: NewWorld(size, opts...)}
}

// Update advances the session's world by dt using the current intent.
func (s *Session) Update(dt float64) {
	UpdateWorld(s.World, s.Intent, dt)
}
