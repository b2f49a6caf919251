package game

import "math"

// World defaults.
const (
	DefaultWorldWidth  = 1024.0
	DefaultWorldHeight = 600.0
)

// Collision radii.
const (
	PlayerRadius = 6.0
	EnemyRadius  = 10.0
	BulletRadius = 3.0
)

// Speeds in world units per second.
const (
	PlayerSpeed        = 200.0
	PlayerBoostSpeed   = 400.0
	BulletSpeed        = 500.0
	EnemySpeed         = 100.0
	ParticleSpeedScale = 500.0 // multiplied by ttl² each step
)

// Rotation is tuned per update tick at the reference rate, so the per-second
// rate stays fixed no matter what dt the caller passes.
const (
	ReferenceUPS       = 120
	RotationPerTick    = 0.06
	RotationRatePerSec = RotationPerTick * ReferenceUPS
	FixedDT            = 1.0 / ReferenceUPS
)

// Timing gates, in simulated seconds.
const (
	TrailPeriod      = 0.05
	TrailParticleTTL = 0.5
	BulletCooldown   = 0.10
	EnemySpawnPeriod = 2.0
	SpawnMaxAttempts = 64
)

// Explosions and scoring.
const (
	ExplosionRays    = 30
	PlayerDeathBlast = 8
	EnemyKillBlast   = 10
	ScorePerKill     = 10
)

// PlayerPolygon is the ship outline in local space. Index 1 is the nose.
var PlayerPolygon = [3][2]float64{
	{0, -8},
	{20, 0},
	{0, 8},
}

const noseVertex = 1

const fullTurn = 2 * math.Pi
