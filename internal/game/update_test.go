package game

import (
	"math"
	"testing"
)

// quietSim returns a sim whose periodic emitters are all recently fired so a
// short step does not emit trail particles or spawn enemies.
func quietSim(opts ...SimOption) *TestSim {
	base := []SimOption{WithClock(10, 10), WithQuietSpawner()}
	return NewTestSim(append(base, opts...)...)
}

func TestUpdate_AdvancesClock(t *testing.T) {
	ts := quietSim()
	ts.DT = 0.25
	ts.Step()
	if ts.World.Timers.CurrentTime != 10.25 {
		t.Fatalf("expected clock 10.25, got %v", ts.World.Timers.CurrentTime)
	}
	if ts.World.Tick != 1 {
		t.Fatalf("expected tick 1, got %d", ts.World.Tick)
	}
}

func TestUpdate_Rotation(t *testing.T) {
	cases := []struct {
		name   string
		intent Intent
		want   float64
	}{
		{"left", Intent{RotateLeft: true}, -RotationRatePerSec * 0.1},
		{"right", Intent{RotateRight: true}, RotationRatePerSec * 0.1},
		{"both cancel", Intent{RotateLeft: true, RotateRight: true}, 0},
		{"none", Intent{}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ts := quietSim(WithPlayerAt(500, 300, 0), WithStep(0.1))
			ts.Intent = c.intent
			ts.Step()
			if got := ts.World.Player.Vector.Direction; math.Abs(got-c.want) > eps {
				t.Fatalf("expected direction %.4f, got %.4f", c.want, got)
			}
		})
	}
}

func TestUpdate_PlayerSpeedAndWrap(t *testing.T) {
	ts := quietSim(WithPlayerAt(100, 100, 0), WithStep(0.01))
	ts.Step()
	if !near(ts.World.Player.Vector.X, 102) {
		t.Fatalf("normal speed: expected x=102, got %.4f", ts.World.Player.Vector.X)
	}

	ts = quietSim(WithPlayerAt(100, 100, 0), WithStep(0.01))
	ts.Intent = Intent{Boost: true}
	ts.Step()
	if !near(ts.World.Player.Vector.X, 104) {
		t.Fatalf("boost: expected x=104, got %.4f", ts.World.Player.Vector.X)
	}

	ts = quietSim(WithPlayerAt(1023, 100, 0), WithStep(0.01))
	ts.Step()
	if !near(ts.World.Player.Vector.X, 1) {
		t.Fatalf("wrap: expected x=1, got %.4f", ts.World.Player.Vector.X)
	}
}

func TestUpdate_ParticlesAgeAndDecelerate(t *testing.T) {
	ts := quietSim(WithParticleAt(200, 200, 0, 0.3), WithStep(0.04))
	ts.Step()
	if len(ts.World.Particles) != 1 {
		t.Fatalf("expected 1 particle, got %d", len(ts.World.Particles))
	}
	p := ts.World.Particles[0]
	if !near(p.TTL, 0.26) {
		t.Fatalf("expected ttl 0.26, got %.4f", p.TTL)
	}
	// Speed uses the already-decremented ttl: 0.04 * 500 * 0.26².
	if !near(p.Vector.X, 200+0.04*500*0.26*0.26) {
		t.Fatalf("expected x=%.4f, got %.4f", 200+0.04*500*0.26*0.26, p.Vector.X)
	}
}

func TestUpdate_ExpiredParticlesRemovedSameStep(t *testing.T) {
	ts := quietSim(
		WithParticleAt(200, 200, 0, 0.03),
		WithParticleAt(210, 200, 0, 0.04),
		WithParticleAt(220, 200, 0, 0.2),
		WithStep(0.04),
	)
	ts.Step()
	if len(ts.World.Particles) != 1 {
		t.Fatalf("expected only the 0.2s particle to survive, got %d", len(ts.World.Particles))
	}
	for _, p := range ts.World.Particles {
		if p.TTL <= 0 {
			t.Fatalf("particle with ttl %.3f survived the step", p.TTL)
		}
	}
}

func TestUpdate_TrailRateLimitedBySimTime(t *testing.T) {
	ts := quietSim(WithStep(0.01))
	emits := 0
	last := ts.World.Player.LastTailParticle
	for i := 0; i < 5; i++ {
		ts.Step()
		if ts.World.Player.LastTailParticle != last {
			emits++
			last = ts.World.Player.LastTailParticle
		}
	}
	if emits > 1 {
		t.Fatalf("expected at most one trail particle in 0.05s, got %d", emits)
	}

	for i := 0; i < 95; i++ {
		ts.Step()
		if ts.World.Player.LastTailParticle != last {
			emits++
			last = ts.World.Player.LastTailParticle
		}
	}
	if emits < 1 || emits > int(1.0/TrailPeriod) {
		t.Fatalf("expected 1..%d trail particles in 1s, got %d", int(1.0/TrailPeriod), emits)
	}
}

func TestUpdate_TrailParticleBehindPlayer(t *testing.T) {
	ts := NewTestSim(WithPlayerAt(300, 300, 0), WithClock(10, 0), WithQuietSpawner(), WithStep(0.01))
	ts.Step()
	if len(ts.World.Particles) != 1 {
		t.Fatalf("expected one trail particle, got %d", len(ts.World.Particles))
	}
	p := ts.World.Particles[0]
	pl := ts.World.Player.Vector
	if p.TTL != TrailParticleTTL {
		t.Fatalf("expected ttl %.2f, got %.2f", TrailParticleTTL, p.TTL)
	}
	if p.Vector.X != pl.X || p.Vector.Y != pl.Y {
		t.Fatalf("trail should start at player (%.2f,%.2f), got (%.2f,%.2f)", pl.X, pl.Y, p.Vector.X, p.Vector.Y)
	}
	if !near(math.Cos(p.Vector.Direction), -1) {
		t.Fatalf("trail should face backwards, got direction %.3f", p.Vector.Direction)
	}
	if ts.World.Timers.LastTailParticle != ts.World.Timers.CurrentTime {
		t.Fatalf("timers not updated: last=%v now=%v", ts.World.Timers.LastTailParticle, ts.World.Timers.CurrentTime)
	}
}

func TestUpdate_ShootSpawnsBulletAtNose(t *testing.T) {
	ts := NewTestSim(WithPlayerAt(200, 300, 0), WithClock(10, 0), WithQuietSpawner(), WithStep(0.016))
	ts.Intent = Intent{Shoot: true}
	ts.Step()

	w := ts.World
	if len(w.Bullets) != 1 {
		t.Fatalf("expected exactly 1 bullet, got %d", len(w.Bullets))
	}
	// The nose is 20 units ahead of the moved player; the bullet then flies
	// one step at bullet speed.
	wantX := w.Player.Vector.X + 20 + 0.016*BulletSpeed
	b := w.Bullets[0]
	if !near(b.Vector.X, wantX) || !near(b.Vector.Y, w.Player.Vector.Y) {
		t.Fatalf("expected bullet at (%.3f,%.3f), got (%.3f,%.3f)", wantX, w.Player.Vector.Y, b.Vector.X, b.Vector.Y)
	}
	if b.Radius != BulletRadius {
		t.Fatalf("expected radius %v, got %v", BulletRadius, b.Radius)
	}
	if w.Player.LastShoot != w.Timers.CurrentTime || w.Timers.LastShoot != w.Timers.CurrentTime {
		t.Fatalf("shoot timers not updated: player=%v timers=%v now=%v", w.Player.LastShoot, w.Timers.LastShoot, w.Timers.CurrentTime)
	}
	if ts.SimLog.CountCategory(CatFire, KeyBulletFired) != 1 {
		t.Fatalf("expected one fire event, log:\n%s", ts.SimLog.Format())
	}
}

func TestUpdate_ShootCooldown(t *testing.T) {
	ts := NewTestSim(WithPlayerAt(200, 300, 0), WithClock(10, 0), WithQuietSpawner(), WithStep(0.016))
	ts.Intent = Intent{Shoot: true}
	ts.RunTicks(6) // 0.096s after the first shot: still cooling down
	if got := ts.SimLog.CountCategory(CatFire, KeyBulletFired); got != 1 {
		t.Fatalf("expected 1 shot inside the cooldown, got %d", got)
	}
	ts.RunTicks(2)
	if got := ts.SimLog.CountCategory(CatFire, KeyBulletFired); got != 2 {
		t.Fatalf("expected a second shot after the cooldown, got %d", got)
	}
}

func TestUpdate_BulletsLeavingPlayfieldAreDropped(t *testing.T) {
	ts := quietSim(
		WithPlayerAt(100, 100, 0),
		WithBulletAt(1020, 300, 0),       // exits right
		WithBulletAt(500, 2, -math.Pi/2), // exits top
		WithBulletAt(1024, 300, math.Pi), // on the edge, heading in
		WithStep(0.016),
	)
	ts.Step()
	if len(ts.World.Bullets) != 1 {
		t.Fatalf("expected 1 bullet left, got %d", len(ts.World.Bullets))
	}
	b := ts.World.Bullets[0]
	if !near(b.Vector.X, 1024-8) {
		t.Fatalf("expected surviving bullet at x=1016, got %.3f", b.Vector.X)
	}
	for _, b := range ts.World.Bullets {
		if !ts.World.Size.Contains(b.Vector) {
			t.Fatalf("bullet outside playfield survived: %+v", b.Vector)
		}
	}
}

func TestUpdate_EnemiesPursuePlayer(t *testing.T) {
	ts := quietSim(WithPlayerAt(100, 300, 0), WithEnemyAt(300, 300), WithStep(0.01))
	ts.Step()
	e := ts.World.Enemies[0]
	if !near(math.Cos(e.Vector.Direction), -1) {
		t.Fatalf("enemy should face the player, direction %.3f", e.Vector.Direction)
	}
	if !near(e.Vector.X, 299) || !near(e.Vector.Y, 300) {
		t.Fatalf("expected enemy at (299,300), got (%.3f,%.3f)", e.Vector.X, e.Vector.Y)
	}
}

func TestUpdate_SpawnGatedByPeriod(t *testing.T) {
	ts := NewTestSim(WithClock(10, 7.9), WithStep(0.01))
	ts.Step()
	if len(ts.World.Enemies) != 1 {
		t.Fatalf("expected one spawn once the period elapsed, got %d", len(ts.World.Enemies))
	}
	if ts.World.Timers.LastSpawnedEnemy != ts.World.Timers.CurrentTime {
		t.Fatalf("spawn timer not updated")
	}
	ts.RunTicks(100)
	if got := ts.SimLog.CountCategory(CatSpawn, KeyEnemySpawn); got != 1 {
		t.Fatalf("expected no further spawns within the period, got %d spawn events", got)
	}
}

func TestSpawnEnemy_NeverOverlapsPlayer(t *testing.T) {
	for seed := int64(0); seed < 500; seed++ {
		w := NewWorld(Size{Width: DefaultWorldWidth, Height: DefaultWorldHeight}, WithSeed(seed))
		spawnEnemy(w)
		e := w.Enemies[0]
		if Collides(w.Player.Vector, w.Player.Radius, e.Vector, e.Radius) {
			t.Fatalf("seed %d: enemy at %+v overlaps player at %+v", seed, e.Vector, w.Player.Vector)
		}
		if e.Radius != EnemyRadius || e.Vector.Direction != 0 {
			t.Fatalf("seed %d: unexpected enemy %+v", seed, e)
		}
	}
}

func TestSpawnEnemy_TerminatesOnTinyWorld(t *testing.T) {
	sl := NewSimLog(false)
	w := NewWorld(Size{Width: 10, Height: 10}, WithSeed(3), WithSimLog(sl))
	spawnEnemy(w)
	if len(w.Enemies) != 1 {
		t.Fatalf("expected the last sample to be accepted, got %d enemies", len(w.Enemies))
	}
	if sl.CountCategory(CatSpawn, KeySpawnRetry) != 1 {
		t.Fatalf("expected a retry_exhausted event, log:\n%s", sl.Format())
	}
}

func TestUpdate_BulletKillsEnemy(t *testing.T) {
	ts := quietSim(
		WithPlayerAt(100, 100, 0),
		WithEnemyAt(500, 300),
		WithBulletAt(495, 300, 0),
		WithScore(30),
		WithStep(0.01),
	)
	ts.Step()
	w := ts.World
	if len(w.Enemies) != 0 || len(w.Bullets) != 0 {
		t.Fatalf("expected enemy and bullet removed, got enemies=%d bullets=%d", len(w.Enemies), len(w.Bullets))
	}
	if w.Player.Score != 40 {
		t.Fatalf("expected score 40, got %d", w.Player.Score)
	}
	if len(w.Particles) != ExplosionRays*(EnemyKillBlast-1) {
		t.Fatalf("expected %d explosion particles, got %d", ExplosionRays*(EnemyKillBlast-1), len(w.Particles))
	}
	if w.Kills != 1 {
		t.Fatalf("expected 1 kill, got %d", w.Kills)
	}
	if !ts.SimLog.HasEntry(CatScore, KeyScoreChange, "+10 -> 40") {
		t.Fatalf("missing score event, log:\n%s", ts.SimLog.Format())
	}
}

func TestUpdate_EnemyTakesAtMostOneBullet(t *testing.T) {
	ts := quietSim(
		WithPlayerAt(100, 100, 0),
		WithEnemyAt(500, 300),
		WithBulletAt(498, 300, 0),
		WithBulletAt(502, 300, math.Pi),
		WithStep(0.01),
	)
	ts.Step()
	w := ts.World
	if len(w.Enemies) != 0 {
		t.Fatalf("expected enemy destroyed, got %d", len(w.Enemies))
	}
	if len(w.Bullets) != 1 {
		t.Fatalf("expected the second bullet to survive, got %d", len(w.Bullets))
	}
	if w.Player.Score != ScorePerKill {
		t.Fatalf("expected score %d, got %d", ScorePerKill, w.Player.Score)
	}
}

func TestUpdate_BulletHitsAtMostOneEnemy(t *testing.T) {
	ts := quietSim(
		WithPlayerAt(100, 100, 0),
		WithEnemyAt(500, 300),
		WithEnemyAt(505, 300),
		WithBulletAt(497, 300, 0),
		WithStep(0.01),
	)
	ts.Step()
	w := ts.World
	if len(w.Enemies) != 1 || len(w.Bullets) != 0 {
		t.Fatalf("expected one enemy left and no bullets, got enemies=%d bullets=%d", len(w.Enemies), len(w.Bullets))
	}
	if w.Player.Score != ScorePerKill {
		t.Fatalf("expected score %d, got %d", ScorePerKill, w.Player.Score)
	}
}

func TestUpdate_ScoreCountsEveryKillInStep(t *testing.T) {
	ts := quietSim(
		WithPlayerAt(100, 100, 0),
		WithEnemyAt(400, 300),
		WithEnemyAt(700, 300),
		WithBulletAt(398, 300, 0),
		WithBulletAt(698, 300, 0),
		WithStep(0.01),
	)
	ts.Step()
	if got := ts.World.Player.Score; got != 2*ScorePerKill {
		t.Fatalf("expected score %d, got %d", 2*ScorePerKill, got)
	}
	if ts.SimLog.CountCategory(CatCombat, KeyEnemyKilled) != 2 {
		t.Fatalf("expected two kill events, log:\n%s", ts.SimLog.Format())
	}
}

func TestUpdate_PlayerDeathResetsWorld(t *testing.T) {
	ts := quietSim(
		WithPlayerAt(100, 100, 0),
		WithEnemyAt(108, 100),
		WithEnemyAt(600, 400),
		WithBulletAt(600, 100, math.Pi/2),
		WithScore(50),
		WithStep(0.001),
	)
	ts.Step()
	w := ts.World
	if len(w.Enemies) != 0 || len(w.Bullets) != 0 {
		t.Fatalf("expected enemies and bullets cleared, got enemies=%d bullets=%d", len(w.Enemies), len(w.Bullets))
	}
	if near(w.Player.Vector.X, 100.2) && near(w.Player.Vector.Y, 100) {
		t.Fatalf("player was not re-randomised: %+v", w.Player.Vector)
	}
	if w.Player.Vector.Direction != 0 {
		t.Fatalf("new player should face 0, got %v", w.Player.Vector.Direction)
	}
	if len(w.Particles) != ExplosionRays*(PlayerDeathBlast-1) {
		t.Fatalf("expected %d explosion particles kept, got %d", ExplosionRays*(PlayerDeathBlast-1), len(w.Particles))
	}
	if w.Player.Score != 50 {
		t.Fatalf("canonical policy keeps the score: expected 50, got %d", w.Player.Score)
	}
	if !near(w.Timers.CurrentTime, 10.001) {
		t.Fatalf("canonical policy keeps the clock, got %v", w.Timers.CurrentTime)
	}
	if w.Deaths != 1 {
		t.Fatalf("expected 1 death, got %d", w.Deaths)
	}
	if !ts.SimLog.HasEntry(CatWorld, KeyReset, "canonical") {
		t.Fatalf("missing reset event, log:\n%s", ts.SimLog.Format())
	}
}

func TestUpdate_PlayerDeathHonoursPolicy(t *testing.T) {
	cases := []struct {
		name          string
		policy        ResetPolicy
		wantScore     uint32
		wantParticles int
		wantClockZero bool
	}{
		{"replace-player", ResetReplacePlayer, 0, ExplosionRays * (PlayerDeathBlast - 1), false},
		{"full", ResetFull, 0, 0, true},
		{"particles only", ResetEnemies | ResetParticles, 50, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ts := quietSim(
				WithSimPolicy(c.policy),
				WithPlayerAt(100, 100, 0),
				WithEnemyAt(108, 100),
				WithScore(50),
				WithStep(0.001),
			)
			ts.Step()
			w := ts.World
			if w.Player.Score != c.wantScore {
				t.Fatalf("expected score %d, got %d", c.wantScore, w.Player.Score)
			}
			if len(w.Particles) != c.wantParticles {
				t.Fatalf("expected %d particles, got %d", c.wantParticles, len(w.Particles))
			}
			if (w.Timers.CurrentTime == 0) != c.wantClockZero {
				t.Fatalf("clock after reset = %v, want zeroed=%v", w.Timers.CurrentTime, c.wantClockZero)
			}
			if len(w.Enemies) != 0 {
				t.Fatalf("expected enemies cleared, got %d", len(w.Enemies))
			}
		})
	}
}

func TestUpdate_OnlyFirstOverlapTriggersDeath(t *testing.T) {
	ts := quietSim(
		WithPlayerAt(100, 100, 0),
		WithEnemyAt(108, 100),
		WithEnemyAt(92, 100),
		WithStep(0.001),
	)
	ts.Step()
	if ts.World.Deaths != 1 {
		t.Fatalf("expected a single death, got %d", ts.World.Deaths)
	}
	if got := len(ts.World.Particles); got != ExplosionRays*(PlayerDeathBlast-1) {
		t.Fatalf("expected one explosion, got %d particles", got)
	}
}

func TestExplosion_Intensity8(t *testing.T) {
	origin := NewVector(40, 60, 1)
	ps := Explosion(origin, PlayerDeathBlast)
	if len(ps) != 210 {
		t.Fatalf("expected 210 particles, got %d", len(ps))
	}
	counts := map[float64]int{}
	for _, p := range ps {
		if p.Vector.X != 40 || p.Vector.Y != 60 {
			t.Fatalf("particle not at origin: %+v", p.Vector)
		}
		counts[p.TTL]++
	}
	for k := 1; k <= 7; k++ {
		ttl := float64(k) / 10
		if counts[ttl] != 30 {
			t.Errorf("ttl %.1f: expected 30 particles, got %d", ttl, counts[ttl])
		}
	}
	if len(counts) != 7 {
		t.Fatalf("expected 7 distinct ttls, got %d", len(counts))
	}
	if ps[0].Vector.Direction != 0 {
		t.Fatalf("first ray should point at 0, got %v", ps[0].Vector.Direction)
	}
	if last := ps[len(ps)-1].Vector.Direction; !near(last, 2*math.Pi) {
		t.Fatalf("last ray should point at 2π, got %v", last)
	}
}

func TestExplosion_LowIntensity(t *testing.T) {
	if got := len(Explosion(Vector{}, 1)); got != 0 {
		t.Fatalf("intensity 1: expected no particles, got %d", got)
	}
	if got := len(Explosion(Vector{}, 0)); got != 0 {
		t.Fatalf("intensity 0: expected no particles, got %d", got)
	}
	if got := len(Explosion(Vector{}, 2)); got != ExplosionRays {
		t.Fatalf("intensity 2: expected %d particles, got %d", ExplosionRays, got)
	}
}

func TestSession_UpdateUsesIntent(t *testing.T) {
	s := NewSession(Size{Width: 400, Height: 400}, WithSeed(9))
	s.World.Timers.LastSpawnedEnemy = math.Inf(1)
	SetKey(&s.Intent, KeyLeft, true)
	s.Update(0.1)
	if got := s.World.Player.Vector.Direction; math.Abs(got+RotationRatePerSec*0.1) > eps {
		t.Fatalf("expected left rotation, direction %.4f", got)
	}
}
