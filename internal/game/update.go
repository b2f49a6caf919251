package game

import "fmt"

// UpdateWorld advances w by dt seconds under intent in. The phases run in a
// fixed order and later phases see the mutations of earlier ones.
//
// dt is not validated. Large steps let entities tunnel past each other or
// wrap more than once; callers keep dt small and non-negative.
func UpdateWorld(w *World, in Intent, dt float64) {
	w.Tick++

	// 1. CLOCK.
	w.Timers.CurrentTime += dt
	now := w.Timers.CurrentTime

	// 2. STEER: both held cancel out.
	if in.RotateLeft {
		w.Player.Vector.Direction -= RotationRatePerSec * dt
	}
	if in.RotateRight {
		w.Player.Vector.Direction += RotationRatePerSec * dt
	}

	// 3. THRUST.
	speed := PlayerSpeed
	if in.Boost {
		speed = PlayerBoostSpeed
	}
	w.Player.Vector.AdvanceWrapping(dt*speed, w.Size)
	if w.Log != nil {
		w.Log.AddVerbose(w.Tick, now, CatMove, KeyPlayerPos, posString(w.Player.Vector), w.Player.Vector.Direction)
	}

	// 4+5. PARTICLES: age, drift, cull.
	updateParticles(w, dt)

	// 6. TRAIL.
	if now-w.Player.LastTailParticle > TrailPeriod {
		w.Player.LastTailParticle = now
		w.Timers.LastTailParticle = now
		tail := w.Player.Vector
		tail.Invert()
		w.Particles = append(w.Particles, NewParticle(tail, TrailParticleTTL))
	}

	// 7. FIRE.
	if in.Shoot && now-w.Player.LastShoot > BulletCooldown {
		w.Player.LastShoot = now
		w.Timers.LastShoot = now
		nose := w.Player.Nose()
		w.Bullets = append(w.Bullets, NewBullet(nose))
		w.record(CatFire, KeyBulletFired, posString(nose), nose.Direction)
	}

	// 8+9. BULLETS: fly straight, drop when off the playfield.
	updateBullets(w, dt)

	// 10. SPAWN.
	if now-w.Timers.LastSpawnedEnemy > EnemySpawnPeriod {
		w.Timers.LastSpawnedEnemy = now
		spawnEnemy(w)
	}

	// 11. PURSUIT.
	for i := range w.Enemies {
		e := &w.Enemies[i]
		e.Vector.PointTo(w.Player.Vector)
		e.Vector.Advance(dt * EnemySpeed)
	}

	// 12. PLAYER HIT.
	for i := range w.Enemies {
		e := &w.Enemies[i]
		if Collides(w.Player.Vector, w.Player.Radius, e.Vector, e.Radius) {
			w.Particles = append(w.Particles, Explosion(w.Player.Vector, PlayerDeathBlast)...)
			w.Deaths++
			w.record(CatCombat, KeyPlayerDeath, posString(w.Player.Vector), float64(w.Player.Score))
			w.Reset()
			break
		}
	}

	// 13+14. BULLET HITS.
	if kills := resolveBulletHits(w); kills > 0 {
		w.Kills += kills
		gained := uint32(ScorePerKill * kills)
		w.Player.Score += gained
		w.record(CatScore, KeyScoreChange, fmt.Sprintf("+%d -> %d", gained, w.Player.Score), float64(w.Player.Score))
	}
}

// Update is UpdateWorld on the receiver.
func (w *World) Update(in Intent, dt float64) {
	UpdateWorld(w, in, dt)
}

// updateParticles ages every particle, moves it with a speed that decays with
// the square of its remaining life, and drops the expired ones.
func updateParticles(w *World, dt float64) {
	kept := w.Particles[:0]
	for _, p := range w.Particles {
		p.TTL -= dt
		p.Vector.Advance(dt * ParticleSpeedScale * p.TTL * p.TTL)
		if p.TTL > 0 {
			kept = append(kept, p)
		}
	}
	clear(w.Particles[len(kept):])
	w.Particles = kept
}

// updateBullets advances bullets and drops those outside the playfield.
// Bullets never wrap.
func updateBullets(w *World, dt float64) {
	kept := w.Bullets[:0]
	for _, b := range w.Bullets {
		b.Vector.Advance(dt * BulletSpeed)
		if w.Size.Contains(b.Vector) {
			kept = append(kept, b)
		}
	}
	clear(w.Bullets[len(kept):])
	w.Bullets = kept
}

// spawnEnemy rejection-samples a spawn point clear of the player. After
// SpawnMaxAttempts misses the last sample is used anyway so the step always
// terminates, even on worlds too small to fit a clear spot.
func spawnEnemy(w *World) {
	var e Enemy
	placed := false
	for attempt := 0; attempt < SpawnMaxAttempts; attempt++ {
		e = NewEnemy(RandomVector(w.rng, 0, w.Size))
		if !Collides(w.Player.Vector, w.Player.Radius, e.Vector, e.Radius) {
			placed = true
			break
		}
	}
	if !placed {
		w.record(CatSpawn, KeySpawnRetry, posString(e.Vector), SpawnMaxAttempts)
	}
	w.Enemies = append(w.Enemies, e)
	w.record(CatSpawn, KeyEnemySpawn, posString(e.Vector), float64(len(w.Enemies)))
}

// resolveBulletHits scans every enemy against every bullet, then removes the
// hits from both lists. Each enemy takes the first bullet touching it and a
// consumed bullet cannot hit another enemy.
func resolveBulletHits(w *World) int {
	if len(w.Enemies) == 0 || len(w.Bullets) == 0 {
		return 0
	}
	spentBullet := make([]bool, len(w.Bullets))
	deadEnemy := make([]bool, len(w.Enemies))
	kills := 0

	for ei := range w.Enemies {
		e := &w.Enemies[ei]
		for bi := range w.Bullets {
			if spentBullet[bi] {
				continue
			}
			b := &w.Bullets[bi]
			if Collides(e.Vector, e.Radius, b.Vector, b.Radius) {
				spentBullet[bi] = true
				deadEnemy[ei] = true
				kills++
				w.Particles = append(w.Particles, Explosion(e.Vector, EnemyKillBlast)...)
				w.record(CatCombat, KeyEnemyKilled, posString(e.Vector), float64(ei))
				break
			}
		}
	}
	if kills == 0 {
		return 0
	}

	enemies := w.Enemies[:0]
	for i, e := range w.Enemies {
		if !deadEnemy[i] {
			enemies = append(enemies, e)
		}
	}
	clear(w.Enemies[len(enemies):])
	w.Enemies = enemies

	bullets := w.Bullets[:0]
	for i, b := range w.Bullets {
		if !spentBullet[i] {
			bullets = append(bullets, b)
		}
	}
	clear(w.Bullets[len(bullets):])
	w.Bullets = bullets
	return kills
}

// Explosion returns a radial burst at origin: ExplosionRays headings spread
// over a full turn, both ends included, each carrying one particle per ttl in
// 0.1, 0.2, ... (intensity-1)/10. Intensities below 2 produce nothing.
func Explosion(origin Vector, intensity int) []Particle {
	if intensity < 2 {
		return nil
	}
	out := make([]Particle, 0, ExplosionRays*(intensity-1))
	for i := 0; i < ExplosionRays; i++ {
		heading := fullTurn * float64(i) / float64(ExplosionRays-1)
		for k := 1; k < intensity; k++ {
			out = append(out, NewParticle(NewVector(origin.X, origin.Y, heading), float64(k)/10))
		}
	}
	return out
}

// Reset replaces the player and clears whatever the world's policy names.
func (w *World) Reset() {
	score := w.Player.Score
	w.Player = NewPlayer(w.rng, w.Size)
	if !w.Policy.Has(ResetScore) {
		w.Player.Score = score
	}
	if w.Policy.Has(ResetEnemies) {
		clear(w.Enemies)
		w.Enemies = w.Enemies[:0]
	}
	if w.Policy.Has(ResetBullets) {
		clear(w.Bullets)
		w.Bullets = w.Bullets[:0]
	}
	if w.Policy.Has(ResetParticles) {
		clear(w.Particles)
		w.Particles = w.Particles[:0]
	}
	if w.Policy.Has(ResetTimers) {
		w.Timers = Timers{}
	} else {
		// Cooldown mirrors follow the fresh player.
		w.Timers.LastShoot = 0
		w.Timers.LastTailParticle = 0
	}
	w.record(CatWorld, KeyReset, w.Policy.String(), float64(w.Deaths))
}

func (w *World) record(category, key, value string, numVal float64) {
	if w.Log == nil {
		return
	}
	w.Log.Add(w.Tick, w.Timers.CurrentTime, category, key, value, numVal)
}
