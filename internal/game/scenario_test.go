package game

import (
	"math"
	"testing"
)

// checkStepInvariants verifies what must hold after every completed update.
func checkStepInvariants(t *testing.T, ts *TestSim) {
	t.Helper()
	w := ts.World
	for _, p := range w.Particles {
		if p.TTL <= 0 {
			t.Fatalf("T=%d: particle with ttl %.4f survived", w.Tick, p.TTL)
		}
	}
	for _, b := range w.Bullets {
		if !w.Size.Contains(b.Vector) {
			t.Fatalf("T=%d: bullet outside playfield at %+v", w.Tick, b.Vector)
		}
	}
	pv := w.Player.Vector
	if pv.X < 0 || pv.X >= w.Size.Width || pv.Y < 0 || pv.Y >= w.Size.Height {
		t.Fatalf("T=%d: player escaped the torus at %+v", w.Tick, pv)
	}
}

func TestScenario_ChasePilotInvariants(t *testing.T) {
	ts := NewTestSim(WithSimSeed(42), WithPilot(ChasePilot))
	for i := 0; i < 20*ReferenceUPS; i++ {
		ts.Step()
		checkStepInvariants(t, ts)
		if got, want := ts.World.Player.Score, uint32(ScorePerKill*ts.World.Kills); got != want {
			t.Fatalf("T=%d: canonical policy keeps score: expected %d, got %d", ts.World.Tick, want, got)
		}
	}

	spawns := ts.SimLog.CountCategory(CatSpawn, KeyEnemySpawn)
	if spawns < 8 || spawns > 10 {
		t.Fatalf("expected one spawn per %.0fs over 20s (8..10), got %d", EnemySpawnPeriod, spawns)
	}
	if ts.SimLog.CountCategory(CatFire, KeyBulletFired) == 0 {
		t.Fatalf("chase pilot never fired; log:\n%s", ts.SimLog.Format())
	}
	if got := ts.SimLog.CountCategory(CatCombat, KeyPlayerDeath); got != ts.World.Deaths {
		t.Fatalf("death events %d do not match counter %d", got, ts.World.Deaths)
	}
	t.Logf("kills=%d deaths=%d score=%d", ts.World.Kills, ts.World.Deaths, ts.World.Player.Score)
}

func TestScenario_IdlePlayerIsEventuallyCaught(t *testing.T) {
	ts := NewTestSim(WithSimSeed(7), WithPilot(IdlePilot))
	tick := ts.RunUntil(func(ts *TestSim) bool { return ts.World.Deaths > 0 }, 120*ReferenceUPS)
	if tick < 0 {
		t.Fatalf("expected the pursuing enemies to catch an idle player within 120s")
	}
	if len(ts.World.Enemies) != 0 {
		t.Fatalf("expected enemies cleared on death, got %d", len(ts.World.Enemies))
	}
}

func TestScenario_TTLDecreasesByDT(t *testing.T) {
	ts := NewTestSim(WithClock(0, 0), WithQuietSpawner(), WithParticleAt(50, 50, 0, 0.45))
	prev := ts.World.Particles[0].TTL
	for ts.World.Tick < 30 {
		ts.Step()
		// Filtering keeps order, so the seeded particle stays at the front.
		got := ts.World.Particles[0].TTL
		if math.Abs(prev-ts.DT-got) > 1e-9 {
			t.Fatalf("T=%d: expected ttl %.6f, got %.6f", ts.World.Tick, prev-ts.DT, got)
		}
		prev = got
	}
}
