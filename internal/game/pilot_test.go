package game

import (
	"math"
	"testing"
)

func TestAngleDiff(t *testing.T) {
	cases := []struct {
		a, b, want float64
	}{
		{0.5, 0, 0.5},
		{0, 0.5, -0.5},
		{math.Pi - 0.1, -math.Pi + 0.1, -0.2},
		{-0.25, 4 * math.Pi, -0.25},
	}
	for _, c := range cases {
		if got := AngleDiff(c.a, c.b); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("AngleDiff(%.3f, %.3f) = %.4f, want %.4f", c.a, c.b, got, c.want)
		}
	}
}

func TestChasePilot(t *testing.T) {
	ts := NewTestSim(WithPlayerAt(100, 100, 0), WithEnemyAt(100, 300))
	in := ChasePilot(ts.World)
	if !in.RotateRight || in.RotateLeft || in.Shoot {
		t.Fatalf("enemy below: expected turn right without firing, got %s", in)
	}

	ts = NewTestSim(WithPlayerAt(100, 100, 0), WithEnemyAt(400, 102))
	in = ChasePilot(ts.World)
	if !in.Shoot || in.Boost {
		t.Fatalf("enemy ahead and far: expected fire without boost, got %s", in)
	}

	ts = NewTestSim(WithPlayerAt(100, 100, 0), WithEnemyAt(150, 100))
	in = ChasePilot(ts.World)
	if !in.Boost {
		t.Fatalf("enemy close: expected boost, got %s", in)
	}

	if got := ChasePilot(NewTestSim().World); got != (Intent{}) {
		t.Fatalf("no enemies: expected idle, got %s", got)
	}
	if got := IdlePilot(ts.World); got != (Intent{}) {
		t.Fatalf("idle pilot held %s", got)
	}
}
