package game

import "math"

// Pilot tuning for the scripted runs.
const (
	aimTolerance  = 0.15 // radians either side of the target bearing
	dangerRadius  = 80.0 // boost away once an enemy is this close
	steerDeadzone = 0.02
)

// IdlePilot holds no controls.
func IdlePilot(*World) Intent {
	return Intent{}
}

// ChasePilot turns toward the nearest enemy, fires when lined up and boosts
// when something gets too close.
func ChasePilot(w *World) Intent {
	target, ok := nearestEnemy(w)
	if !ok {
		return Intent{}
	}
	p := w.Player.Vector
	bearing := math.Atan2(target.Y-p.Y, target.X-p.X)
	diff := AngleDiff(bearing, p.Direction)

	var in Intent
	switch {
	case diff > steerDeadzone:
		in.RotateRight = true
	case diff < -steerDeadzone:
		in.RotateLeft = true
	}
	in.Shoot = math.Abs(diff) < aimTolerance
	in.Boost = SquaredDistance(p, target) < dangerRadius*dangerRadius
	return in
}

// AngleDiff returns a-b folded into (-π, π].
func AngleDiff(a, b float64) float64 {
	d := math.Mod(a-b, fullTurn)
	if d <= -math.Pi {
		d += fullTurn
	} else if d > math.Pi {
		d -= fullTurn
	}
	return d
}

func nearestEnemy(w *World) (Vector, bool) {
	best := math.Inf(1)
	var out Vector
	for _, e := range w.Enemies {
		if d := SquaredDistance(w.Player.Vector, e.Vector); d < best {
			best = d
			out = e.Vector
		}
	}
	return out, len(w.Enemies) > 0
}
