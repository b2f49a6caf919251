package game

import (
	"fmt"
	"sort"
	"strings"
)

// PlayerView is the renderable part of the player.
type PlayerView struct {
	Vector Vector  `msgpack:"v"`
	Radius float64 `msgpack:"r"`
	Score  uint32  `msgpack:"s"`
}

// CircleView is a collidable entity as the renderer sees it.
type CircleView struct {
	Vector Vector  `msgpack:"v"`
	Radius float64 `msgpack:"r"`
}

// ParticleView is a particle as the renderer sees it.
type ParticleView struct {
	Vector Vector  `msgpack:"v"`
	TTL    float64 `msgpack:"t"`
}

// Snapshot is a read-only copy of a world between updates. It shares no
// memory with the world it was taken from.
type Snapshot struct {
	Tick      int            `msgpack:"tick"`
	Time      float64        `msgpack:"time"`
	Size      Size           `msgpack:"size"`
	Player    PlayerView     `msgpack:"player"`
	Enemies   []CircleView   `msgpack:"enemies"`
	Bullets   []CircleView   `msgpack:"bullets"`
	Particles []ParticleView `msgpack:"particles"`
}

// Snapshot copies the renderable state of the world.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Tick: w.Tick,
		Time: w.Timers.CurrentTime,
		Size: w.Size,
		Player: PlayerView{
			Vector: w.Player.Vector,
			Radius: w.Player.Radius,
			Score:  w.Player.Score,
		},
		Enemies:   make([]CircleView, len(w.Enemies)),
		Bullets:   make([]CircleView, len(w.Bullets)),
		Particles: make([]ParticleView, len(w.Particles)),
	}
	for i, e := range w.Enemies {
		s.Enemies[i] = CircleView{Vector: e.Vector, Radius: e.Radius}
	}
	for i, b := range w.Bullets {
		s.Bullets[i] = CircleView{Vector: b.Vector, Radius: b.Radius}
	}
	for i, p := range w.Particles {
		s.Particles[i] = ParticleView{Vector: p.Vector, TTL: p.TTL}
	}
	return s
}

// ParticleDrawRadius is the on-screen radius of a particle with the given ttl.
func ParticleDrawRadius(ttl float64) float64 {
	return 5 * ttl
}

// ScoreText is the HUD label for a score.
func ScoreText(score uint32) string {
	return fmt.Sprintf("Score: %d", score)
}

// Report renders the snapshot as plain text for pasting into bug reports.
// Only the nearest maxEnemies enemies are listed; pass 0 for all.
func (s Snapshot) Report(maxEnemies int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Rocket world report ---\n")
	fmt.Fprintf(&b, "tick=%d time=%.3fs size=%.0fx%.0f\n", s.Tick, s.Time, s.Size.Width, s.Size.Height)
	fmt.Fprintf(&b, "player pos=%s dir=%.3f score=%d\n",
		posString(s.Player.Vector), s.Player.Vector.Direction, s.Player.Score)
	fmt.Fprintf(&b, "counts: enemies=%d bullets=%d particles=%d\n\n",
		len(s.Enemies), len(s.Bullets), len(s.Particles))

	if len(s.Enemies) == 0 {
		b.WriteString("enemies: none\n")
		return b.String()
	}

	idx := nearestFirst(s.Enemies, s.Player.Vector)
	if maxEnemies > 0 && len(idx) > maxEnemies {
		idx = idx[:maxEnemies]
	}
	b.WriteString("enemies (nearest first):\n")
	for _, i := range idx {
		e := s.Enemies[i]
		fmt.Fprintf(&b, "  - %s dist²=%.0f\n", posString(e.Vector), SquaredDistance(e.Vector, s.Player.Vector))
	}
	return b.String()
}

// nearestFirst returns enemy indices ordered by distance to from.
func nearestFirst(enemies []CircleView, from Vector) []int {
	idx := make([]int, len(enemies))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return SquaredDistance(enemies[idx[a]].Vector, from) < SquaredDistance(enemies[idx[b]].Vector, from)
	})
	return idx
}
