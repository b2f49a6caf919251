package game

import (
	"math"
	"math/rand"
)

// Size is a region in world space, anchored at the origin.
type Size struct {
	Width  float64 `msgpack:"w"`
	Height float64 `msgpack:"h"`
}

// Vector is a position plus a heading in radians. It carries no speed;
// callers supply the distance to travel on each call.
type Vector struct {
	X         float64 `msgpack:"x"`
	Y         float64 `msgpack:"y"`
	Direction float64 `msgpack:"d"`
}

// NewVector returns a vector at (x,y) facing direction.
func NewVector(x, y, direction float64) Vector {
	return Vector{X: x, Y: y, Direction: direction}
}

// RandomVector returns a vector placed uniformly inside bounds.
func RandomVector(rng *rand.Rand, direction float64, bounds Size) Vector {
	return Vector{
		X:         rng.Float64() * bounds.Width,
		Y:         rng.Float64() * bounds.Height,
		Direction: direction,
	}
}

// Wrap folds value back into [0, bound) with a single correction.
// Displacements larger than one bound length are not handled.
func Wrap(value, bound float64) float64 {
	switch {
	case value < 0:
		// A sub-ulp negative rounds up to bound itself.
		if r := value + bound; r < bound {
			return r
		}
		return 0
	case value >= bound:
		return value - bound
	default:
		return value
	}
}

// Advance moves the vector units along its heading.
func (v *Vector) Advance(units float64) {
	v.X += math.Cos(v.Direction) * units
	v.Y += math.Sin(v.Direction) * units
}

// AdvanceWrapping advances and then wraps both axes independently.
func (v *Vector) AdvanceWrapping(units float64, bounds Size) {
	v.Advance(units)
	v.X = Wrap(v.X, bounds.Width)
	v.Y = Wrap(v.Y, bounds.Height)
}

// SquaredDistance avoids the square root on the collision path.
func SquaredDistance(a, b Vector) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// Collides reports whether two circles overlap. Touching circles do not collide.
func Collides(a Vector, ra float64, b Vector, rb float64) bool {
	radii := ra + rb
	return SquaredDistance(a, b) < radii*radii
}

// Contains reports whether v lies inside the size, edges included.
func (s Size) Contains(v Vector) bool {
	return 0 <= v.X && v.X <= s.Width &&
		0 <= v.Y && v.Y <= s.Height
}

// PointTo turns the vector to face target.
func (v *Vector) PointTo(target Vector) {
	v.Direction = math.Atan2(target.Y-v.Y, target.X-v.X)
}

// Rotate spins the (x,y) point about the origin. Direction is untouched.
func (v *Vector) Rotate(radians float64) {
	radius := math.Hypot(v.X, v.Y)
	angle := math.Atan2(v.Y, v.X) + radians
	v.X = math.Cos(angle) * radius
	v.Y = math.Sin(angle) * radius
}

// Translate offsets the position by other's position.
func (v *Vector) Translate(other Vector) {
	v.X += other.X
	v.Y += other.Y
}

// Invert turns the heading around.
func (v *Vector) Invert() {
	v.Direction -= math.Pi
}
