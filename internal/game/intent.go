package game

import "strings"

// Intent is the set of held controls for the next update. Front-ends write it;
// the engine only reads it.
type Intent struct {
	RotateLeft  bool
	RotateRight bool
	Boost       bool
	Shoot       bool
}

// Key is a platform-neutral identifier for the mapped controls.
type Key int

const (
	KeyUnknown Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeySpace
)

func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyUp:
		return "up"
	case KeySpace:
		return "space"
	default:
		return "unknown"
	}
}

// SetKey records a press or release of key. Unmapped keys are ignored.
func SetKey(in *Intent, key Key, pressed bool) {
	switch key {
	case KeyLeft:
		in.RotateLeft = pressed
	case KeyRight:
		in.RotateRight = pressed
	case KeyUp:
		in.Boost = pressed
	case KeySpace:
		in.Shoot = pressed
	}
}

// String lists the held flags, e.g. "left+shoot", or "idle".
func (in Intent) String() string {
	var held []string
	if in.RotateLeft {
		held = append(held, "left")
	}
	if in.RotateRight {
		held = append(held, "right")
	}
	if in.Boost {
		held = append(held, "boost")
	}
	if in.Shoot {
		held = append(held, "shoot")
	}
	if len(held) == 0 {
		return "idle"
	}
	return strings.Join(held, "+")
}
