package view

import (
	"github.com/Garsondee/rocket/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
)

// controlKeys maps keyboard keys to engine controls.
var controlKeys = map[ebiten.Key]game.Key{
	ebiten.KeyArrowLeft:  game.KeyLeft,
	ebiten.KeyArrowRight: game.KeyRight,
	ebiten.KeyArrowUp:    game.KeyUp,
	ebiten.KeySpace:      game.KeySpace,
}

// TranslateKey returns the engine control bound to k, or game.KeyUnknown.
func TranslateKey(k ebiten.Key) game.Key {
	if gk, ok := controlKeys[k]; ok {
		return gk
	}
	return game.KeyUnknown
}

// applyControls sets every control flag from the currently held keys.
func applyControls(in *game.Intent, held map[ebiten.Key]bool) {
	for k, gk := range controlKeys {
		game.SetKey(in, gk, held[k])
	}
}

// simSpeeds are the selectable speed multipliers; 0 is paused.
var simSpeeds = []float64{0, 0.5, 1, 2, 4}

func slower(cur float64) float64 {
	out := simSpeeds[0]
	for _, s := range simSpeeds {
		if s < cur {
			out = s
		}
	}
	return out
}

func faster(cur float64) float64 {
	for _, s := range simSpeeds {
		if s > cur {
			return s
		}
	}
	return simSpeeds[len(simSpeeds)-1]
}

// pressedNow reports keys that went down since the previous frame.
func pressedNow(cur, prev map[ebiten.Key]bool, k ebiten.Key) bool {
	return cur[k] && !prev[k]
}
