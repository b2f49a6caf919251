package term

import (
	"time"

	"github.com/Garsondee/rocket/internal/game"
	"github.com/gdamore/tcell/v2"
)

// HoldWindow is how long a key press counts as held. Terminals report
// presses (and auto-repeat) but never releases.
const HoldWindow = 150 * time.Millisecond

// Action is a non-control command typed at the terminal.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionPause
	ActionReset
)

// Input turns key presses into held controls.
type Input struct {
	until map[game.Key]time.Time
}

// NewInput returns an Input with nothing held.
func NewInput() *Input {
	return &Input{until: make(map[game.Key]time.Time)}
}

// TranslateKey maps a terminal key to an engine control.
func TranslateKey(key tcell.Key, r rune) game.Key {
	switch key {
	case tcell.KeyLeft:
		return game.KeyLeft
	case tcell.KeyRight:
		return game.KeyRight
	case tcell.KeyUp:
		return game.KeyUp
	case tcell.KeyRune:
		if r == ' ' {
			return game.KeySpace
		}
	}
	return game.KeyUnknown
}

// Press records a key press at now and returns any command it carries.
func (in *Input) Press(key tcell.Key, r rune, now time.Time) Action {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyRune:
		switch r {
		case 'q', 'Q':
			return ActionQuit
		case 'p', 'P':
			return ActionPause
		case 'r', 'R':
			return ActionReset
		}
	}
	if gk := TranslateKey(key, r); gk != game.KeyUnknown {
		in.until[gk] = now.Add(HoldWindow)
	}
	return ActionNone
}

// Apply writes the held state at now into intent. Presses older than
// HoldWindow are released.
func (in *Input) Apply(now time.Time, intent *game.Intent) {
	for _, gk := range []game.Key{game.KeyLeft, game.KeyRight, game.KeyUp, game.KeySpace} {
		exp, ok := in.until[gk]
		held := ok && now.Before(exp)
		if ok && !held {
			delete(in.until, gk)
		}
		game.SetKey(intent, gk, held)
	}
}
