package game

import (
	"errors"
	"fmt"
	"strings"
)

// ResetPolicy selects which parts of the world a player death clears.
// The player itself is always replaced with a fresh random one, and the
// shoot and trail cooldowns in Timers go with it since they mirror the
// player's own. ResetTimers governs only the clock and the spawn timer.
type ResetPolicy uint8

const (
	ResetEnemies ResetPolicy = 1 << iota
	ResetBullets
	ResetParticles
	ResetScore
	ResetTimers // clock and spawn timer
)

const (
	// ResetCanonical clears enemies and bullets only. Score, particles and
	// the clock carry over.
	ResetCanonical = ResetEnemies | ResetBullets
	// ResetReplacePlayer also drops the score, as replacing the player
	// wholesale would.
	ResetReplacePlayer = ResetCanonical | ResetScore
	// ResetFull starts the world over except for its size.
	ResetFull = ResetEnemies | ResetBullets | ResetParticles | ResetScore | ResetTimers
)

// ErrUnknownPolicy is returned by ParseResetPolicy for unrecognised names.
var ErrUnknownPolicy = errors.New("unknown reset policy")

var policyNames = []struct {
	flag ResetPolicy
	name string
}{
	{ResetEnemies, "enemies"},
	{ResetBullets, "bullets"},
	{ResetParticles, "particles"},
	{ResetScore, "score"},
	{ResetTimers, "timers"},
}

// Has reports whether every flag in f is set.
func (p ResetPolicy) Has(f ResetPolicy) bool {
	return p&f == f
}

func (p ResetPolicy) String() string {
	switch p {
	case 0:
		return "none"
	case ResetCanonical:
		return "canonical"
	case ResetReplacePlayer:
		return "replace-player"
	case ResetFull:
		return "full"
	}
	var parts []string
	for _, pn := range policyNames {
		if p.Has(pn.flag) {
			parts = append(parts, pn.name)
		}
	}
	return strings.Join(parts, ",")
}

// ParseResetPolicy accepts "canonical", "replace-player", "full", "none", or a comma separated
// list of flag names such as "enemies,bullets,score".
func ParseResetPolicy(s string) (ResetPolicy, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "", "canonical":
		return ResetCanonical, nil
	case "replace-player":
		return ResetReplacePlayer, nil
	case "full":
		return ResetFull, nil
	case "none":
		return 0, nil
	}
	var p ResetPolicy
	for _, raw := range strings.Split(s, ",") {
		name := strings.TrimSpace(strings.ToLower(raw))
		found := false
		for _, pn := range policyNames {
			if pn.name == name {
				p |= pn.flag
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
		}
	}
	return p, nil
}
