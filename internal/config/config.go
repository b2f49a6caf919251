// Package config loads the runtime options shared by the rocket binaries.
//
// Values come from three layers, lowest priority first: built-in defaults,
// environment variables (optionally seeded from a .env file), and command
// line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/Garsondee/rocket/internal/game"
	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvSeed   = "ROCKET_SEED"
	EnvPolicy = "ROCKET_RESET_POLICY"
	EnvAudio  = "ROCKET_AUDIO"
	EnvSpeed  = "ROCKET_SPEED"
	EnvTrace  = "ROCKET_TRACE"
)

// DefaultEnvFile is read when present.
const DefaultEnvFile = ".env"

var (
	// ErrUnknownPolicy is returned for reset policy names that do not parse.
	ErrUnknownPolicy = game.ErrUnknownPolicy
	// ErrBadValue is returned for malformed numeric or boolean settings.
	ErrBadValue = errors.New("bad config value")
)

// Options are runtime settings. Gameplay constants live in the game package.
type Options struct {
	Seed      int64 // 0 seeds from the clock
	Policy    game.ResetPolicy
	Audio     bool
	Speed     float64 // sim speed multiplier; 0 starts paused
	TracePath string  // msgpack snapshot trace, empty disables
}

// Default returns the options used when nothing is configured.
func Default() Options {
	return Options{
		Policy: game.ResetCanonical,
		Audio:  true,
		Speed:  1,
	}
}

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// EnvLookup returns a lookup over the process environment backed by the
// given .env files. Process variables win over file values and earlier files
// win over later ones, matching godotenv.Load. Missing files are skipped.
func EnvLookup(files ...string) (LookupFunc, error) {
	vals := map[string]string{}
	for _, f := range files {
		m, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		for k, v := range m {
			if _, ok := vals[k]; !ok {
				vals[k] = v
			}
		}
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vals[key]
		return v, ok
	}, nil
}

// FromEnv overlays environment settings onto base.
func FromEnv(base Options, lookup LookupFunc) (Options, error) {
	o := base
	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return base, fmt.Errorf("%s=%q: %w", EnvSeed, v, ErrBadValue)
		}
		o.Seed = seed
	}
	if v, ok := lookup(EnvPolicy); ok && v != "" {
		p, err := game.ParseResetPolicy(v)
		if err != nil {
			return base, fmt.Errorf("%s: %w", EnvPolicy, err)
		}
		o.Policy = p
	}
	if v, ok := lookup(EnvAudio); ok && v != "" {
		on, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return base, fmt.Errorf("%s=%q: %w", EnvAudio, v, ErrBadValue)
		}
		o.Audio = on
	}
	if v, ok := lookup(EnvSpeed); ok && v != "" {
		s, err := parseSpeed(v)
		if err != nil {
			return base, fmt.Errorf("%s: %w", EnvSpeed, err)
		}
		o.Speed = s
	}
	if v, ok := lookup(EnvTrace); ok {
		o.TracePath = strings.TrimSpace(v)
	}
	return o, nil
}

// BindCore registers the flags every binary understands: seed, reset
// policy and trace path. Current values of o become the flag defaults.
func BindCore(flags *flag.FlagSet, o *Options) {
	flags.Int64Var(&o.Seed, "seed", o.Seed, "RNG seed (0 = time based)")
	flags.Var((*policyValue)(&o.Policy), "reset-policy",
		"what a player death clears: canonical, replace-player, full or a comma list of enemies,bullets,particles,score,timers")
	flags.StringVar(&o.TracePath, "trace", o.TracePath, "write a msgpack snapshot trace to this file")
}

// Bind registers BindCore plus the interactive flags.
func Bind(flags *flag.FlagSet, o *Options) {
	BindCore(flags, o)
	flags.BoolVar(&o.Audio, "audio", o.Audio, "play sound cues")
	flags.Var((*speedValue)(&o.Speed), "speed", "simulation speed multiplier (0 = start paused)")
}

// Load resolves options for an interactive binary: defaults, then
// DefaultEnvFile and the environment, then args parsed with flags.
func Load(flags *flag.FlagSet, args []string) (Options, error) {
	return LoadWith(flags, args, Bind)
}

// LoadWith is Load with a custom flag binding.
func LoadWith(flags *flag.FlagSet, args []string, bind func(*flag.FlagSet, *Options)) (Options, error) {
	lookup, err := EnvLookup(DefaultEnvFile)
	if err != nil {
		return Options{}, fmt.Errorf("config: %w", err)
	}
	o, err := FromEnv(Default(), lookup)
	if err != nil {
		return Options{}, fmt.Errorf("config: %w", err)
	}
	bind(flags, &o)
	if err := flags.Parse(args); err != nil {
		return Options{}, fmt.Errorf("config: %w", err)
	}
	return o, nil
}

// WorldOptions returns the engine options implied by o, recording events
// to log.
func (o Options) WorldOptions(log *game.SimLog) []game.WorldOption {
	opts := []game.WorldOption{game.WithResetPolicy(o.Policy), game.WithSimLog(log)}
	if o.Seed != 0 {
		opts = append(opts, game.WithSeed(o.Seed))
	}
	return opts
}

func parseSpeed(v string) (float64, error) {
	s, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || s < 0 {
		return 0, fmt.Errorf("speed %q: %w", v, ErrBadValue)
	}
	return s, nil
}

type policyValue game.ResetPolicy

func (p *policyValue) String() string { return game.ResetPolicy(*p).String() }

func (p *policyValue) Set(s string) error {
	v, err := game.ParseResetPolicy(s)
	if err != nil {
		return err
	}
	*p = policyValue(v)
	return nil
}

type speedValue float64

func (s *speedValue) String() string { return strconv.FormatFloat(float64(*s), 'g', -1, 64) }

func (s *speedValue) Set(v string) error {
	f, err := parseSpeed(v)
	if err != nil {
		return err
	}
	*s = speedValue(f)
	return nil
}
