package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Garsondee/rocket/internal/audio"
	"github.com/Garsondee/rocket/internal/config"
	"github.com/Garsondee/rocket/internal/game"
	"github.com/Garsondee/rocket/internal/term"
	"github.com/Garsondee/rocket/internal/trace"
	"github.com/gdamore/tcell/v2"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "rocket-tui: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		return err
	}

	size := game.Size{Width: game.DefaultWorldWidth, Height: game.DefaultWorldHeight}
	session := game.NewSession(size, opts.WorldOptions(game.NewSimLog(false))...)

	runOpts := term.Options{Speed: opts.Speed}
	if opts.Audio {
		cues := audio.NewCuePlayer(0.8)
		if err := cues.Init(); err != nil {
			// Non-fatal, the game can run without sound.
			log.Printf("audio disabled: %v", err)
		} else {
			defer cues.Close()
			runOpts.Cues = cues
		}
	}
	if opts.TracePath != "" {
		rec, err := trace.Create(opts.TracePath, trace.Header{
			Seed:   opts.Seed,
			Policy: opts.Policy.String(),
			Size:   size,
			Every:  game.ReferenceUPS / 10,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				log.Printf("trace: %v", err)
			}
		}()
		runOpts.Recorder = rec
	}

	// Audio and trace report problems on stderr before the screen takes over.
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return term.Run(ctx, screen, session, runOpts)
}
