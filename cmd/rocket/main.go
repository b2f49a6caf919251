package main

import (
	"flag"
	"log"
	"os"

	"github.com/Garsondee/rocket/internal/audio"
	"github.com/Garsondee/rocket/internal/config"
	"github.com/Garsondee/rocket/internal/game"
	"github.com/Garsondee/rocket/internal/trace"
	"github.com/Garsondee/rocket/internal/view"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	opts, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		return err
	}

	var extra []view.Option
	if opts.Audio {
		cues := audio.NewCuePlayer(0.8)
		if err := cues.Init(); err != nil {
			// Non-fatal, the game runs without sound.
			log.Printf("audio disabled: %v", err)
		} else {
			defer cues.Close()
			extra = append(extra, view.WithCues(cues))
		}
	}
	if opts.TracePath != "" {
		rec, err := trace.Create(opts.TracePath, trace.Header{
			Seed:   opts.Seed,
			Policy: opts.Policy.String(),
			Size:   game.Size{Width: game.DefaultWorldWidth, Height: game.DefaultWorldHeight},
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
		extra = append(extra, view.WithRecorder(rec))
	}

	g := view.New(opts, extra...)
	ebiten.SetWindowTitle("Rocket")
	ebiten.SetWindowSize(g.Layout(0, 0))
	ebiten.SetTPS(game.ReferenceUPS)
	return ebiten.RunGame(g)
}
