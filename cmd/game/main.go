package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Ember-Range/internal/audio"
	"github.com/Garsondee/Ember-Range/internal/config"
	"github.com/Garsondee/Ember-Range/internal/game"
	"github.com/Garsondee/Ember-Range/internal/history"
	"github.com/Garsondee/Ember-Range/internal/logging"
)

func main() {
	configDir := flag.String("config", ".", "directory holding "+config.FileName)
	flag.Parse()

	if err := run(*configDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configDir string) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}

	var logFile io.Writer
	if f, err := logging.OpenFile(cfg.LogFile); err != nil {
		return fmt.Errorf("open log file: %w", err)
	} else if f != nil {
		defer f.Close()
		logFile = f
	}
	log := logging.New(cfg.LogLevel, logFile)

	sound := audio.New(cfg.Audio.AssetsDir, cfg.Audio.Enabled, log.With().Str("component", "audio").Logger())
	defer sound.Close()
	sound.Alias(game.GunshotSound, cfg.Audio.Gunshot)

	var onOutcome func(game.Summary)
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path, log.With().Str("component", "history").Logger())
		if err != nil {
			return err
		}
		defer store.Close()
		onOutcome = func(s game.Summary) {
			if _, err := store.Record(context.Background(), history.FromSummary("game", s)); err != nil {
				log.Error().Err(err).Msg("history write failed")
			}
		}
	}

	g, err := game.New(game.Options{
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Seed:       cfg.Sim.Seed,
		Tuning:     cfg.Tuning(),
		ScenePath:  cfg.Scene.Path,
		SceneSound: sound,
		Effects:    sound,
		Log:        log,
		OnOutcome:  onOutcome,
	})
	if err != nil {
		return err
	}

	log.Info().Int64("seed", cfg.Sim.Seed).Str("scene", cfg.Scene.Path).Msg("starting Ember Range")
	ebiten.SetWindowTitle("Ember Range")
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	return ebiten.RunGame(g)
}
