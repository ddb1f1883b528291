package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/vi-pong/audio"
	"github.com/lixenwraith/vi-pong/config"
	"github.com/lixenwraith/vi-pong/core"
	"github.com/lixenwraith/vi-pong/engine"
	"github.com/lixenwraith/vi-pong/game"
	"github.com/lixenwraith/vi-pong/history"
	"github.com/lixenwraith/vi-pong/parameter"
	"github.com/lixenwraith/vi-pong/render"
	"github.com/lixenwraith/vi-pong/status"
)

var version = "dev"

func main() {
	// Panic Recovery: Ensure terminal is reset even if the game crashes
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(2)
	}

	logger, logFile := setupLogging(cfg.Debug)
	if logFile != nil {
		defer logFile.Close()
	}

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("Exited with error")
		fmt.Fprintf(os.Stderr, "vi-pong: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *logrus.Logger) error {
	if err := core.InitReporting(cfg.SentryDSN, "vi-pong@"+version); err != nil {
		logger.WithError(err).Warn("Crash reporting disabled")
	}
	defer core.FlushReporting(2 * time.Second)

	if cfg.StatsView {
		stop := launchStatsView(logger)
		defer stop()
	}

	var recorder game.Recorder
	if cfg.HistoryPath != "" {
		store, err := history.Open(cfg.HistoryPath)
		if err != nil {
			// Non-fatal, the game runs without history
			logger.WithError(err).Warn("Round history disabled")
		} else {
			defer store.Close()
			recorder = store
			logBest(store, logger)
		}
	}

	var sounds game.Sounds
	if cfg.Sound {
		sm := audio.NewSoundManager()
		if err := sm.Initialize(); err != nil {
			// Non-fatal, game can run without sound
			logger.WithError(err).Warn("Audio initialization failed")
		} else {
			defer sm.Cleanup()
			sounds = sm
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	core.SetCrashScreen(screen)

	quit := make(chan struct{})
	var quitOnce sync.Once
	// Called on the tick goroutine, so it must not stop the scheduler itself
	requestQuit := func() { quitOnce.Do(func() { close(quit) }) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := status.NewRegistry()
	sched := engine.NewClockScheduler(cfg.TickInterval)
	session := game.NewSession(ctx, sched, cfg.SessionOptions(), game.Deps{
		Log:      logger,
		Metrics:  metrics,
		Sounds:   sounds,
		Recorder: recorder,
		OnQuit:   requestQuit,
	})
	defer session.Close()

	overlay := render.NewOverlay()
	overlay.Bind(session.Machine())
	renderer := render.NewRenderer(screen)

	session.Start()
	sched.Start()
	defer sched.Stop()

	// Input polling interacts directly with the terminal
	events := make(chan tcell.Event, parameter.SchedulerInboxSize)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	})

	frameTicker := time.NewTicker(cfg.FrameInterval)
	defer frameTicker.Stop()

	for {
		select {
		case <-quit:
			logger.Info("Quit requested")
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !session.PostKey(ev) {
					logger.Debug("Key dropped, scheduler inbox full")
				}
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventError:
				return fmt.Errorf("terminal: %w", ev)
			}

		case <-frameTicker.C:
			var frame game.Frame
			sched.RunSafe(func() {
				frame = session.Snapshot()
			})
			renderer.Draw(frame, overlay.Texts(), metrics.Line(
				status.KeyRounds,
				status.KeyReplayVerified,
				status.KeyCaptureBall,
				status.KeyCaptureInput,
			))
		}
	}
}

// logBest logs the longest recorded round, if any
func logBest(store *history.Store, logger logrus.FieldLogger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	best, err := store.Best(ctx)
	switch {
	case errors.Is(err, history.ErrNotFound):
		return
	case err != nil:
		logger.WithError(err).Warn("Unable to read best round")
	default:
		logger.WithFields(logrus.Fields{
			"duration":   best.Duration,
			"difficulty": best.Difficulty,
			"at":         best.StartedAt.Format(time.DateTime),
		}).Info("Best round so far")
	}
}
