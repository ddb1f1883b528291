// Package config loads runtime settings from the environment and command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/lixenwraith/vi-pong/game"
	"github.com/lixenwraith/vi-pong/parameter"
)

// Config holds every runtime setting, flags override the environment
type Config struct {
	Difficulty    string        `env:"VI_PONG_DIFFICULTY"     envDefault:"medium"`
	TickInterval  time.Duration `env:"VI_PONG_TICK_INTERVAL"  envDefault:"16ms"`
	FrameInterval time.Duration `env:"VI_PONG_FRAME_INTERVAL" envDefault:"16ms"`
	ReplayDelay   time.Duration `env:"VI_PONG_REPLAY_DELAY"   envDefault:"1s"`
	RestartDelay  time.Duration `env:"VI_PONG_RESTART_DELAY"  envDefault:"500ms"`
	ReleaseAfter  time.Duration `env:"VI_PONG_RELEASE_AFTER"  envDefault:"300ms"`
	AutoServe     time.Duration `env:"VI_PONG_AUTO_SERVE"     envDefault:"0s"`
	Sound         bool          `env:"VI_PONG_SOUND"          envDefault:"true"`
	HistoryPath   string        `env:"VI_PONG_HISTORY_PATH"`
	Debug         bool          `env:"VI_PONG_DEBUG"`
	StatsView     bool          `env:"VI_PONG_STATSVIEW"`
	SentryDSN     string        `env:"SENTRY_DSN"`
}

// Load parses the process environment
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// LoadFrom parses the given variables instead of the process environment
func LoadFrom(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// RegisterFlags binds flags to the config fields, current values become the flag defaults
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Difficulty, "difficulty", c.Difficulty, "Difficulty: easy, medium or hard")
	fs.DurationVar(&c.TickInterval, "tick", c.TickInterval, "Simulation tick interval")
	fs.DurationVar(&c.FrameInterval, "frame", c.FrameInterval, "Render frame interval")
	fs.DurationVar(&c.ReplayDelay, "replay-delay", c.ReplayDelay, "Pause between losing and the replay")
	fs.DurationVar(&c.RestartDelay, "restart-delay", c.RestartDelay, "Pause after the replay before the next round")
	fs.DurationVar(&c.ReleaseAfter, "release-after", c.ReleaseAfter, "Treat a paddle key as released after this long without repeats")
	fs.DurationVar(&c.AutoServe, "auto-serve", c.AutoServe, "Serve automatically after this long, 0 waits for space")
	fs.BoolVar(&c.Sound, "sound", c.Sound, "Enable sound effects")
	fs.StringVar(&c.HistoryPath, "history", c.HistoryPath, "SQLite file for round history, empty disables it")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Write debug logs to logs/vi-pong.log")
	fs.BoolVar(&c.StatsView, "statsview", c.StatsView, "Serve runtime charts on localhost:18066")
	fs.StringVar(&c.SentryDSN, "sentry-dsn", c.SentryDSN, "Report crashes to this Sentry DSN")
}

// DifficultyLevel parses the configured difficulty name
func (c Config) DifficultyLevel() parameter.Difficulty {
	return parameter.ParseDifficulty(c.Difficulty)
}

// Validate rejects settings the engine cannot run with
func (c Config) Validate() error {
	var errs []error
	if c.DifficultyLevel() == parameter.DifficultyInvalid {
		errs = append(errs, fmt.Errorf("unknown difficulty %q", c.Difficulty))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick interval must be positive, got %v", c.TickInterval))
	}
	if c.FrameInterval <= 0 {
		errs = append(errs, fmt.Errorf("frame interval must be positive, got %v", c.FrameInterval))
	}
	for name, d := range map[string]time.Duration{
		"replay delay":  c.ReplayDelay,
		"restart delay": c.RestartDelay,
		"release after": c.ReleaseAfter,
		"auto serve":    c.AutoServe,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %v", name, d))
		}
	}
	return errors.Join(errs...)
}

// SessionOptions maps the config onto session options
func (c Config) SessionOptions() game.Options {
	return game.Options{
		Difficulty:   c.DifficultyLevel(),
		ReplayDelay:  c.ReplayDelay,
		RestartDelay: c.RestartDelay,
		ReleaseAfter: c.ReleaseAfter,
		AutoServe:    c.AutoServe,
	}
}
