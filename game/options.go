package game

import (
	"time"

	"github.com/lixenwraith/vi-pong/parameter"
)

// Options tunes a session, zero durations fall back to the defaults
type Options struct {
	Difficulty parameter.Difficulty

	// ReplayDelay is the pause between Lost and ReplayRunning
	ReplayDelay time.Duration
	// RestartDelay pads the end of a replay before PreGame
	RestartDelay time.Duration
	// ReleaseAfter is the key hold timeout for terminals without key-up events
	ReleaseAfter time.Duration
	// AutoServe starts the round on its own after this long in PreGame, 0 waits for serve
	AutoServe time.Duration
}

// DefaultOptions returns medium difficulty with the standard round timing
func DefaultOptions() Options {
	return Options{
		Difficulty:   parameter.DifficultyMedium,
		ReplayDelay:  parameter.LostReplayDelay,
		RestartDelay: parameter.ReplayRestartDelay,
		ReleaseAfter: parameter.KeyReleaseAfter,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ReplayDelay <= 0 {
		o.ReplayDelay = d.ReplayDelay
	}
	if o.RestartDelay <= 0 {
		o.RestartDelay = d.RestartDelay
	}
	if o.ReleaseAfter <= 0 {
		o.ReleaseAfter = d.ReleaseAfter
	}
	return o
}
