package parameter

import "time"

// Game Loop & Engine Timing
const (
	// GameUpdateInterval is the game logic tick, also the replay step duration
	GameUpdateInterval = 16 * time.Millisecond

	// SchedulerInboxSize bounds closures posted to the tick goroutine between ticks
	SchedulerInboxSize = 256
)

// Round lifecycle timing
const (
	// LostReplayDelay is the pause between losing and the instant replay
	LostReplayDelay = time.Second

	// ReplayRestartDelay pads the end of a replay before returning to PreGame
	ReplayRestartDelay = 500 * time.Millisecond
)

// Input timing
const (
	// KeyReleaseAfter is how long a key counts as held without a repeat event
	// Terminals report no key-up, so release is inferred from auto-repeat going quiet
	KeyReleaseAfter = 300 * time.Millisecond
)
