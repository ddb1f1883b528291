package game

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/vi-pong/gamestate"
	"github.com/lixenwraith/vi-pong/parameter"
)

// Frame is a read-only copy of everything the renderer draws
// Taken under the scheduler lock so the render goroutine never touches live state
type Frame struct {
	State gamestate.State
	Tick  uint64

	Width, Height float32

	Ball       mgl32.Vec2
	BallHalf   mgl32.Vec2
	Player     mgl32.Vec2
	AI         mgl32.Vec2
	PaddleHalf mgl32.Vec2

	Difficulty parameter.Difficulty
	RoundTime  time.Duration

	// Replay progress, zero outside ReplayRunning
	ReplayClock   time.Duration
	ReplayPending int
}
