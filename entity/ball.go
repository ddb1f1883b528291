package entity

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/vi-pong/gamestate"
	"github.com/lixenwraith/vi-pong/memento"
	"github.com/lixenwraith/vi-pong/physics"
)

// BallState is the snapshot payload of the ball stream
type BallState struct {
	Position mgl32.Vec2
	Velocity mgl32.Vec2
}

// EncodeBallState appends the little-endian float32 bits of s to dst
func EncodeBallState(dst []byte, s BallState) []byte {
	for _, f := range [4]float32{s.Position.X(), s.Position.Y(), s.Velocity.X(), s.Velocity.Y()} {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}

// Ball is the ball scene object and the originator of the ball stream
type Ball struct {
	SceneObject

	speed   float32
	profile *physics.BounceProfile
	clock   Clock
	capture func(memento.Memento[BallState])

	machine *gamestate.Machine
	lastHit time.Duration
	hasHit  bool
}

// NewBall creates a ball at spawn moving at speed once served
// capture receives a snapshot on every accepted paddle hit
func NewBall(spawn mgl32.Vec2, halfSize, speed float32, clock Clock, capture func(memento.Memento[BallState])) *Ball {
	return &Ball{
		SceneObject: newSceneObject(spawn, mgl32.Vec2{halfSize, halfSize}),
		speed:       speed,
		profile:     &physics.PaddleBounce,
		clock:       clock,
		capture:     capture,
	}
}

// Bind subscribes the ball to state notifications
//
//	PreGame:       reset and freeze
//	InGame:        reset and serve
//	Lost:          freeze
//	ReplayRunning: reset (the replay serves it)
func (b *Ball) Bind(m *gamestate.Machine) {
	b.machine = m
	b.subscribe(m, gamestate.PreGame, b.Reset)
	b.subscribe(m, gamestate.PreGame, b.Freeze)
	b.subscribe(m, gamestate.InGame, b.Reset)
	b.subscribe(m, gamestate.InGame, b.MoveToStart)
	b.subscribe(m, gamestate.Lost, b.Freeze)
	b.subscribe(m, gamestate.ReplayRunning, b.Reset)
}

// Speed returns the configured ball speed
func (b *Ball) Speed() float32 {
	return b.speed
}

// Reset returns the ball to its spawn point and clears the hit cooldown
func (b *Ball) Reset() {
	b.SceneObject.Reset()
	b.hasHit = false
}

// MoveToStart serves the ball straight toward the player
func (b *Ball) MoveToStart() {
	physics.SetImpulse(&b.Body, mgl32.Vec2{0, -b.speed})
}

// Update integrates the ball over dt
func (b *Ball) Update(dt time.Duration) {
	physics.Integrate(&b.Body, dt)
}

// OnCollision applies the paddle bounce and captures a snapshot
// Returns false without touching the ball during replay or within the hit cooldown
func (b *Ball) OnCollision(hitter *physics.Body) bool {
	if b.machine != nil && b.machine.State() == gamestate.ReplayRunning {
		return false
	}

	now := b.clock()
	if b.hasHit && now-b.lastHit <= b.profile.Cooldown {
		return false
	}

	b.Body.Velocity = b.profile.Bounce(b.Body.Velocity, hitter.Velocity, b.speed)
	b.lastHit = now
	b.hasHit = true

	if b.capture != nil {
		b.capture(b.CreateMemento())
	}
	return true
}

// CreateMemento snapshots position and velocity at the current round time
func (b *Ball) CreateMemento() memento.Memento[BallState] {
	return memento.New(BallState{Position: b.Body.Position, Velocity: b.Body.Velocity}, b.clock())
}

// SetState overwrites position and velocity
func (b *Ball) SetState(s BallState) {
	b.Body.Position = s.Position
	b.Body.Velocity = s.Velocity
}
