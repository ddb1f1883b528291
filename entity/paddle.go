package entity

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/vi-pong/gamestate"
	"github.com/lixenwraith/vi-pong/physics"
)

// AxisSource supplies the horizontal control axis in [-1, 1]
type AxisSource interface {
	Axis() float32
}

// Paddle is the player-controlled paddle
// Velocity follows the input axis every update, so a frozen paddle moves again once input changes
type Paddle struct {
	SceneObject
	speed float32
	input AxisSource
}

// NewPaddle creates a player paddle at spawn
func NewPaddle(spawn, halfSize mgl32.Vec2, speed float32, input AxisSource) *Paddle {
	return &Paddle{
		SceneObject: newSceneObject(spawn, halfSize),
		speed:       speed,
		input:       input,
	}
}

// Bind subscribes the paddle to state notifications
// PreGame and ReplayRunning both reset and freeze it
func (p *Paddle) Bind(m *gamestate.Machine) {
	p.subscribe(m, gamestate.PreGame, p.Reset)
	p.subscribe(m, gamestate.PreGame, p.Freeze)
	p.subscribe(m, gamestate.ReplayRunning, p.Freeze)
	p.subscribe(m, gamestate.ReplayRunning, p.Reset)
}

// Update sets velocity from the input axis and integrates
func (p *Paddle) Update(dt time.Duration) {
	physics.SetImpulse(&p.Body, mgl32.Vec2{p.input.Axis() * p.speed, 0})
	physics.Integrate(&p.Body, dt)
}

// AIPaddle tracks the ball's x position with a lag set by skill
type AIPaddle struct {
	SceneObject
	skill   float32
	target  *physics.Body
	canTick bool
}

// NewAIPaddle creates an AI paddle at spawn tracking target
func NewAIPaddle(spawn, halfSize mgl32.Vec2, skill float32, target *physics.Body) *AIPaddle {
	return &AIPaddle{
		SceneObject: newSceneObject(spawn, halfSize),
		skill:       skill,
		target:      target,
		canTick:     true,
	}
}

// Bind subscribes the AI paddle to state notifications
// PreGame and ReplayRunning reset it, Lost freezes it
func (p *AIPaddle) Bind(m *gamestate.Machine) {
	p.subscribe(m, gamestate.PreGame, p.Reset)
	p.subscribe(m, gamestate.ReplayRunning, p.Reset)
	p.subscribe(m, gamestate.Lost, p.Freeze)
}

// Freeze stops tracking until the next Reset
func (p *AIPaddle) Freeze() {
	p.SceneObject.Freeze()
	p.canTick = false
}

// Reset returns to spawn and resumes tracking
func (p *AIPaddle) Reset() {
	p.SceneObject.Reset()
	p.canTick = true
}

// Skill returns the tracking rate
func (p *AIPaddle) Skill() float32 {
	return p.skill
}

// Update moves toward the target's x by dt*skill of the remaining distance
func (p *AIPaddle) Update(dt time.Duration) {
	if !p.canTick || p.target == nil {
		return
	}
	physics.TrackX(&p.Body, p.target.Position.X(), p.skill, dt)
}
