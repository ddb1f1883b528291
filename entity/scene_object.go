// Package entity holds the player-facing scene objects and the snapshot originators.
package entity

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/vi-pong/gamestate"
	"github.com/lixenwraith/vi-pong/physics"
)

// Clock reports virtual time since the current round started
type Clock func() time.Duration

// SceneObject is the common base of the ball and paddles
// Reset returns it to its spawn point, Freeze stops it in place
type SceneObject struct {
	Body  physics.Body
	spawn mgl32.Vec2

	subs []gamestate.Subscription
}

func newSceneObject(spawn, halfSize mgl32.Vec2) SceneObject {
	return SceneObject{
		Body:  physics.Body{Position: spawn, HalfSize: halfSize},
		spawn: spawn,
	}
}

// Position returns the body center
func (o *SceneObject) Position() mgl32.Vec2 {
	return o.Body.Position
}

// Velocity returns the body velocity
func (o *SceneObject) Velocity() mgl32.Vec2 {
	return o.Body.Velocity
}

// Reset moves the object back to its spawn point, velocity is kept
func (o *SceneObject) Reset() {
	o.Body.Position = o.spawn
}

// Freeze zeroes velocity
func (o *SceneObject) Freeze() {
	physics.Stop(&o.Body)
}

// subscribe registers h and remembers the subscription for Unbind
func (o *SceneObject) subscribe(m *gamestate.Machine, s gamestate.State, h gamestate.Handler) {
	o.subs = append(o.subs, m.Subscribe(s, h))
}

// Unbind drops every state subscription the object registered
func (o *SceneObject) Unbind(m *gamestate.Machine) {
	for _, sub := range o.subs {
		m.Unsubscribe(sub)
	}
	o.subs = o.subs[:0]
}
