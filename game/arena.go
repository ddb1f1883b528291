package game

import (
	"time"

	"github.com/lixenwraith/vi-pong/entity"
	"github.com/lixenwraith/vi-pong/physics"
)

// Arena owns the playfield and resolves contacts each tick
//
// Side walls reflect the ball horizontally. A paddle contact is offered to the
// ball first; when the ball declines (replay, cooldown) the arena still reflects it
// away from the paddle. The top and bottom edges are the dead areas behind the
// paddles: they reflect the ball and report a loss on every new contact.
type Arena struct {
	Width, Height float32

	ball   *entity.Ball
	player *entity.Paddle
	ai     *entity.AIPaddle

	playerContact physics.Contact
	aiContact     physics.Contact

	onHit  func() // live paddle hit accepted by the ball
	onDead func() // ball reached a dead area
}

// NewArena creates an arena of the given size centered on the origin
func NewArena(width, height float32, ball *entity.Ball, player *entity.Paddle, ai *entity.AIPaddle, onHit, onDead func()) *Arena {
	return &Arena{
		Width:  width,
		Height: height,
		ball:   ball,
		player: player,
		ai:     ai,
		onHit:  onHit,
		onDead: onDead,
	}
}

// Reset forgets contacts in progress, used on level reload
func (a *Arena) Reset() {
	a.playerContact.Reset()
	a.aiContact.Reset()
}

// Update moves every object by dt and resolves contacts
func (a *Arena) Update(dt time.Duration) {
	halfW, halfH := a.Width/2, a.Height/2

	a.player.Update(dt)
	physics.ClampX(&a.player.Body, -halfW, halfW)
	a.ai.Update(dt)
	physics.ClampX(&a.ai.Body, -halfW, halfW)

	a.ball.Update(dt)
	physics.ReflectBoundsX(&a.ball.Body, -halfW, halfW)

	a.resolvePaddle(&a.player.Body, &a.playerContact)
	a.resolvePaddle(&a.ai.Body, &a.aiContact)

	if physics.ReflectBoundsY(&a.ball.Body, -halfH, halfH) && a.onDead != nil {
		a.onDead()
	}
}

func (a *Arena) resolvePaddle(paddle *physics.Body, contact *physics.Contact) {
	if !contact.Update(physics.Overlaps(&a.ball.Body, paddle)) {
		return
	}

	if a.ball.OnCollision(paddle) {
		if a.onHit != nil {
			a.onHit()
		}
	} else {
		// Reflect away from the paddle center
		vy := a.ball.Body.Velocity.Y()
		if (a.ball.Body.Position.Y() > paddle.Position.Y()) == (vy < 0) {
			a.ball.Body.Velocity[1] = -vy
		}
	}
	physics.SeparateY(&a.ball.Body, paddle)
}
