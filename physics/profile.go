package physics

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/vi-pong/parameter"
)

// BounceProfile defines how a ball responds to a paddle hit
// Profiles are pre-defined as package variables
type BounceProfile struct {
	Retain    float32       // Share of own x velocity kept
	Influence float32       // Share of the hitter's x velocity transferred
	Cooldown  time.Duration // Repeated hits within this window are ignored
}

// PaddleBounce is the ball-to-paddle response
var PaddleBounce = BounceProfile{
	Retain:    parameter.BallVelocityRetain,
	Influence: parameter.BallPaddleInfluence,
	Cooldown:  parameter.BallCollisionCooldown,
}

// Bounce computes post-hit velocity
// x blends own and hitter velocity; y is set to speed, flipped against the incoming direction
func (p *BounceProfile) Bounce(v, hitter mgl32.Vec2, speed float32) mgl32.Vec2 {
	x := v.X()*p.Retain + hitter.X()*p.Influence
	y := -speed
	if v.Y() <= 0 {
		y = speed
	}
	return mgl32.Vec2{x, y}
}
