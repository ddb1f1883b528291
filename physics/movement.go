package physics

import (
	"time"

	"github.com/chewxy/math32"
)

// Lerp interpolates from a to b by t, t clamped to [0, 1]
func Lerp(a, b, t float32) float32 {
	t = math32.Max(0, math32.Min(1, t))
	return a + (b-a)*t
}

// TrackX moves the body's x toward target by dt*rate of the remaining distance
// Velocity is set to the resulting displacement rate so hits can transfer it
func TrackX(b *Body, target float32, rate float32, dt time.Duration) {
	s := Seconds(dt)
	if s <= 0 {
		return
	}
	x := Lerp(b.Position.X(), target, s*rate)
	b.Velocity[0] = (x - b.Position.X()) / s
	b.Velocity[1] = 0
	b.Position[0] = x
}
