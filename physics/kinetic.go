package physics

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Body is an axis-aligned box moving in world units, origin at its center
type Body struct {
	Position mgl32.Vec2
	Velocity mgl32.Vec2
	HalfSize mgl32.Vec2
}

// Seconds converts a tick duration to the float32 step used by integration
func Seconds(dt time.Duration) float32 {
	return float32(dt.Seconds())
}

// Integrate advances position by velocity over dt: p = p + v*dt
func Integrate(b *Body, dt time.Duration) mgl32.Vec2 {
	b.Position = b.Position.Add(b.Velocity.Mul(Seconds(dt)))
	return b.Position
}

// SetImpulse overrides velocity (hard redirect)
func SetImpulse(b *Body, v mgl32.Vec2) {
	b.Velocity = v
}

// Stop zeroes velocity
func Stop(b *Body) {
	b.Velocity = mgl32.Vec2{}
}

// ReflectBoundsX handles horizontal boundary collision, returns true if reflection occurred
// The body is clamped inside [minX, maxX] and its x velocity points back inward
func ReflectBoundsX(b *Body, minX, maxX float32) bool {
	hw := b.HalfSize.X()
	if b.Position.X()-hw < minX {
		b.Position[0] = minX + hw
		b.Velocity[0] = math32.Abs(b.Velocity.X())
		return true
	}
	if b.Position.X()+hw > maxX {
		b.Position[0] = maxX - hw
		b.Velocity[0] = -math32.Abs(b.Velocity.X())
		return true
	}
	return false
}

// ReflectBoundsY handles vertical boundary collision, returns true if reflection occurred
// The body is clamped inside [minY, maxY] and its y velocity points back inward
func ReflectBoundsY(b *Body, minY, maxY float32) bool {
	hh := b.HalfSize.Y()
	if b.Position.Y()-hh < minY {
		b.Position[1] = minY + hh
		b.Velocity[1] = math32.Abs(b.Velocity.Y())
		return true
	}
	if b.Position.Y()+hh > maxY {
		b.Position[1] = maxY - hh
		b.Velocity[1] = -math32.Abs(b.Velocity.Y())
		return true
	}
	return false
}

// ClampX keeps the body inside [minX, maxX] without touching velocity
func ClampX(b *Body, minX, maxX float32) {
	hw := b.HalfSize.X()
	b.Position[0] = mgl32.Clamp(b.Position.X(), minX+hw, maxX-hw)
}
