package physics

import (
	"github.com/chewxy/math32"
)

// Overlaps reports whether two bodies intersect (touching edges count)
func Overlaps(a, b *Body) bool {
	dx := math32.Abs(a.Position.X() - b.Position.X())
	dy := math32.Abs(a.Position.Y() - b.Position.Y())
	return dx <= a.HalfSize.X()+b.HalfSize.X() && dy <= a.HalfSize.Y()+b.HalfSize.Y()
}

// SeparateY pushes a out of b along y, to the side a's center is on
// Used after a vertical contact so the next tick does not report the same overlap
func SeparateY(a, b *Body) {
	gap := a.HalfSize.Y() + b.HalfSize.Y()
	if a.Position.Y() >= b.Position.Y() {
		a.Position[1] = b.Position.Y() + gap
	} else {
		a.Position[1] = b.Position.Y() - gap
	}
}

// Contact tracks begin/end of an overlap across ticks
// Zero value is ready to use (not touching)
type Contact struct {
	touching bool
}

// Update records this tick's overlap and reports whether contact just began
func (c *Contact) Update(overlapping bool) (began bool) {
	began = overlapping && !c.touching
	c.touching = overlapping
	return began
}

// Touching reports the last recorded overlap
func (c *Contact) Touching() bool {
	return c.touching
}

// Reset forgets any ongoing contact
func (c *Contact) Reset() {
	c.touching = false
}
