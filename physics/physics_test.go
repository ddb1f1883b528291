package physics

import (
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-4

func near(a, b float32) bool {
	return math32.Abs(a-b) < eps
}

func TestIntegrate(t *testing.T) {
	b := &Body{Velocity: mgl32.Vec2{10, -4}}
	pos := Integrate(b, 500*time.Millisecond)
	if !near(pos.X(), 5) || !near(pos.Y(), -2) {
		t.Errorf("Integrate() = %v, want (5, -2)", pos)
	}
}

func TestReflectBounds(t *testing.T) {
	tests := []struct {
		name    string
		pos     mgl32.Vec2
		vel     mgl32.Vec2
		wantHit bool
		wantPos mgl32.Vec2
		wantVel mgl32.Vec2
	}{
		{"inside", mgl32.Vec2{0, 0}, mgl32.Vec2{3, 3}, false, mgl32.Vec2{0, 0}, mgl32.Vec2{3, 3}},
		{"past left", mgl32.Vec2{-10.2, 0}, mgl32.Vec2{-3, 1}, true, mgl32.Vec2{-9.5, 0}, mgl32.Vec2{3, 1}},
		{"past right", mgl32.Vec2{10, 0}, mgl32.Vec2{3, 1}, true, mgl32.Vec2{9.5, 0}, mgl32.Vec2{-3, 1}},
		{"past bottom", mgl32.Vec2{0, -11}, mgl32.Vec2{1, -2}, true, mgl32.Vec2{0, -9.5}, mgl32.Vec2{1, 2}},
		{"past top", mgl32.Vec2{0, 9.8}, mgl32.Vec2{1, 2}, true, mgl32.Vec2{0, 9.5}, mgl32.Vec2{1, -2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Body{Position: tt.pos, Velocity: tt.vel, HalfSize: mgl32.Vec2{0.5, 0.5}}
			hit := ReflectBoundsX(b, -10, 10)
			hit = ReflectBoundsY(b, -10, 10) || hit
			if hit != tt.wantHit {
				t.Errorf("hit = %v, want %v", hit, tt.wantHit)
			}
			if !b.Position.ApproxEqualThreshold(tt.wantPos, eps) {
				t.Errorf("Position = %v, want %v", b.Position, tt.wantPos)
			}
			if !b.Velocity.ApproxEqualThreshold(tt.wantVel, eps) {
				t.Errorf("Velocity = %v, want %v", b.Velocity, tt.wantVel)
			}
		})
	}
}

func TestOverlapsAndContact(t *testing.T) {
	paddle := &Body{Position: mgl32.Vec2{0, -10}, HalfSize: mgl32.Vec2{3, 0.5}}
	ball := &Body{Position: mgl32.Vec2{2, -8}, HalfSize: mgl32.Vec2{0.5, 0.5}}

	var c Contact
	if c.Update(Overlaps(ball, paddle)) {
		t.Fatal("contact began while apart")
	}

	ball.Position[1] = -9.2
	if !Overlaps(ball, paddle) {
		t.Fatal("Overlaps() = false, want true")
	}
	if !c.Update(true) {
		t.Error("first overlapping tick should begin contact")
	}
	if c.Update(true) {
		t.Error("continued overlap must not begin contact again")
	}

	SeparateY(ball, paddle)
	if !near(ball.Position.Y(), -9) {
		t.Errorf("SeparateY() y = %v, want -9", ball.Position.Y())
	}
	c.Update(false)
	if c.Touching() {
		t.Error("Touching() after release = true")
	}

	// Side-by-side bodies do not overlap
	ball.Position = mgl32.Vec2{4, -10}
	if Overlaps(ball, paddle) {
		t.Error("Overlaps() beyond paddle edge = true")
	}
}

func TestPaddleBounce(t *testing.T) {
	tests := []struct {
		name   string
		v      mgl32.Vec2
		hitter mgl32.Vec2
		want   mgl32.Vec2
	}{
		{"falling straight", mgl32.Vec2{0, -10}, mgl32.Vec2{0, 0}, mgl32.Vec2{0, 10}},
		{"rising with drift", mgl32.Vec2{4, 7}, mgl32.Vec2{0, 0}, mgl32.Vec2{2, -10}},
		{"moving paddle", mgl32.Vec2{2, -10}, mgl32.Vec2{20, 0}, mgl32.Vec2{1 + 6.6, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PaddleBounce.Bounce(tt.v, tt.hitter, 10)
			if !got.ApproxEqualThreshold(tt.want, eps) {
				t.Errorf("Bounce() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrackX(t *testing.T) {
	b := &Body{Position: mgl32.Vec2{0, 10}}
	TrackX(b, 10, 5, 100*time.Millisecond)
	if !near(b.Position.X(), 5) {
		t.Errorf("TrackX() x = %v, want 5", b.Position.X())
	}
	if !near(b.Velocity.X(), 50) {
		t.Errorf("TrackX() vx = %v, want 50", b.Velocity.X())
	}

	// Rate beyond one step snaps to target
	TrackX(b, 10, 100, 100*time.Millisecond)
	if !near(b.Position.X(), 10) {
		t.Errorf("TrackX() overshoot x = %v, want 10", b.Position.X())
	}

	// Zero rate holds position
	TrackX(b, -10, 0, 100*time.Millisecond)
	if !near(b.Position.X(), 10) {
		t.Errorf("TrackX() zero rate x = %v, want 10", b.Position.X())
	}
}

func TestClampX(t *testing.T) {
	b := &Body{Position: mgl32.Vec2{25, 0}, Velocity: mgl32.Vec2{5, 0}, HalfSize: mgl32.Vec2{3, 0.5}}
	ClampX(b, -20, 20)
	if !near(b.Position.X(), 17) {
		t.Errorf("ClampX() x = %v, want 17", b.Position.X())
	}
	if b.Velocity.X() != 5 {
		t.Error("ClampX() must not change velocity")
	}
}
