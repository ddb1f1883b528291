package parameter

import "time"

// Arena geometry in world units, origin at the center, y up
// The player defends the bottom edge, the AI the top edge
const (
	ArenaWidth  = 40
	ArenaHeight = 24

	// PaddleOffsetY is the distance of each paddle from the center line
	PaddleOffsetY = 10

	PaddleHalfWidth  = 3
	PaddleHalfHeight = 0.5

	BallHalfSize = 0.5
)

// Ball collision response
const (
	// BallCollisionCooldown filters repeated contacts with the same paddle
	BallCollisionCooldown = 200 * time.Millisecond

	// BallVelocityRetain is the share of the ball's own x velocity kept on a paddle hit
	BallVelocityRetain = 0.5

	// BallPaddleInfluence is the share of the paddle's x velocity transferred on a hit
	BallPaddleInfluence = 0.33
)

// Paddle movement
const (
	// PlayerPaddleSpeed scales the input axis into paddle velocity (units/sec)
	PlayerPaddleSpeed = 20
)
