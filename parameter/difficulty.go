package parameter

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Difficulty selects AI tracking speed and ball speed
type Difficulty uint8

const (
	DifficultyInvalid Difficulty = iota
	DifficultyEasy
	DifficultyMedium
	DifficultyHard
)

// String returns the lower-case name used in config and history
func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return "invalid"
	}
}

// ParseDifficulty maps a config name to a Difficulty, unknown names yield DifficultyInvalid
func ParseDifficulty(name string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "easy", "1":
		return DifficultyEasy
	case "medium", "2":
		return DifficultyMedium
	case "hard", "3":
		return DifficultyHard
	default:
		return DifficultyInvalid
	}
}

// AISkill returns the AI paddle tracking multiplier
// An unmapped difficulty is logged and degrades to 0 (AI paddle stands still)
func AISkill(d Difficulty, log logrus.FieldLogger) float32 {
	switch d {
	case DifficultyEasy:
		return 4
	case DifficultyMedium:
		return 7
	case DifficultyHard:
		return 10
	default:
		log.WithField("difficulty", d).Error("Unable to map difficulty to AI skill")
		return 0
	}
}

// BallSpeed returns the ball speed in units/sec
// An unmapped difficulty is logged and degrades to 0 (ball does not move)
func BallSpeed(d Difficulty, log logrus.FieldLogger) float32 {
	switch d {
	case DifficultyEasy:
		return 8
	case DifficultyMedium:
		return 10
	case DifficultyHard:
		return 12
	default:
		log.WithField("difficulty", d).Error("Unable to map difficulty to ball speed")
		return 0
	}
}
