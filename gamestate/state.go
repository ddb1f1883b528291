// Package gamestate implements the round lifecycle state machine.
//
// The machine cycles PreGame -> InGame -> Lost -> ReplayRunning -> PreGame and
// notifies subscribers of the target state synchronously on every accepted
// transition. Capture happens while InGame; replay happens while ReplayRunning.
package gamestate

// State is the current phase of a round
type State uint8

const (
	Invalid State = iota // before the first transition
	PreGame
	InGame
	Lost
	ReplayRunning
)

// String returns the name of the state for logs and UI
func (s State) String() string {
	switch s {
	case Invalid:
		return "Invalid"
	case PreGame:
		return "PreGame"
	case InGame:
		return "InGame"
	case Lost:
		return "Lost"
	case ReplayRunning:
		return "ReplayRunning"
	default:
		return "Unknown"
	}
}

// States lists the notifiable states in lifecycle order
var States = []State{PreGame, InGame, Lost, ReplayRunning}
