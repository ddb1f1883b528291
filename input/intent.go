package input

// Intent is the semantic action a key maps to
type Intent uint8

const (
	IntentNone Intent = iota

	// System-level intents
	IntentQuit       // q, Esc, Ctrl+C, Ctrl+Q
	IntentToggleMute // m, Ctrl+S

	// Game
	IntentServe // Space, Enter
	IntentLeft  // Left arrow, h, a
	IntentRight // Right arrow, l, d
)

// String returns a name for logs
func (i Intent) String() string {
	switch i {
	case IntentQuit:
		return "quit"
	case IntentToggleMute:
		return "toggle_mute"
	case IntentServe:
		return "serve"
	case IntentLeft:
		return "left"
	case IntentRight:
		return "right"
	default:
		return "none"
	}
}
