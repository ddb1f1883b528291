package input

import (
	"time"
)

type keyState struct {
	down     bool          // last event for this key not yet released
	lastSeen time.Duration // time of the last press or auto-repeat
	held     bool          // sampled hold state
	prevHeld bool          // hold state at the previous sample
}

// Keyboard tracks the two paddle keys from terminal key events
//
// Terminals only report presses and auto-repeats, never key-up. A key counts as held
// until no event has arrived for releaseAfter, or until the opposite direction is
// pressed. Edges (Pressed/Released) are relative to the previous Sample, so a
// single consumer should call Sample once per tick. Not safe for concurrent use.
type Keyboard struct {
	releaseAfter time.Duration
	now          func() time.Duration

	left  keyState
	right keyState
}

// NewKeyboard creates a keyboard reading time from now
func NewKeyboard(releaseAfter time.Duration, now func() time.Duration) *Keyboard {
	return &Keyboard{
		releaseAfter: releaseAfter,
		now:          now,
	}
}

func (k *Keyboard) state(i Intent) *keyState {
	switch i {
	case IntentLeft:
		return &k.left
	case IntentRight:
		return &k.right
	default:
		return nil
	}
}

// Press records a press or auto-repeat of a directional intent
// Pressing one direction releases the other
func (k *Keyboard) Press(i Intent) {
	ks := k.state(i)
	if ks == nil {
		return
	}
	ks.down = true
	ks.lastSeen = k.now()

	if i == IntentLeft {
		k.right.down = false
	} else {
		k.left.down = false
	}
}

// Sample advances hold state to the current time
func (k *Keyboard) Sample() {
	now := k.now()
	for _, ks := range []*keyState{&k.left, &k.right} {
		if ks.down && now-ks.lastSeen >= k.releaseAfter {
			ks.down = false
		}
		ks.prevHeld = ks.held
		ks.held = ks.down
	}
}

// Held reports whether the key was down at the last Sample
func (k *Keyboard) Held(i Intent) bool {
	ks := k.state(i)
	return ks != nil && ks.held
}

// Pressed reports whether the key went down between the last two samples
func (k *Keyboard) Pressed(i Intent) bool {
	ks := k.state(i)
	return ks != nil && ks.held && !ks.prevHeld
}

// Released reports whether the key went up between the last two samples
func (k *Keyboard) Released(i Intent) bool {
	ks := k.state(i)
	return ks != nil && !ks.held && ks.prevHeld
}

// Poll samples and maps the keys to a paddle axis
//
// Left held yields -1, Right held yields 1 (Right wins if both), any release
// this sample yields 0. ok is false when no key is held and none was released.
func (k *Keyboard) Poll() (axis float32, ok bool) {
	k.Sample()

	if k.Held(IntentLeft) {
		axis, ok = -1, true
	}
	if k.Held(IntentRight) {
		axis, ok = 1, true
	}
	if k.Released(IntentLeft) || k.Released(IntentRight) {
		axis, ok = 0, true
	}
	return axis, ok
}
