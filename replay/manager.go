// Package replay re-applies captured snapshot streams against a virtual clock.
//
// A Manager drains one memento.Caretaker. It is driven by an external fixed tick:
// each Step call processes every snapshot that is due at the current virtual time,
// then advances the clock by one step and yields. Streams are independent; two
// managers running side by side only share the tick granularity.
package replay

import (
	"time"

	"github.com/lixenwraith/vi-pong/memento"
)

// Manager replays one entity stream in virtual time
type Manager[T any] struct {
	name      string
	caretaker *memento.Caretaker[T]
	step      time.Duration

	clock   time.Duration
	applied int
	digest  *Digest[T]
}

// NewManager creates a replay driver for caretaker with the capture tick as step
func NewManager[T any](name string, caretaker *memento.Caretaker[T], step time.Duration) *Manager[T] {
	return &Manager[T]{
		name:      name,
		caretaker: caretaker,
		step:      step,
	}
}

// SetDigest attaches a digest updated with every applied snapshot, nil detaches
func (m *Manager[T]) SetDigest(d *Digest[T]) {
	m.digest = d
}

// Name returns the stream name used in logs and metrics
func (m *Manager[T]) Name() string {
	return m.name
}

// Begin resets the virtual clock and counters for a new replay
func (m *Manager[T]) Begin() {
	m.clock = 0
	m.applied = 0
	if m.digest != nil {
		m.digest.Reset()
	}
}

// Step runs one tick of replay and reports whether the stream is exhausted
//
// Due snapshots (|CreatedAt - clock| <= step) are applied back to back without
// advancing the clock; the first snapshot that is not due advances the clock by
// one step and ends the tick.
func (m *Manager[T]) Step() bool {
	for {
		snap, ok := m.caretaker.Peek()
		if !ok {
			return true
		}

		dt := snap.CreatedAt() - m.clock
		if dt < 0 {
			dt = -dt
		}

		if dt > m.step {
			m.clock += m.step
			return false
		}

		m.caretaker.Pop()
		m.caretaker.Originator().SetState(snap.State())
		m.applied++
		if m.digest != nil {
			m.digest.Write(snap)
		}
	}
}

// Clock returns the current virtual replay time
func (m *Manager[T]) Clock() time.Duration {
	return m.clock
}

// Applied returns the number of snapshots applied since Begin
func (m *Manager[T]) Applied() int {
	return m.applied
}

// Pending returns the number of snapshots left to replay
func (m *Manager[T]) Pending() int {
	return m.caretaker.Len()
}
