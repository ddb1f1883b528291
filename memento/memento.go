// Package memento provides time-stamped state snapshots and the FIFO that
// holds one entity's snapshot stream for later replay.
package memento

import "time"

// Memento is an immutable snapshot of one entity's state at one instant
// CreatedAt is virtual time since the stream (round) started
type Memento[T any] struct {
	state     T
	createdAt time.Duration
}

// New creates a snapshot of state taken at virtual time at
// Only originators should call this
func New[T any](state T, at time.Duration) Memento[T] {
	return Memento[T]{state: state, createdAt: at}
}

// State returns the captured state
func (m Memento[T]) State() T {
	return m.state
}

// CreatedAt returns the virtual capture time
func (m Memento[T]) CreatedAt() time.Duration {
	return m.createdAt
}

// Originator is implemented by entities that can snapshot and restore their own state
type Originator[T any] interface {
	// CreateMemento captures current observable state tagged with current virtual time
	CreateMemento() Memento[T]

	// SetState overwrites observable state unconditionally
	SetState(state T)
}
