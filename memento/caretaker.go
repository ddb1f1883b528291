package memento

// compactThreshold is the consumed-prefix length after which Pop reclaims space
const compactThreshold = 64

// Caretaker holds the snapshot stream of one originator in FIFO order
//
// Producers push in non-decreasing CreatedAt order; the caretaker does not reorder.
// Not safe for concurrent use: the producer (capture during InGame) and the
// consumer (replay during ReplayRunning) never overlap, both run on the scheduler goroutine.
type Caretaker[T any] struct {
	originator Originator[T]
	mementos   []Memento[T]
	head       int // index of the oldest live entry
}

// NewCaretaker creates an empty caretaker bound to originator
// The reference is non-owning and used only for replay dispatch
func NewCaretaker[T any](originator Originator[T]) *Caretaker[T] {
	return &Caretaker[T]{
		originator: originator,
		mementos:   make([]Memento[T], 0, 32),
	}
}

// Originator returns the entity this stream replays into
func (c *Caretaker[T]) Originator() Originator[T] {
	return c.originator
}

// Add appends a snapshot to the tail
func (c *Caretaker[T]) Add(m Memento[T]) {
	c.mementos = append(c.mementos, m)
}

// Pop removes and returns the oldest snapshot, false if empty
func (c *Caretaker[T]) Pop() (Memento[T], bool) {
	if c.head >= len(c.mementos) {
		var zero Memento[T]
		return zero, false
	}

	m := c.mementos[c.head]
	c.mementos[c.head] = Memento[T]{}
	c.head++

	switch {
	case c.head == len(c.mementos):
		// Drained, rewind in place
		c.mementos = c.mementos[:0]
		c.head = 0
	case c.head >= compactThreshold && c.head*2 >= len(c.mementos):
		n := copy(c.mementos, c.mementos[c.head:])
		clear(c.mementos[n:])
		c.mementos = c.mementos[:n]
		c.head = 0
	}

	return m, true
}

// Peek returns the oldest snapshot without removing it, false if empty
func (c *Caretaker[T]) Peek() (Memento[T], bool) {
	if c.head >= len(c.mementos) {
		var zero Memento[T]
		return zero, false
	}
	return c.mementos[c.head], true
}

// Len returns the number of pending snapshots
func (c *Caretaker[T]) Len() int {
	return len(c.mementos) - c.head
}

// Clear drops all pending snapshots, keeping capacity
func (c *Caretaker[T]) Clear() {
	clear(c.mementos)
	c.mementos = c.mementos[:0]
	c.head = 0
}
