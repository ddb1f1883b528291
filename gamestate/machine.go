package gamestate

import (
	"time"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/sirupsen/logrus"
)

// DefaultLostDelay is the pause between losing and the replay starting
const DefaultLostDelay = time.Second

// Timer schedules delayed callbacks in game time
// engine.ClockScheduler implements it
type Timer interface {
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}

// Handler is invoked when the machine enters the state it was subscribed to
type Handler func()

// Subscription identifies a registered handler for Unsubscribe
type Subscription struct {
	state State
	id    uint64
}

// Machine is the game state machine
// Not safe for concurrent use; transitions run on the scheduler goroutine
type Machine struct {
	state State

	subs   map[State]*orderedmap.OrderedMap[uint64, Handler]
	nextID uint64

	timer       Timer
	lostDelay   time.Duration
	stopPending func() bool

	log logrus.FieldLogger
}

// NewMachine creates a machine in the Invalid state
// timer schedules the Lost -> ReplayRunning follow-up after lostDelay
func NewMachine(timer Timer, lostDelay time.Duration, log logrus.FieldLogger) *Machine {
	m := &Machine{
		state:     Invalid,
		subs:      make(map[State]*orderedmap.OrderedMap[uint64, Handler], len(States)),
		timer:     timer,
		lostDelay: lostDelay,
		log:       log.WithField("component", "gamestate"),
	}
	for _, s := range States {
		m.subs[s] = orderedmap.NewOrderedMap[uint64, Handler]()
	}
	return m
}

// State returns the current state
func (m *Machine) State() State {
	return m.state
}

// Subscribe registers h for entries into s
// Handlers for the same state run in registration order
func (m *Machine) Subscribe(s State, h Handler) Subscription {
	set, ok := m.subs[s]
	if !ok {
		m.log.WithField("state", s).Error("Subscribe to non-notifiable state ignored")
		return Subscription{}
	}
	m.nextID++
	set.Set(m.nextID, h)
	return Subscription{state: s, id: m.nextID}
}

// Unsubscribe removes a handler, returns false if it was not registered
func (m *Machine) Unsubscribe(sub Subscription) bool {
	set, ok := m.subs[sub.state]
	if !ok {
		return false
	}
	return set.Delete(sub.id)
}

// SubscriberCount returns the number of handlers registered for s
func (m *Machine) SubscriberCount(s State) int {
	set, ok := m.subs[s]
	if !ok {
		return 0
	}
	return set.Len()
}

// HasPendingReplay reports whether a Lost follow-up is scheduled
func (m *Machine) HasPendingReplay() bool {
	return m.stopPending != nil
}

// Request asks for a transition to next and reports whether it was accepted
//
// Requests for the current state are ignored. ReplayRunning -> Lost is rejected so a
// replay always completes before a loss can be signalled again. Every other request is
// accepted: the state is updated, any pending Lost follow-up is cancelled, then the
// target state's subscribers run synchronously.
func (m *Machine) Request(next State) bool {
	current := m.state
	if current == next {
		return false
	}

	if current == ReplayRunning && next == Lost {
		m.log.WithFields(logrus.Fields{"from": current, "to": next}).Info("Illegal state transition rejected")
		return false
	}

	m.state = next
	m.cancelPending()
	m.log.WithFields(logrus.Fields{"from": current, "to": next}).Debug("State transition")

	m.notify(next)

	// Schedule only if no handler moved the machine on already
	if next == Lost && m.state == Lost {
		m.stopPending = m.timer.AfterFunc(m.lostDelay, func() {
			m.stopPending = nil
			m.Request(ReplayRunning)
		})
	}

	return true
}

// notify runs the handlers registered for s
// The set is copied first so handlers may subscribe, unsubscribe or transition
func (m *Machine) notify(s State) {
	set, ok := m.subs[s]
	if !ok || set.Len() == 0 {
		return
	}

	handlers := make([]Handler, 0, set.Len())
	for el := set.Front(); el != nil; el = el.Next() {
		handlers = append(handlers, el.Value)
	}
	for _, h := range handlers {
		h()
	}
}

func (m *Machine) cancelPending() {
	if m.stopPending != nil {
		m.stopPending()
		m.stopPending = nil
	}
}
