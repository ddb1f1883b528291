package entity

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/vi-pong/engine"
	"github.com/lixenwraith/vi-pong/gamestate"
	"github.com/lixenwraith/vi-pong/memento"
)

// InputState is the snapshot payload of the input stream
type InputState struct {
	Axis float32
}

// EncodeInputState appends the little-endian float32 bits of s to dst
func EncodeInputState(dst []byte, s InputState) []byte {
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(s.Axis))
}

// AxisPoller reads the device axis once per tick
// ok is false when nothing changed on the device this tick
type AxisPoller interface {
	Poll() (axis float32, ok bool)
}

// TaskSpawner starts per-tick tasks, engine.ClockScheduler implements it
type TaskSpawner interface {
	Go(ctx context.Context, name string, task engine.Task, done func(finished bool))
}

// InputManager owns the control axis and is the originator of the input stream
// It polls the device only while InGame; during replay the axis is driven by SetState
type InputManager struct {
	axis float32

	poller  AxisPoller
	spawner TaskSpawner
	clock   Clock
	capture func(memento.Memento[InputState])

	parent context.Context
	cancel context.CancelFunc
	subs   []gamestate.Subscription

	log logrus.FieldLogger
}

// NewInputManager creates an idle input manager
// Polling tasks are spawned under parent and end with it
func NewInputManager(parent context.Context, poller AxisPoller, spawner TaskSpawner, clock Clock,
	capture func(memento.Memento[InputState]), log logrus.FieldLogger) *InputManager {
	return &InputManager{
		poller:  poller,
		spawner: spawner,
		clock:   clock,
		capture: capture,
		parent:  parent,
		log:     log.WithField("component", "input"),
	}
}

// Bind subscribes polling to InGame and its shutdown to Lost
func (im *InputManager) Bind(m *gamestate.Machine) {
	im.subs = append(im.subs,
		m.Subscribe(gamestate.InGame, im.StartPolling),
		m.Subscribe(gamestate.Lost, im.StopPolling),
	)
}

// Unbind drops the state subscriptions and any running poll task
func (im *InputManager) Unbind(m *gamestate.Machine) {
	for _, sub := range im.subs {
		m.Unsubscribe(sub)
	}
	im.subs = im.subs[:0]
	im.cancelPolling()
}

// Axis returns the current control axis
func (im *InputManager) Axis() float32 {
	return im.axis
}

// Polling reports whether a poll task is live
func (im *InputManager) Polling() bool {
	return im.cancel != nil
}

// StartPolling spawns the per-tick poll task, replacing any previous one
func (im *InputManager) StartPolling() {
	im.cancelPolling()

	ctx, cancel := context.WithCancel(im.parent)
	im.cancel = cancel
	im.spawner.Go(ctx, "input.poll", engine.TaskFunc(im.poll), nil)
	im.log.Debug("Input polling started")
}

// StopPolling ends the poll task, zeroes the axis and captures it so movement does not stick
func (im *InputManager) StopPolling() {
	im.cancelPolling()
	im.axis = 0
	im.emit()
	im.log.Debug("Input polling stopped")
}

// poll captures a snapshot whenever the device axis changes value
func (im *InputManager) poll() bool {
	axis, ok := im.poller.Poll()
	if ok && axis != im.axis {
		im.axis = axis
		im.emit()
	}
	return false
}

func (im *InputManager) emit() {
	if im.capture != nil {
		im.capture(im.CreateMemento())
	}
}

func (im *InputManager) cancelPolling() {
	if im.cancel != nil {
		im.cancel()
		im.cancel = nil
	}
}

// CreateMemento snapshots the axis at the current round time
func (im *InputManager) CreateMemento() memento.Memento[InputState] {
	return memento.New(InputState{Axis: im.axis}, im.clock())
}

// SetState overwrites the axis
func (im *InputManager) SetState(s InputState) {
	im.axis = s.Axis
}
