package engine

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/vi-pong/core"
	"github.com/lixenwraith/vi-pong/parameter"
)

// Task is a cooperative unit of work stepped once per tick
// Step returns true when the task has finished
type Task interface {
	Step() bool
}

// TaskFunc adapts a function to Task
type TaskFunc func() bool

// Step calls f
func (f TaskFunc) Step() bool { return f() }

// System is updated once per tick after tasks
type System interface {
	Update(dt time.Duration)
}

// TimerID identifies a pending one-shot timer
type TimerID uint64

type timer struct {
	id       TimerID
	deadline time.Duration
	fn       func()
}

type taskEntry struct {
	ctx  context.Context
	name string
	task Task
	done func(finished bool)
}

// ClockScheduler drives game logic on a fixed tick
//
// Everything scheduled through it (posted closures, timers, tasks, systems) runs on
// the tick goroutine, one tick at a time, so game state needs no locking. Other
// goroutines hand work in through Post and read state through RunSafe.
//
// Per tick, in order:
//  1. Posted closures (input events)
//  2. Game time advances; due timers fire in deadline order
//  3. Tasks step; cancelled contexts are dropped before stepping
//  4. Systems update
type ClockScheduler struct {
	tickInterval time.Duration

	// Tick state, guarded by mu while a tick runs
	mu      sync.Mutex
	now     time.Duration
	timers  []timer
	nextID  TimerID
	tasks   []taskEntry
	systems []System

	inbox chan func()

	tickCount atomic.Uint64
	onTick    func(tick uint64)

	// Control channels
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

// NewClockScheduler creates a scheduler with the given tick interval
// A non-positive interval falls back to parameter.GameUpdateInterval
func NewClockScheduler(tickInterval time.Duration) *ClockScheduler {
	if tickInterval <= 0 {
		tickInterval = parameter.GameUpdateInterval
	}
	return &ClockScheduler{
		tickInterval: tickInterval,
		inbox:        make(chan func(), parameter.SchedulerInboxSize),
		stopChan:     make(chan struct{}),
	}
}

// TickInterval returns the fixed step duration
func (cs *ClockScheduler) TickInterval() time.Duration {
	return cs.tickInterval
}

// Now returns game time elapsed since the scheduler was created
// Only meaningful on the tick goroutine or under RunSafe
func (cs *ClockScheduler) Now() time.Duration {
	return cs.now
}

// TickCount returns the number of completed ticks
func (cs *ClockScheduler) TickCount() uint64 {
	return cs.tickCount.Load()
}

// OnTick sets a hook called at the end of every tick, must be called before Start()
func (cs *ClockScheduler) OnTick(fn func(tick uint64)) {
	cs.onTick = fn
}

// AddSystem registers a per-tick system, must be called before Start()
func (cs *ClockScheduler) AddSystem(s System) {
	cs.systems = append(cs.systems, s)
}

// After schedules fn to run once, d of game time from now
func (cs *ClockScheduler) After(d time.Duration, fn func()) TimerID {
	cs.nextID++
	t := timer{id: cs.nextID, deadline: cs.now + d, fn: fn}

	// Keep sorted by deadline, ties in scheduling order
	i := sort.Search(len(cs.timers), func(i int) bool {
		return cs.timers[i].deadline > t.deadline
	})
	cs.timers = append(cs.timers, timer{})
	copy(cs.timers[i+1:], cs.timers[i:])
	cs.timers[i] = t
	return t.id
}

// Cancel removes a pending timer, returns false if it already fired or was cancelled
func (cs *ClockScheduler) Cancel(id TimerID) bool {
	for i := range cs.timers {
		if cs.timers[i].id == id {
			cs.timers = append(cs.timers[:i], cs.timers[i+1:]...)
			return true
		}
	}
	return false
}

// AfterFunc is After with a stop function, matching time.AfterFunc usage
func (cs *ClockScheduler) AfterFunc(d time.Duration, fn func()) (stop func() bool) {
	id := cs.After(d, fn)
	return func() bool { return cs.Cancel(id) }
}

// PendingTimers returns the number of timers not yet fired
func (cs *ClockScheduler) PendingTimers() int {
	return len(cs.timers)
}

// Go spawns a task stepped once per tick until it finishes or ctx is cancelled
// done, if non-nil, receives true on completion and false on cancellation
func (cs *ClockScheduler) Go(ctx context.Context, name string, task Task, done func(finished bool)) {
	cs.tasks = append(cs.tasks, taskEntry{ctx: ctx, name: name, task: task, done: done})
}

// TaskCount returns the number of live tasks
func (cs *ClockScheduler) TaskCount() int {
	return len(cs.tasks)
}

// Post queues fn to run on the tick goroutine at the start of the next tick
// Safe from any goroutine; returns false if the inbox is full
func (cs *ClockScheduler) Post(fn func()) bool {
	select {
	case cs.inbox <- fn:
		return true
	default:
		return false
	}
}

// RunSafe runs fn while no tick is in progress
func (cs *ClockScheduler) RunSafe(fn func()) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	fn()
}

// Tick executes one clock cycle
func (cs *ClockScheduler) Tick() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	// 1. Posted work
	for drained := false; !drained; {
		select {
		case fn := <-cs.inbox:
			fn()
		default:
			drained = true
		}
	}

	// 2. Time and timers
	cs.now += cs.tickInterval
	for len(cs.timers) > 0 && cs.timers[0].deadline <= cs.now {
		t := cs.timers[0]
		cs.timers = cs.timers[1:]
		t.fn()
	}

	// 3. Tasks, snapshot count so tasks spawned by tasks start next tick
	n := len(cs.tasks)
	live := cs.tasks[:0:0]
	for i := 0; i < n; i++ {
		e := cs.tasks[i]
		if e.ctx.Err() != nil {
			if e.done != nil {
				e.done(false)
			}
			continue
		}
		if e.task.Step() {
			if e.done != nil {
				e.done(true)
			}
			continue
		}
		live = append(live, e)
	}
	cs.tasks = append(live, cs.tasks[n:]...)

	// 4. Systems
	for _, s := range cs.systems {
		s.Update(cs.tickInterval)
	}

	tick := cs.tickCount.Add(1)
	if cs.onTick != nil {
		cs.onTick(tick)
	}
}

// Start begins the real-time tick loop
func (cs *ClockScheduler) Start() {
	if cs.running.CompareAndSwap(false, true) {
		cs.wg.Add(1)
		core.Go(cs.schedulerLoop)
	}
}

// Stop halts the tick loop and waits for the current tick to finish
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		if cs.running.CompareAndSwap(true, false) {
			close(cs.stopChan)
			cs.wg.Wait()
		}
	})
}

// schedulerLoop ticks on a wall-clock ticker until stopped
func (cs *ClockScheduler) schedulerLoop() {
	defer cs.wg.Done()

	ticker := time.NewTicker(cs.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-cs.stopChan:
			return
		case <-ticker.C:
			cs.Tick()
		}
	}
}
