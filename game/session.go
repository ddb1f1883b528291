// Package game wires the entities, the state machine and the replay streams into one session.
package game

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/vi-pong/core"
	"github.com/lixenwraith/vi-pong/engine"
	"github.com/lixenwraith/vi-pong/entity"
	"github.com/lixenwraith/vi-pong/gamestate"
	"github.com/lixenwraith/vi-pong/history"
	"github.com/lixenwraith/vi-pong/input"
	"github.com/lixenwraith/vi-pong/memento"
	"github.com/lixenwraith/vi-pong/parameter"
	"github.com/lixenwraith/vi-pong/replay"
	"github.com/lixenwraith/vi-pong/status"
)

// Sounds plays the session's effects, audio.SoundManager implements it
type Sounds interface {
	PlayBounce()
	PlayLost()
	PlayReplay()
	ToggleMute() bool
}

// Recorder stores completed rounds, history.Store implements it
type Recorder interface {
	RecordRound(ctx context.Context, r history.Round) error
}

// Deps are the session's optional collaborators
type Deps struct {
	Log      logrus.FieldLogger
	Metrics  *status.Registry
	Sounds   Sounds
	Recorder Recorder

	// OnQuit is called on the tick goroutine when a quit key arrives
	OnQuit func()
	// Now is the wall clock for round history, time.Now if nil
	Now func() time.Time
}

// Session is the single game context
//
// It owns the state machine, the scene objects, one caretaker and replay manager
// per stream, and the digests that verify each replay. Every method except
// PostKey and Snapshot-under-RunSafe runs on the scheduler goroutine.
type Session struct {
	opts  Options
	sched *engine.ClockScheduler
	log   logrus.FieldLogger

	machine  *gamestate.Machine
	keys     *input.KeyTable
	keyboard *input.Keyboard

	arena  *Arena
	ball   *entity.Ball
	player *entity.Paddle
	ai     *entity.AIPaddle
	inputs *entity.InputManager

	ballTape    *memento.Caretaker[entity.BallState]
	inputTape   *memento.Caretaker[entity.InputState]
	ballReplay  *replay.Manager[entity.BallState]
	inputReplay *replay.Manager[entity.InputState]

	ballCaptured  *replay.Digest[entity.BallState]
	ballApplied   *replay.Digest[entity.BallState]
	inputCaptured *replay.Digest[entity.InputState]
	inputApplied  *replay.Digest[entity.InputState]

	capturing  bool
	roundTime  time.Duration
	roundStart time.Time
	lastRound  history.Round

	ctx          context.Context
	cancel       context.CancelFunc
	replayCancel context.CancelFunc
	pending      int
	stopRestart  func() bool
	stopServe    func() bool

	sounds   Sounds
	recorder Recorder
	onQuit   func()
	now      func() time.Time

	// Cached metric pointers
	statState    *status.AtomicString
	statTicks    *atomic.Int64
	statBall     *atomic.Int64
	statInput    *atomic.Int64
	statBallRep  *atomic.Int64
	statInputRep *atomic.Int64
	statVerified *atomic.Bool
	statRounds   *atomic.Int64
}

// NewSession builds a session driven by sched and registers it as a scheduler system
// The session stays in Invalid until Start
func NewSession(parent context.Context, sched *engine.ClockScheduler, opts Options, deps Deps) *Session {
	opts = opts.withDefaults()

	log := deps.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = status.NewRegistry()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		opts:     opts,
		sched:    sched,
		log:      log.WithField("component", "session"),
		ctx:      ctx,
		cancel:   cancel,
		sounds:   deps.Sounds,
		recorder: deps.Recorder,
		onQuit:   deps.OnQuit,
		now:      now,

		statState:    metrics.Strings.Get(status.KeyState),
		statTicks:    metrics.Ints.Get(status.KeyEngineTicks),
		statBall:     metrics.Ints.Get(status.KeyCaptureBall),
		statInput:    metrics.Ints.Get(status.KeyCaptureInput),
		statBallRep:  metrics.Ints.Get(status.KeyReplayBall),
		statInputRep: metrics.Ints.Get(status.KeyReplayInput),
		statVerified: metrics.Bools.Get(status.KeyReplayVerified),
		statRounds:   metrics.Ints.Get(status.KeyRounds),
	}

	s.machine = gamestate.NewMachine(sched, opts.ReplayDelay, log)
	s.keys = input.DefaultKeyTable()
	s.keyboard = input.NewKeyboard(opts.ReleaseAfter, sched.Now)

	speed := parameter.BallSpeed(opts.Difficulty, log)
	skill := parameter.AISkill(opts.Difficulty, log)
	paddleHalf := mgl32.Vec2{parameter.PaddleHalfWidth, parameter.PaddleHalfHeight}

	s.ball = entity.NewBall(mgl32.Vec2{}, parameter.BallHalfSize, speed, s.RoundTime, s.captureBall)
	s.inputs = entity.NewInputManager(ctx, s.keyboard, sched, s.RoundTime, s.captureInput, log)
	s.player = entity.NewPaddle(mgl32.Vec2{0, -parameter.PaddleOffsetY}, paddleHalf, parameter.PlayerPaddleSpeed, s.inputs)
	s.ai = entity.NewAIPaddle(mgl32.Vec2{0, parameter.PaddleOffsetY}, paddleHalf, skill, &s.ball.Body)
	s.arena = NewArena(parameter.ArenaWidth, parameter.ArenaHeight, s.ball, s.player, s.ai, s.paddleHit, s.deadArea)

	s.ballTape = memento.NewCaretaker[entity.BallState](s.ball)
	s.inputTape = memento.NewCaretaker[entity.InputState](s.inputs)

	step := sched.TickInterval()
	s.ballReplay = replay.NewManager("ball", s.ballTape, step)
	s.inputReplay = replay.NewManager("input", s.inputTape, step)

	s.ballCaptured = replay.NewDigest[entity.BallState](entity.EncodeBallState)
	s.ballApplied = replay.NewDigest[entity.BallState](entity.EncodeBallState)
	s.inputCaptured = replay.NewDigest[entity.InputState](entity.EncodeInputState)
	s.inputApplied = replay.NewDigest[entity.InputState](entity.EncodeInputState)
	s.ballReplay.SetDigest(s.ballApplied)
	s.inputReplay.SetDigest(s.inputApplied)

	// Entities first: the session's handlers rely on them having reset
	s.ball.Bind(s.machine)
	s.player.Bind(s.machine)
	s.ai.Bind(s.machine)
	s.inputs.Bind(s.machine)

	s.machine.Subscribe(gamestate.PreGame, s.enterPreGame)
	s.machine.Subscribe(gamestate.InGame, s.enterInGame)
	s.machine.Subscribe(gamestate.Lost, s.enterLost)
	s.machine.Subscribe(gamestate.ReplayRunning, s.enterReplay)

	sched.AddSystem(s)
	return s
}

// Machine returns the state machine for UI subscriptions
func (s *Session) Machine() *gamestate.Machine {
	return s.machine
}

// Options returns the effective options
func (s *Session) Options() Options {
	return s.opts
}

// RoundTime returns virtual time since the current round entered InGame
func (s *Session) RoundTime() time.Duration {
	return s.roundTime
}

// LastRound returns the summary of the most recently replayed round
func (s *Session) LastRound() history.Round {
	return s.lastRound
}

// Start enters PreGame
func (s *Session) Start() {
	s.machine.Request(gamestate.PreGame)
}

// Close cancels every task the session spawned and drops its subscriptions
func (s *Session) Close() {
	s.cancel()
	s.ball.Unbind(s.machine)
	s.player.Unbind(s.machine)
	s.ai.Unbind(s.machine)
	s.inputs.Unbind(s.machine)
}

// Serve starts the round from PreGame, reports whether it did
func (s *Session) Serve() bool {
	if s.machine.State() != gamestate.PreGame {
		return false
	}
	return s.machine.Request(gamestate.InGame)
}

// PostKey classifies a terminal key and queues it for the tick goroutine
// Safe from any goroutine; returns false if the key was dropped
func (s *Session) PostKey(ev *tcell.EventKey) bool {
	intent := s.keys.Lookup(ev)
	if intent == input.IntentNone {
		return true
	}
	return s.sched.Post(func() { s.HandleIntent(intent) })
}

// HandleIntent applies one key intent
func (s *Session) HandleIntent(i input.Intent) {
	switch i {
	case input.IntentQuit:
		if s.onQuit != nil {
			s.onQuit()
		}
	case input.IntentToggleMute:
		if s.sounds != nil {
			s.log.WithField("muted", s.sounds.ToggleMute()).Debug("Sound toggled")
		}
	case input.IntentServe:
		s.Serve()
	case input.IntentLeft, input.IntentRight:
		s.keyboard.Press(i)
	}
}

// Update advances the round clock and the arena, called once per tick
func (s *Session) Update(dt time.Duration) {
	if s.machine.State() == gamestate.InGame {
		s.roundTime += dt
	}
	s.arena.Update(dt)
	s.statTicks.Add(1)
}

// Snapshot copies the drawable state
// Call on the scheduler goroutine or inside ClockScheduler.RunSafe
func (s *Session) Snapshot() Frame {
	f := Frame{
		State:      s.machine.State(),
		Tick:       s.sched.TickCount(),
		Width:      s.arena.Width,
		Height:     s.arena.Height,
		Ball:       s.ball.Position(),
		BallHalf:   s.ball.Body.HalfSize,
		Player:     s.player.Position(),
		AI:         s.ai.Position(),
		PaddleHalf: s.player.Body.HalfSize,
		Difficulty: s.opts.Difficulty,
		RoundTime:  s.roundTime,
	}
	if f.State == gamestate.ReplayRunning {
		f.ReplayClock = max(s.ballReplay.Clock(), s.inputReplay.Clock())
		f.ReplayPending = s.ballReplay.Pending() + s.inputReplay.Pending()
	}
	return f
}

// captureBall stores a ball snapshot while the round is live
func (s *Session) captureBall(m memento.Memento[entity.BallState]) {
	if !s.capturing {
		return
	}
	s.ballTape.Add(m)
	s.ballCaptured.Write(m)
	s.statBall.Add(1)
}

// captureInput stores an input snapshot while the round is live
func (s *Session) captureInput(m memento.Memento[entity.InputState]) {
	if !s.capturing {
		return
	}
	s.inputTape.Add(m)
	s.inputCaptured.Write(m)
	s.statInput.Add(1)
}

func (s *Session) paddleHit() {
	if s.sounds != nil {
		s.sounds.PlayBounce()
	}
}

func (s *Session) deadArea() {
	s.machine.Request(gamestate.Lost)
}

// enterPreGame reloads the level and arms auto-serve
func (s *Session) enterPreGame() {
	s.statState.Store(gamestate.PreGame.String())
	s.cancelReplay()
	s.capturing = false
	s.arena.Reset()

	if s.opts.AutoServe > 0 {
		s.stopServe = s.sched.AfterFunc(s.opts.AutoServe, func() {
			s.stopServe = nil
			s.Serve()
		})
	}
}

// enterInGame starts a fresh capture
func (s *Session) enterInGame() {
	s.statState.Store(gamestate.InGame.String())
	s.cancelReplay()
	if s.stopServe != nil {
		s.stopServe()
		s.stopServe = nil
	}

	s.ballTape.Clear()
	s.inputTape.Clear()
	s.ballCaptured.Reset()
	s.inputCaptured.Reset()
	s.statBall.Store(0)
	s.statInput.Store(0)

	s.roundTime = 0
	s.roundStart = s.now()
	s.capturing = true
	s.log.WithField("difficulty", s.opts.Difficulty).Debug("Round started")
}

// enterLost ends capture, after the input manager has stored its final snapshot
func (s *Session) enterLost() {
	s.statState.Store(gamestate.Lost.String())
	s.capturing = false
	if s.sounds != nil {
		s.sounds.PlayLost()
	}
	s.log.WithFields(logrus.Fields{
		"round":  s.roundTime,
		"ball":   s.ballTape.Len(),
		"inputs": s.inputTape.Len(),
	}).Info("Round lost")
}

// enterReplay serves the ball again and starts one replay task per stream
// The entities have already reset themselves for ReplayRunning
func (s *Session) enterReplay() {
	s.statState.Store(gamestate.ReplayRunning.String())
	s.cancelReplay()

	ctx, cancel := context.WithCancel(s.ctx)
	s.replayCancel = cancel

	s.ball.MoveToStart()
	s.statVerified.Store(false)
	s.lastRound = history.Round{
		StartedAt:      s.roundStart,
		Duration:       s.roundTime,
		BallSnapshots:  s.ballTape.Len(),
		InputSnapshots: s.inputTape.Len(),
		Difficulty:     s.opts.Difficulty.String(),
	}

	s.pending = 2
	s.ballReplay.Begin()
	s.inputReplay.Begin()
	s.sched.Go(ctx, "replay."+s.ballReplay.Name(), s.ballReplay, s.streamDone(ctx, s.ballReplay.Name()))
	s.sched.Go(ctx, "replay."+s.inputReplay.Name(), s.inputReplay, s.streamDone(ctx, s.inputReplay.Name()))

	if s.sounds != nil {
		s.sounds.PlayReplay()
	}
}

// streamDone counts finished streams and completes the replay after the last one
func (s *Session) streamDone(ctx context.Context, name string) func(bool) {
	return func(finished bool) {
		if !finished {
			s.log.WithField("stream", name).Debug("Replay stream cancelled")
			return
		}
		s.pending--
		if s.pending > 0 {
			return
		}
		s.finishReplay(ctx)
	}
}

// finishReplay freezes the ball, verifies both streams and schedules PreGame
func (s *Session) finishReplay(ctx context.Context) {
	s.ball.Freeze()

	ballOK := replay.Match(s.ballCaptured, s.ballApplied)
	inputOK := replay.Match(s.inputCaptured, s.inputApplied)
	s.statBallRep.Store(int64(s.ballReplay.Applied()))
	s.statInputRep.Store(int64(s.inputReplay.Applied()))
	s.statVerified.Store(ballOK && inputOK)
	s.statRounds.Add(1)

	fields := logrus.Fields{
		"ball":     s.ballReplay.Applied(),
		"input":    s.inputReplay.Applied(),
		"verified": ballOK && inputOK,
	}
	if ballOK && inputOK {
		s.log.WithFields(fields).Debug("Replay complete")
	} else {
		s.log.WithFields(fields).Warn("Replay diverged from capture")
	}

	s.lastRound.Verified = ballOK && inputOK
	s.record(s.lastRound)

	s.stopRestart = s.sched.AfterFunc(s.opts.RestartDelay, func() {
		s.stopRestart = nil
		if ctx.Err() != nil {
			return
		}
		s.machine.Request(gamestate.PreGame)
	})
}

// record hands the round to the recorder off the tick goroutine
func (s *Session) record(r history.Round) {
	if s.recorder == nil {
		return
	}
	ctx := s.ctx
	core.Go(func() {
		if err := s.recorder.RecordRound(ctx, r); err != nil {
			s.log.WithError(err).Warn("Unable to record round")
		}
	})
}

// cancelReplay stops replay tasks and a pending restart
func (s *Session) cancelReplay() {
	if s.replayCancel != nil {
		s.replayCancel()
		s.replayCancel = nil
	}
	if s.stopRestart != nil {
		s.stopRestart()
		s.stopRestart = nil
	}
}
