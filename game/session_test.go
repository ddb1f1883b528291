package game

import (
	"context"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/lixenwraith/vi-pong/engine"
	"github.com/lixenwraith/vi-pong/gamestate"
	"github.com/lixenwraith/vi-pong/history"
	"github.com/lixenwraith/vi-pong/input"
	"github.com/lixenwraith/vi-pong/parameter"
	"github.com/lixenwraith/vi-pong/status"
)

const tick = 10 * time.Millisecond

// fakeSounds counts effect requests
type fakeSounds struct {
	bounce, lost, replay int
	muted                bool
}

func (f *fakeSounds) PlayBounce()      { f.bounce++ }
func (f *fakeSounds) PlayLost()        { f.lost++ }
func (f *fakeSounds) PlayReplay()      { f.replay++ }
func (f *fakeSounds) ToggleMute() bool { f.muted = !f.muted; return f.muted }

// chanRecorder forwards recorded rounds to a channel
type chanRecorder struct {
	rounds chan history.Round
}

func (r *chanRecorder) RecordRound(_ context.Context, round history.Round) error {
	r.rounds <- round
	return nil
}

type fixture struct {
	s       *Session
	cs      *engine.ClockScheduler
	sounds  *fakeSounds
	hook    *test.Hook
	metrics *status.Registry
	rec     *chanRecorder
	quits   int
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	f := &fixture{
		cs:      engine.NewClockScheduler(tick),
		sounds:  &fakeSounds{},
		hook:    hook,
		metrics: status.NewRegistry(),
		rec:     &chanRecorder{rounds: make(chan history.Round, 4)},
	}
	f.s = NewSession(context.Background(), f.cs, opts, Deps{
		Log:      logger,
		Metrics:  f.metrics,
		Sounds:   f.sounds,
		Recorder: f.rec,
		OnQuit:   func() { f.quits++ },
	})
	t.Cleanup(f.s.Close)
	return f
}

func (f *fixture) ticks(n int) {
	for i := 0; i < n; i++ {
		f.cs.Tick()
	}
}

func (f *fixture) state() gamestate.State {
	return f.s.Machine().State()
}

// lose requests Lost and runs the clock up to the replay start
func (f *fixture) lose(t *testing.T) {
	t.Helper()
	if !f.s.Machine().Request(gamestate.Lost) {
		t.Fatal("Lost request rejected")
	}
	f.ticks(int(f.s.Options().ReplayDelay/tick) - 1)
	if f.state() != gamestate.Lost {
		t.Fatalf("state = %v before replay delay elapsed, want Lost", f.state())
	}
	f.ticks(1)
	if f.state() != gamestate.ReplayRunning {
		t.Fatalf("state = %v after replay delay, want ReplayRunning", f.state())
	}
}

func TestSessionEndToEndReplay(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	s := f.s

	s.Start()
	if f.state() != gamestate.PreGame {
		t.Fatalf("state = %v after Start, want PreGame", f.state())
	}
	if !s.Serve() {
		t.Fatal("Serve() from PreGame should start the round")
	}

	f.ticks(30)
	if s.RoundTime() != 300*time.Millisecond {
		t.Fatalf("RoundTime() = %v, want 300ms", s.RoundTime())
	}

	// One snapshot per stream at 0.3s
	s.captureBall(s.ball.CreateMemento())
	s.captureInput(s.inputs.CreateMemento())

	f.lose(t)

	// The input manager closes its stream with a zero-axis snapshot on Lost
	if s.ballTape.Len() != 1 || s.inputTape.Len() != 2 {
		t.Errorf("tapes at replay start: ball %d input %d, want 1 and 2", s.ballTape.Len(), s.inputTape.Len())
	}

	replayTicks := 0
	for f.state() == gamestate.ReplayRunning && replayTicks < 500 {
		f.ticks(1)
		replayTicks++
		if f.state() == gamestate.PreGame {
			break
		}
		if s.ballReplay.Pending() == 0 && s.inputReplay.Pending() == 0 {
			continue
		}
		if s.pending == 0 {
			t.Fatal("replay reported complete with snapshots still pending")
		}
	}

	if f.state() != gamestate.PreGame {
		t.Fatalf("state = %v after %d replay ticks, want PreGame", f.state(), replayTicks)
	}
	if s.ballReplay.Pending() != 0 || s.inputReplay.Pending() != 0 {
		t.Errorf("PreGame entered with pending snapshots: ball %d input %d", s.ballReplay.Pending(), s.inputReplay.Pending())
	}
	if s.ballReplay.Applied() != 1 || s.inputReplay.Applied() != 2 {
		t.Errorf("applied ball %d input %d, want 1 and 2", s.ballReplay.Applied(), s.inputReplay.Applied())
	}

	// Due at clock 290ms, then the restart pad
	wantMin := int((300*time.Millisecond - tick) / tick)
	wantMax := wantMin + int(s.Options().RestartDelay/tick) + 2
	if replayTicks < wantMin || replayTicks > wantMax {
		t.Errorf("replay + pad took %d ticks, want within [%d, %d]", replayTicks, wantMin, wantMax)
	}

	if !f.metrics.Bools.Get(status.KeyReplayVerified).Load() {
		t.Error("replay should verify against the captured digests")
	}
	if got := f.metrics.Strings.Get(status.KeyState).Load(); got != "PreGame" {
		t.Errorf("state metric = %q, want PreGame", got)
	}
	if f.sounds.lost != 1 || f.sounds.replay != 1 {
		t.Errorf("sounds lost=%d replay=%d, want 1 each", f.sounds.lost, f.sounds.replay)
	}

	select {
	case r := <-f.rec.rounds:
		if !r.Verified || r.BallSnapshots != 1 || r.InputSnapshots != 2 {
			t.Errorf("recorded round = %+v", r)
		}
		if r.Duration != 300*time.Millisecond || r.Difficulty != "medium" {
			t.Errorf("recorded round = %+v, want 300ms medium", r)
		}
	case <-time.After(time.Second):
		t.Error("round was not recorded")
	}
}

func TestSessionStreamsDrainIndependently(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	s := f.s

	s.Start()
	s.Serve()
	f.ticks(10)
	s.captureBall(s.ball.CreateMemento()) // 100ms
	f.ticks(40)
	s.captureInput(s.inputs.CreateMemento()) // 500ms, Lost adds another at 500ms

	f.lose(t)
	f.ticks(15)

	if s.ballReplay.Pending() != 0 {
		t.Errorf("ball stream pending = %d after 150ms of replay, want 0", s.ballReplay.Pending())
	}
	if s.inputReplay.Pending() == 0 {
		t.Error("input stream should still be pending at 150ms")
	}
	if f.state() != gamestate.ReplayRunning {
		t.Fatalf("state = %v, want ReplayRunning until both streams finish", f.state())
	}

	f.ticks(40)
	if s.inputReplay.Pending() != 0 {
		t.Errorf("input stream pending = %d after 550ms of replay", s.inputReplay.Pending())
	}
	if f.state() != gamestate.ReplayRunning {
		t.Errorf("state = %v, want ReplayRunning during the restart pad", f.state())
	}
	f.ticks(int(s.Options().RestartDelay / tick))
	if f.state() != gamestate.PreGame {
		t.Errorf("state = %v after the restart pad, want PreGame", f.state())
	}
}

func TestSessionCancelledReplayNeverRestarts(t *testing.T) {
	tests := []struct {
		name        string
		replayTicks int // ticks into the replay before InGame is forced
	}{
		{"while streams run", 5},
		{"during restart pad", 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, DefaultOptions())
			s := f.s

			s.Start()
			s.Serve()
			f.ticks(30)
			s.captureBall(s.ball.CreateMemento())
			f.lose(t)
			f.ticks(tt.replayTicks)

			if !s.Machine().Request(gamestate.InGame) {
				t.Fatal("ReplayRunning -> InGame should be accepted")
			}
			if s.ballTape.Len() != 0 || s.inputTape.Len() != 0 {
				t.Error("InGame should clear both caretakers")
			}

			// Short of the ball reaching the player paddle
			f.ticks(60)
			if f.state() != gamestate.InGame {
				t.Errorf("state = %v, cancelled replay must not request PreGame", f.state())
			}
			if f.cs.TaskCount() != 1 {
				t.Errorf("TaskCount() = %d, want only the input poller", f.cs.TaskCount())
			}
		})
	}
}

func TestSessionReplayRejectsLost(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	s := f.s

	s.Start()
	s.Serve()
	f.ticks(20)
	s.captureInput(s.inputs.CreateMemento())
	f.lose(t)

	if s.Machine().Request(gamestate.Lost) {
		t.Error("Lost during replay must be rejected")
	}
	if f.state() != gamestate.ReplayRunning {
		t.Errorf("state = %v, want ReplayRunning", f.state())
	}
	if f.sounds.lost != 1 {
		t.Errorf("lost sound played %d times, want 1", f.sounds.lost)
	}
}

func TestSessionLiveRoundEndsInDeadArea(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	s := f.s

	s.Start()
	s.Serve()

	// Hold left so the paddle leaves the ball's path
	for i := 0; i < 200 && f.state() == gamestate.InGame; i++ {
		s.HandleIntent(input.IntentLeft)
		f.ticks(1)
	}

	if f.state() != gamestate.Lost {
		t.Fatalf("state = %v, want Lost once the ball passes the paddle", f.state())
	}
	if s.player.Position().X() >= 0 {
		t.Errorf("player x = %v, want moved left", s.player.Position().X())
	}
	if s.inputTape.Len() < 2 {
		t.Errorf("input snapshots = %d, want the press and the Lost release", s.inputTape.Len())
	}
	if s.ballTape.Len() != 0 {
		t.Errorf("ball snapshots = %d, the ball never touched a paddle", s.ballTape.Len())
	}
	if f.s.inputs.Axis() != 0 {
		t.Errorf("axis = %v after Lost, want 0", f.s.inputs.Axis())
	}
}

func TestSessionPaddleHitCapturesBall(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	s := f.s

	s.Start()
	s.Serve()

	// Ball served straight down reaches the centered player paddle after ~0.9s
	f.ticks(100)

	if s.ballTape.Len() != 1 {
		t.Fatalf("ball snapshots = %d, want 1", s.ballTape.Len())
	}
	m, _ := s.ballTape.Peek()
	if m.State().Velocity.Y() <= 0 {
		t.Errorf("captured velocity %v, want moving up", m.State().Velocity)
	}
	if m.CreatedAt() < 850*time.Millisecond || m.CreatedAt() > 950*time.Millisecond {
		t.Errorf("hit captured at %v, want about 900ms", m.CreatedAt())
	}
	if f.sounds.bounce != 1 {
		t.Errorf("bounce sound played %d times, want 1", f.sounds.bounce)
	}
	if f.metrics.Ints.Get(status.KeyCaptureBall).Load() != 1 {
		t.Error("capture.ball metric not updated")
	}
}

func TestSessionAutoServe(t *testing.T) {
	opts := DefaultOptions()
	opts.AutoServe = 200 * time.Millisecond
	f := newFixture(t, opts)

	f.s.Start()
	f.ticks(19)
	if f.state() != gamestate.PreGame {
		t.Fatalf("state = %v before auto-serve, want PreGame", f.state())
	}
	f.ticks(1)
	if f.state() != gamestate.InGame {
		t.Fatalf("state = %v after auto-serve, want InGame", f.state())
	}
}

func TestSessionServeOnlyFromPreGame(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	if f.s.Serve() {
		t.Error("Serve() before Start should fail")
	}
	f.s.Start()
	f.s.HandleIntent(input.IntentServe)
	if f.state() != gamestate.InGame {
		t.Fatalf("serve intent: state = %v, want InGame", f.state())
	}
	if f.s.Serve() {
		t.Error("Serve() during InGame should fail")
	}
}

func TestSessionIntents(t *testing.T) {
	f := newFixture(t, DefaultOptions())

	f.s.HandleIntent(input.IntentQuit)
	if f.quits != 1 {
		t.Errorf("quit callbacks = %d, want 1", f.quits)
	}
	f.s.HandleIntent(input.IntentToggleMute)
	if !f.sounds.muted {
		t.Error("mute intent should toggle sounds")
	}
	f.s.HandleIntent(input.IntentNone)
}

func TestSessionSnapshot(t *testing.T) {
	f := newFixture(t, DefaultOptions())
	s := f.s
	s.Start()

	fr := s.Snapshot()
	if fr.State != gamestate.PreGame || fr.Width != parameter.ArenaWidth || fr.Height != parameter.ArenaHeight {
		t.Errorf("PreGame frame = %+v", fr)
	}
	if fr.Player.Y() != -parameter.PaddleOffsetY || fr.AI.Y() != parameter.PaddleOffsetY {
		t.Errorf("paddles at %v and %v", fr.Player, fr.AI)
	}

	s.Serve()
	f.ticks(30)
	s.captureBall(s.ball.CreateMemento())
	f.lose(t)

	fr = s.Snapshot()
	if fr.State != gamestate.ReplayRunning {
		t.Fatalf("frame state = %v, want ReplayRunning", fr.State)
	}
	if fr.ReplayPending == 0 {
		t.Error("replay frame should report pending snapshots")
	}
	if fr.RoundTime != 300*time.Millisecond {
		t.Errorf("frame round time = %v, want 300ms", fr.RoundTime)
	}
}

func TestSessionInvalidDifficultyDegrades(t *testing.T) {
	opts := DefaultOptions()
	opts.Difficulty = parameter.DifficultyInvalid
	f := newFixture(t, opts)

	errs := 0
	for _, e := range f.hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			errs++
		}
	}
	if errs != 2 {
		t.Errorf("error entries = %d, want 2 (ball speed and AI skill)", errs)
	}

	f.s.Start()
	f.s.Serve()
	f.ticks(10)
	if f.s.ball.Position() != (mgl32.Vec2{}) {
		t.Errorf("zero-speed ball moved to %v", f.s.ball.Position())
	}
}
