package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(48000)
)

// SoundManager plays the game's effects through one speaker mixer
// Every Play method is a no-op until Initialize succeeds, and while muted
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool
}

// NewSoundManager creates an uninitialized sound manager
func NewSoundManager() *SoundManager {
	return &SoundManager{
		mixer: &beep.Mixer{},
	}
}

// Initialize opens the speaker, failure leaves the manager silent
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup drops pending sounds and silences the manager
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	// beep has no speaker close; clearing the mixer stops output
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// ToggleMute flips mute and returns the new state
func (sm *SoundManager) ToggleMute() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.muted = !sm.muted
	return sm.muted
}

// Muted reports whether effects are muted
func (sm *SoundManager) Muted() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.muted
}

// PlayBounce plays a short rising blip for a paddle hit
func (sm *SoundManager) PlayBounce() {
	sm.play(bounceSound())
}

// PlayLost plays a low buzz when the round is lost
func (sm *SoundManager) PlayLost() {
	sm.play(lostSound())
}

// PlayReplay plays a two-note chirp when the replay starts
func (sm *SoundManager) PlayReplay() {
	sm.play(replaySound())
}

func (sm *SoundManager) play(s beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.muted {
		return
	}

	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

func bounceSound() beep.Streamer {
	n := sampleRate.N(time.Millisecond * 60)
	return beep.Take(n, NewToneGenerator(sampleRate, 660, 990, n, 30, 0.25))
}

func lostSound() beep.Streamer {
	return beep.Take(sampleRate.N(time.Millisecond*350), NewBuzzGenerator(sampleRate, 110))
}

func replaySound() beep.Streamer {
	n := sampleRate.N(time.Millisecond * 80)
	return beep.Seq(
		beep.Take(n, NewToneGenerator(sampleRate, 880, 880, n, 10, 0.2)),
		beep.Take(n, NewToneGenerator(sampleRate, 1320, 1320, n, 10, 0.2)),
	)
}
