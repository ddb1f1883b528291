package render

import (
	"sync/atomic"

	"github.com/lixenwraith/vi-pong/gamestate"
)

// Overlay texts
const (
	TextGameOver = "GAME OVER"
	TextReplay   = "REPLAY"
	TextStart    = "PRESS SPACE"
)

// Overlay tracks which state texts are visible
// Handlers run on the tick goroutine, Texts may be read from the render goroutine
type Overlay struct {
	gameOver atomic.Bool
	replay   atomic.Bool
	start    atomic.Bool

	subs []gamestate.Subscription
}

// NewOverlay creates an overlay with every text hidden
func NewOverlay() *Overlay {
	return &Overlay{}
}

// Bind subscribes the overlay to all four state notifications
func (o *Overlay) Bind(m *gamestate.Machine) {
	o.subs = append(o.subs,
		m.Subscribe(gamestate.PreGame, o.showPreGame),
		m.Subscribe(gamestate.InGame, o.showInGame),
		m.Subscribe(gamestate.Lost, o.showLost),
		m.Subscribe(gamestate.ReplayRunning, o.showReplay),
	)
}

// Unbind drops the overlay's subscriptions
func (o *Overlay) Unbind(m *gamestate.Machine) {
	for _, sub := range o.subs {
		m.Unsubscribe(sub)
	}
	o.subs = o.subs[:0]
}

func (o *Overlay) showPreGame() {
	o.replay.Store(false)
	o.gameOver.Store(false)
	o.start.Store(true)
}

// showInGame also clears the replay text, a replay can be interrupted by a new round
func (o *Overlay) showInGame() {
	o.start.Store(false)
	o.replay.Store(false)
	o.gameOver.Store(false)
}

func (o *Overlay) showLost() {
	o.gameOver.Store(true)
}

func (o *Overlay) showReplay() {
	o.gameOver.Store(false)
	o.replay.Store(true)
}

// Texts returns the visible texts, top to bottom
func (o *Overlay) Texts() []string {
	var texts []string
	if o.gameOver.Load() {
		texts = append(texts, TextGameOver)
	}
	if o.replay.Load() {
		texts = append(texts, TextReplay)
	}
	if o.start.Load() {
		texts = append(texts, TextStart)
	}
	return texts
}
