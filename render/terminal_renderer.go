package render

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/vi-pong/game"
	"github.com/lixenwraith/vi-pong/gamestate"
)

// Cells per world unit, terminal cells are roughly twice as tall as wide
const (
	cellsPerUnitX = 2
	cellsPerUnitY = 1
)

// Glyphs
const (
	ballRune   = '●'
	paddleRune = '█'
	centerRune = '·'
)

// Renderer draws frame snapshots on a terminal screen
type Renderer struct {
	screen tcell.Screen

	// Arena interior origin and size in cells, recomputed each frame
	originX, originY int
	cols, rows       int
	width, height    float32
}

// NewRenderer creates a renderer on an initialized screen
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Draw renders the entire frame: arena, objects, overlay texts and status bar
func (r *Renderer) Draw(f game.Frame, texts []string, status string) {
	r.screen.Clear()
	defaultStyle := tcell.StyleDefault.Background(RgbBackground)
	r.layout(f)

	r.fill(defaultStyle)
	r.drawBorder(defaultStyle)
	r.drawCenterLine(defaultStyle)

	r.drawPaddle(f.AI, f.PaddleHalf, defaultStyle.Foreground(RgbAIPaddle))
	r.drawPaddle(f.Player, f.PaddleHalf, defaultStyle.Foreground(RgbPlayerPaddle))

	ballStyle := defaultStyle.Foreground(RgbBall)
	if f.State == gamestate.ReplayRunning {
		ballStyle = defaultStyle.Foreground(RgbBallReplay)
	}
	r.drawBall(f.Ball, ballStyle)

	r.drawOverlay(texts, defaultStyle)
	r.drawStatusBar(f, status, defaultStyle)

	r.screen.Show()
}

// layout centers the arena on the screen, leaving the last row for the status bar
func (r *Renderer) layout(f game.Frame) {
	sw, sh := r.screen.Size()
	r.width, r.height = f.Width, f.Height
	r.cols = int(f.Width * cellsPerUnitX)
	r.rows = int(f.Height * cellsPerUnitY)
	r.originX = max(1, (sw-r.cols)/2)
	r.originY = max(1, (sh-1-r.rows)/2)
}

// toCell maps a world position to a screen cell, clamped to the arena interior
func (r *Renderer) toCell(p mgl32.Vec2) (x, y int) {
	cx := int(math32.Floor((p.X() + r.width/2) * cellsPerUnitX))
	cy := int(math32.Floor((r.height/2 - p.Y()) * cellsPerUnitY))
	cx = min(max(cx, 0), r.cols-1)
	cy = min(max(cy, 0), r.rows-1)
	return r.originX + cx, r.originY + cy
}

func (r *Renderer) fill(style tcell.Style) {
	for y := 0; y < r.rows; y++ {
		for x := 0; x < r.cols; x++ {
			r.screen.SetContent(r.originX+x, r.originY+y, ' ', nil, style)
		}
	}
}

func (r *Renderer) drawBorder(defaultStyle tcell.Style) {
	style := defaultStyle.Foreground(RgbBorder)
	left, right := r.originX-1, r.originX+r.cols
	top, bottom := r.originY-1, r.originY+r.rows

	for x := left + 1; x < right; x++ {
		r.screen.SetContent(x, top, tcell.RuneHLine, nil, style)
		r.screen.SetContent(x, bottom, tcell.RuneHLine, nil, style)
	}
	for y := top + 1; y < bottom; y++ {
		r.screen.SetContent(left, y, tcell.RuneVLine, nil, style)
		r.screen.SetContent(right, y, tcell.RuneVLine, nil, style)
	}
	r.screen.SetContent(left, top, tcell.RuneULCorner, nil, style)
	r.screen.SetContent(right, top, tcell.RuneURCorner, nil, style)
	r.screen.SetContent(left, bottom, tcell.RuneLLCorner, nil, style)
	r.screen.SetContent(right, bottom, tcell.RuneLRCorner, nil, style)
}

func (r *Renderer) drawCenterLine(defaultStyle tcell.Style) {
	style := defaultStyle.Foreground(RgbCenterLine)
	_, y := r.toCell(mgl32.Vec2{})
	for x := 0; x < r.cols; x += 2 {
		r.screen.SetContent(r.originX+x, y, centerRune, nil, style)
	}
}

// drawPaddle fills the cells covered by the paddle's width on its center row
func (r *Renderer) drawPaddle(center, half mgl32.Vec2, style tcell.Style) {
	x0, y := r.toCell(mgl32.Vec2{center.X() - half.X(), center.Y()})
	x1, _ := r.toCell(mgl32.Vec2{center.X() + half.X(), center.Y()})
	for x := x0; x <= x1; x++ {
		r.screen.SetContent(x, y, paddleRune, nil, style)
	}
}

func (r *Renderer) drawBall(center mgl32.Vec2, style tcell.Style) {
	x, y := r.toCell(center)
	r.screen.SetContent(x, y, ballRune, nil, style)
}

// drawOverlay centers the state texts around the middle of the arena
func (r *Renderer) drawOverlay(texts []string, defaultStyle tcell.Style) {
	if len(texts) == 0 {
		return
	}
	midY := r.originY + r.rows/2 - len(texts)
	for i, text := range texts {
		style := defaultStyle.Bold(true).Foreground(overlayColor(text))
		x := r.originX + (r.cols-len(text))/2
		r.drawText(x, midY+i*2, text, style)
	}
}

func overlayColor(text string) tcell.Color {
	switch text {
	case TextGameOver:
		return RgbGameOver
	case TextReplay:
		return RgbReplayText
	default:
		return RgbStartText
	}
}

// drawStatusBar renders the state block, round info and the metrics line on the last row
func (r *Renderer) drawStatusBar(f game.Frame, status string, defaultStyle tcell.Style) {
	sw, sh := r.screen.Size()
	y := sh - 1
	for x := 0; x < sw; x++ {
		r.screen.SetContent(x, y, ' ', nil, defaultStyle)
	}

	state := f.State.String()
	modeText := " " + state + " "
	x := r.drawText(0, y, modeText, defaultStyle.Foreground(RgbStatusText).Background(stateBackground(state)))

	info := fmt.Sprintf(" %s  %s", f.Difficulty, formatRoundTime(f.RoundTime))
	if f.State == gamestate.ReplayRunning {
		info += fmt.Sprintf("  replay %s  pending %d", formatRoundTime(f.ReplayClock), f.ReplayPending)
	}
	x = r.drawText(x, y, info, defaultStyle.Foreground(tcell.ColorWhite))

	if status != "" {
		r.drawText(x+2, y, status, defaultStyle.Foreground(RgbBorder))
	}
}

// drawText writes s from (x, y) and returns the column after the last rune
func (r *Renderer) drawText(x, y int, s string, style tcell.Style) int {
	for _, ch := range s {
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}

func formatRoundTime(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
