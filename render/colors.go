package render

import (
	"github.com/gdamore/tcell/v2"
)

// Palette for the arena, objects and status bar
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbBorder     = tcell.NewRGBColor(180, 180, 180) // Brighter gray
	RgbCenterLine = tcell.NewRGBColor(60, 60, 60)    // Dark gray

	RgbBall         = tcell.NewRGBColor(255, 255, 255) // White
	RgbBallReplay   = tcell.NewRGBColor(255, 165, 0)   // Orange while replaying
	RgbPlayerPaddle = tcell.NewRGBColor(100, 150, 255) // Normal Blue
	RgbAIPaddle     = tcell.NewRGBColor(255, 80, 80)   // Normal Red

	RgbGameOver   = tcell.NewRGBColor(255, 0, 0)     // Error Red
	RgbReplayText = tcell.NewRGBColor(255, 255, 0)   // Bright Yellow
	RgbStartText  = tcell.NewRGBColor(144, 238, 144) // Light grass green

	RgbStatusText = tcell.NewRGBColor(0, 0, 0) // Dark text for status
)

// stateBackground returns the status bar mode color for a state name
func stateBackground(state string) tcell.Color {
	switch state {
	case "PreGame":
		return tcell.NewRGBColor(135, 206, 250) // Light sky blue
	case "InGame":
		return tcell.NewRGBColor(144, 238, 144) // Light grass green
	case "Lost":
		return tcell.NewRGBColor(200, 50, 50) // Red
	case "ReplayRunning":
		return tcell.NewRGBColor(255, 165, 0) // Orange
	default:
		return tcell.NewRGBColor(128, 128, 128)
	}
}
