// Package tui provides the Bubble Tea frontend for the game.
// It handles the terminal UI loop, input mapping and frame timing.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation frame.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// frameClock turns tick timestamps into frame durations.
type frameClock struct {
	last    time.Time
	nominal float64 // Used for the first frame
	maxDT   float64 // Longer gaps (suspend, debugger) are clamped
}

func newFrameClock(tickRate int, maxDT float64) frameClock {
	if tickRate <= 0 {
		tickRate = 60
	}
	return frameClock{nominal: 1 / float64(tickRate), maxDT: maxDT}
}

// next returns the seconds elapsed since the previous tick.
func (c *frameClock) next(now time.Time) float64 {
	if c.last.IsZero() {
		c.last = now
		return c.nominal
	}
	dt := now.Sub(c.last).Seconds()
	c.last = now
	if dt < 0 {
		dt = 0
	}
	if c.maxDT > 0 && dt > c.maxDT {
		dt = c.maxDT
	}
	return dt
}
