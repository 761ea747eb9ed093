package gfx

import (
	"image"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Canvas is the draw surface the game renders onto each frame.
// Coordinates are in pixels with the origin at the top-left corner.
type Canvas interface {
	// DrawTexture draws the src region of tex with its top-left corner at
	// at, rotated by angle degrees (clockwise) about that corner.
	DrawTexture(tex Texture, src image.Rectangle, at core.Vec2, angle float64)

	// DrawText draws overlay text with its top-left corner at (x, y).
	DrawText(x, y int, text string, c core.Color)
}

// CommandKind identifies a recorded draw call.
type CommandKind int

const (
	CommandTexture CommandKind = iota
	CommandText
)

// Command is one recorded draw call.
type Command struct {
	Kind    CommandKind
	Texture Texture
	Src     image.Rectangle
	At      core.Vec2
	Angle   float64
	X, Y    int
	Text    string
	Color   core.Color
}

// Recorder is a Canvas that records draw calls instead of executing them.
// The window frontend simulates in Update and replays in Draw; tests use it
// to inspect draw order.
type Recorder struct {
	cmds []Command
}

// DrawTexture records a texture draw.
func (r *Recorder) DrawTexture(tex Texture, src image.Rectangle, at core.Vec2, angle float64) {
	r.cmds = append(r.cmds, Command{
		Kind:    CommandTexture,
		Texture: tex,
		Src:     src,
		At:      at,
		Angle:   angle,
	})
}

// DrawText records a text draw.
func (r *Recorder) DrawText(x, y int, text string, c core.Color) {
	r.cmds = append(r.cmds, Command{
		Kind:  CommandText,
		X:     x,
		Y:     y,
		Text:  text,
		Color: c,
	})
}

// Commands returns the recorded calls in draw order.
func (r *Recorder) Commands() []Command {
	return r.cmds
}

// Reset forgets all recorded calls, keeping the allocation.
func (r *Recorder) Reset() {
	r.cmds = r.cmds[:0]
}

// Replay executes the recorded calls on dst in order.
func (r *Recorder) Replay(dst Canvas) {
	for _, c := range r.cmds {
		switch c.Kind {
		case CommandTexture:
			dst.DrawTexture(c.Texture, c.Src, c.At, c.Angle)
		case CommandText:
			dst.DrawText(c.X, c.Y, c.Text, c.Color)
		}
	}
}

// Discard is a Canvas that draws nothing. Headless replays use it.
type Discard struct{}

// DrawTexture does nothing.
func (Discard) DrawTexture(Texture, image.Rectangle, core.Vec2, float64) {}

// DrawText does nothing.
func (Discard) DrawText(int, int, string, core.Color) {}
