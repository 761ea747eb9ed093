package flappy

import (
	"image"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/gfx"
)

// State is the character's motion state.
type State int

const (
	StateNeutral    State = iota // Only before the first update
	StateAscending               // Thrusting
	StateDescending              // Falling under gravity
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateNeutral:
		return "neutral"
	case StateAscending:
		return "ascending"
	case StateDescending:
		return "descending"
	default:
		return "unknown"
	}
}

// AnimationFrame identifies one of the character textures.
type AnimationFrame int

const (
	FrameUp AnimationFrame = iota
	FrameMid
	FrameDown
)

// String returns a human-readable name for the frame.
func (f AnimationFrame) String() string {
	switch f {
	case FrameUp:
		return "up"
	case FrameMid:
		return "mid"
	case FrameDown:
		return "down"
	default:
		return "unknown"
	}
}

// AnimationFrames are the three textures the character cycles through.
// They share one size.
type AnimationFrames struct {
	Up   gfx.Texture
	Mid  gfx.Texture
	Down gfx.Texture
}

func (a AnimationFrames) texture(f AnimationFrame) gfx.Texture {
	switch f {
	case FrameUp:
		return a.Up
	case FrameDown:
		return a.Down
	default:
		return a.Mid
	}
}

// Character is the kinematic state of the player.
type Character struct {
	Location core.Vec2 // Top-left corner
	Angle    float64   // Degrees, positive is nose down
	Speed    float64   // Vertical distance moved last frame, negative is up
	State    State
	Width    int
	Height   int
}

// CharacterController moves the character from thrust input and gravity.
// Every per-frame call takes the elapsed frame time explicitly.
type CharacterController struct {
	char    Character
	frames  AnimationFrames
	elapsed float64 // Time spent in the current state

	physics config.FlappyPhysics
	tilt    config.FlappyTilt
	anim    config.FlappyAnimation
}

// NewCharacterController creates a controller for a character at start.
func NewCharacterController(start core.Vec2, frames AnimationFrames, cfg config.FlappyConfig) *CharacterController {
	c := &CharacterController{
		frames:  frames,
		physics: cfg.Physics,
		tilt:    cfg.Tilt,
		anim:    cfg.Animation,
	}
	if frames.Mid != nil {
		c.char.Width, c.char.Height = frames.Mid.Size()
	}
	c.Reset(start)
	return c
}

// Reset puts the character back at start, level and neutral.
func (c *CharacterController) Reset(start core.Vec2) {
	c.char.Location = start
	c.char.Angle = 0
	c.char.Speed = 0
	c.char.State = StateNeutral
	c.elapsed = 0
}

// ApplyThrust moves the character up. Time in state restarts when the
// character was not already ascending.
func (c *CharacterController) ApplyThrust(dt float64) core.Vec2 {
	if c.char.State != StateAscending {
		c.elapsed = dt
	} else {
		c.elapsed += dt
	}
	c.char.State = StateAscending
	c.char.Speed = -(c.physics.Gravity * c.elapsed) - c.physics.ThrustImpulse
	c.char.Location.Y += c.char.Speed
	c.char.Angle = c.tilt.ThrustAngle
	return c.char.Location
}

// IntegrateGravity makes the character fall, faster the longer it has been
// falling, and tilts it nose down up to the maximum. Time in state restarts
// only when leaving a thrust.
func (c *CharacterController) IntegrateGravity(dt float64) core.Vec2 {
	if c.char.State == StateAscending {
		c.elapsed = dt
	} else {
		c.elapsed += dt
	}
	c.char.State = StateDescending
	c.char.Speed = c.physics.Gravity * c.elapsed
	c.char.Location.Y += c.char.Speed
	c.char.Angle = min(c.char.Angle+c.tilt.Step, c.tilt.Max)
	return c.char.Location
}

// ProcessInput thrusts when thrust is pressed or a thrust started less than
// the minimum thrust duration ago; otherwise it applies gravity.
func (c *CharacterController) ProcessInput(dt float64, thrust bool) core.Vec2 {
	if thrust || (c.char.State == StateAscending && c.elapsed < c.physics.MinThrustDuration) {
		return c.ApplyThrust(dt)
	}
	return c.IntegrateGravity(dt)
}

// SelectAnimationFrame picks the frame for the current angle.
func (c *CharacterController) SelectAnimationFrame() AnimationFrame {
	a := c.char.Angle
	switch {
	case a >= c.anim.DownMin && a <= c.anim.DownMax:
		return FrameDown
	case a <= c.anim.UpMax:
		return FrameUp
	default:
		return FrameMid
	}
}

// Draw draws the current frame rotated by the angle about the top-left corner.
func (c *CharacterController) Draw(dst gfx.Canvas) {
	tex := c.frames.texture(c.SelectAnimationFrame())
	if tex == nil {
		return
	}
	dst.DrawTexture(tex, image.Rect(0, 0, c.char.Width, c.char.Height), c.char.Location, c.char.Angle)
}

// Update processes input, draws the character and returns its position.
func (c *CharacterController) Update(dst gfx.Canvas, dt float64, thrust bool) core.Vec2 {
	pos := c.ProcessInput(dt, thrust)
	c.Draw(dst)
	return pos
}

// Character returns a copy of the character state.
func (c *CharacterController) Character() Character {
	return c.char
}

// State returns the current motion state.
func (c *CharacterController) State() State {
	return c.char.State
}

// ElapsedInState returns the time spent in the current state.
func (c *CharacterController) ElapsedInState() float64 {
	return c.elapsed
}
