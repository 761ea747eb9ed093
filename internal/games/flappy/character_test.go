package flappy

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/gfx"
)

func newTestController(t *testing.T) *CharacterController {
	t.Helper()
	load := func() gfx.Texture {
		tex, err := gfx.PixelLoader{}.Load(solid(6, 4))
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		return tex
	}
	frames := AnimationFrames{Up: load(), Mid: load(), Down: load()}
	return NewCharacterController(core.V(10, 20), frames, config.DefaultFlappyConfig())
}

func TestControllerStartsNeutral(t *testing.T) {
	c := newTestController(t)

	if c.State() != StateNeutral {
		t.Errorf("initial state = %v, expected neutral", c.State())
	}
	ch := c.Character()
	if ch.Width != 6 || ch.Height != 4 {
		t.Errorf("character size = %dx%d, expected the frame size 6x4", ch.Width, ch.Height)
	}

	// Falling from neutral starts the clock from zero
	c.IntegrateGravity(0.1)
	if got := c.ElapsedInState(); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("elapsed after first fall = %v, expected 0.1", got)
	}
}

func TestApplyThrustPhysics(t *testing.T) {
	c := newTestController(t)
	cfg := config.DefaultFlappyConfig()

	pos := c.ApplyThrust(0.1)

	wantSpeed := -(cfg.Physics.Gravity * 0.1) - cfg.Physics.ThrustImpulse
	ch := c.Character()
	if math.Abs(ch.Speed-wantSpeed) > 1e-9 {
		t.Errorf("speed = %v, expected %v", ch.Speed, wantSpeed)
	}
	if math.Abs(pos.Y-(20+wantSpeed)) > 1e-9 {
		t.Errorf("y = %v, expected %v", pos.Y, 20+wantSpeed)
	}
	if ch.Angle != cfg.Tilt.ThrustAngle {
		t.Errorf("angle = %v, expected %v", ch.Angle, cfg.Tilt.ThrustAngle)
	}

	// Continued thrust accumulates time and rises faster
	c.ApplyThrust(0.1)
	if got := c.ElapsedInState(); math.Abs(got-0.2) > 1e-9 {
		t.Errorf("elapsed = %v, expected 0.2", got)
	}
	if c.Character().Speed >= wantSpeed {
		t.Error("sustained thrust should rise faster each frame")
	}
}

func TestGravityResetsClockAfterThrust(t *testing.T) {
	c := newTestController(t)

	c.ApplyThrust(0.05)
	c.ApplyThrust(0.05)
	c.IntegrateGravity(1.0 / 60)

	if got := c.ElapsedInState(); math.Abs(got-1.0/60) > 1e-9 {
		t.Errorf("elapsed after leaving thrust = %v, expected one frame", got)
	}

	prev := c.Character().Speed
	for i := 0; i < 10; i++ {
		c.IntegrateGravity(1.0 / 60)
		speed := c.Character().Speed
		if speed <= prev {
			t.Fatalf("fall should accelerate, speed went %v -> %v", prev, speed)
		}
		prev = speed
	}
	if c.State() != StateDescending {
		t.Errorf("state = %v, expected descending", c.State())
	}
}

func TestThrustMinimumDuration(t *testing.T) {
	minDur := config.DefaultFlappyConfig().Physics.MinThrustDuration

	frameTimes := [][]float64{
		{1.0 / 60},
		{1.0 / 30},
		{1.0 / 144},
		{0.01, 0.03, 0.02, 0.005}, // jittery
	}

	for _, dts := range frameTimes {
		c := newTestController(t)

		ascending := 0.0
		for i := 0; i < 200; i++ {
			dt := dts[i%len(dts)]
			c.ProcessInput(dt, i == 0)
			if c.State() != StateAscending {
				break
			}
			ascending += dt
		}

		if ascending < minDur-1e-9 {
			t.Errorf("dt %v: ascended for %v, expected at least %v", dts, ascending, minDur)
		}
		if ascending > minDur+0.05 {
			t.Errorf("dt %v: ascended for %v, thrust should end soon after %v", dts, ascending, minDur)
		}
	}
}

func TestRepeatedPressKeepsThrusting(t *testing.T) {
	c := newTestController(t)

	for i := 0; i < 60; i++ {
		c.ProcessInput(1.0/60, true)
		if c.State() != StateAscending {
			t.Fatalf("frame %d: held thrust should keep ascending", i)
		}
	}
}

func TestTiltClamp(t *testing.T) {
	c := newTestController(t)
	cfg := config.DefaultFlappyConfig()

	for i := 0; i < 500; i++ {
		c.IntegrateGravity(1.0 / 60)
		if a := c.Character().Angle; a > cfg.Tilt.Max {
			t.Fatalf("angle %v exceeds max %v", a, cfg.Tilt.Max)
		}
	}
	if a := c.Character().Angle; a != cfg.Tilt.Max {
		t.Errorf("angle after a long fall = %v, expected %v", a, cfg.Tilt.Max)
	}

	c.ApplyThrust(1.0 / 60)
	if a := c.Character().Angle; a != cfg.Tilt.ThrustAngle {
		t.Errorf("thrust should snap the angle to %v, got %v", cfg.Tilt.ThrustAngle, a)
	}
}

func TestSelectAnimationFrame(t *testing.T) {
	tests := []struct {
		angle float64
		want  AnimationFrame
	}{
		{-30, FrameDown},
		{-27, FrameDown},
		{-24, FrameDown},
		{-23, FrameUp},
		{0, FrameUp},
		{12, FrameUp},
		{12.5, FrameMid},
		{50, FrameMid},
		{-40, FrameUp},
	}

	c := newTestController(t)
	for _, tc := range tests {
		c.char.Angle = tc.angle
		if got := c.SelectAnimationFrame(); got != tc.want {
			t.Errorf("angle %v: frame = %v, expected %v", tc.angle, got, tc.want)
		}
	}
}

func TestUpdateDrawsSelectedFrameRotated(t *testing.T) {
	c := newTestController(t)

	var rec gfx.Recorder
	pos := c.Update(&rec, 1.0/60, true)

	cmds := rec.Commands()
	if len(cmds) != 1 {
		t.Fatalf("expected one draw, got %d", len(cmds))
	}
	cmd := cmds[0]
	if cmd.Texture != c.frames.Down {
		t.Error("thrust angle should draw the down frame")
	}
	if cmd.At != pos || cmd.Angle != c.Character().Angle {
		t.Errorf("draw at %v angle %v, expected %v angle %v", cmd.At, cmd.Angle, pos, c.Character().Angle)
	}
}

func TestResetRestoresStart(t *testing.T) {
	c := newTestController(t)
	for i := 0; i < 20; i++ {
		c.ProcessInput(1.0/60, i%5 == 0)
	}

	c.Reset(core.V(3, 4))
	ch := c.Character()
	if ch.Location != core.V(3, 4) || ch.Angle != 0 || ch.Speed != 0 || ch.State != StateNeutral {
		t.Errorf("Reset left %+v", ch)
	}
	if c.ElapsedInState() != 0 {
		t.Error("Reset should zero the state clock")
	}
}
