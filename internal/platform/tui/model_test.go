package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-flappy/internal/assets"
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/gfx"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestKeyMapActions(t *testing.T) {
	keys := DefaultKeyMap()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.Action
	}{
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionThrust},
		{"w", runeKey('w'), core.ActionThrust},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, core.ActionThrust},
		{"p", runeKey('p'), core.ActionPause},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionPause},
		{"r", runeKey('r'), core.ActionRestart},
		{"q", runeKey('q'), core.ActionQuit},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{"unbound", runeKey('x'), core.ActionNone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := keys.Action(tc.msg); got != tc.want {
				t.Errorf("Action(%q) = %v, expected %v", tc.msg.String(), got, tc.want)
			}
		})
	}

	frame := core.NewInputFrame()
	if quit := keys.Apply(runeKey('w'), &frame); quit || !frame.Has(core.ActionThrust) {
		t.Error("Apply(w) should set thrust without quitting")
	}
	if quit := keys.Apply(runeKey('q'), &frame); !quit {
		t.Error("Apply(q) should report quit")
	}
}

func TestFrameClock(t *testing.T) {
	c := newFrameClock(50, 0.25)
	start := time.Unix(100, 0)

	if dt := c.next(start); dt != 0.02 {
		t.Errorf("first frame dt = %v, expected nominal 0.02", dt)
	}
	if dt := c.next(start.Add(30 * time.Millisecond)); dt != 0.03 {
		t.Errorf("dt = %v, expected 0.03", dt)
	}
	if dt := c.next(start.Add(5 * time.Second)); dt != 0.25 {
		t.Errorf("long gap dt = %v, expected clamp to 0.25", dt)
	}
}

func newTestModel(t *testing.T, opts ...Option) Model {
	t.Helper()
	sheet, err := assets.Load()
	if err != nil {
		t.Fatal(err)
	}
	game, err := flappy.New(config.DefaultFlappyConfig(), sheet, gfx.PixelLoader{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	cfg := core.RuntimeConfig{ScreenW: 40, ScreenH: 30, TickRate: 60, Seed: 1}
	if err := game.Reset(cfg); err != nil {
		t.Fatal(err)
	}
	return NewModel(game, cfg, opts...)
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestModelTickSimulatesAndDraws(t *testing.T) {
	m := newTestModel(t)

	m, cmd := step(t, m, TickMsg(time.Now()))
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if m.State().Frames != 1 {
		t.Errorf("frames = %d, expected 1", m.State().Frames)
	}
	if m.screen.Height() != 15 {
		t.Errorf("screen rows = %d, expected half the pixel height", m.screen.Height())
	}

	view := m.View()
	if !strings.Contains(view, "FPS") {
		t.Error("view should contain the FPS overlay")
	}
}

func TestModelThrustMovesCharacterUp(t *testing.T) {
	m := newTestModel(t)
	startY := m.game.Character().Character().Location.Y

	m, _ = step(t, m, runeKey('w'))
	m, _ = step(t, m, TickMsg(time.Now()))

	if y := m.State().Position.Y; y >= startY {
		t.Errorf("thrust should move up: %v -> %v", startY, y)
	}
	if m.inputFrame.Has(core.ActionThrust) {
		t.Error("input should be cleared after the tick")
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t)

	m, cmd := step(t, m, runeKey('q'))
	if cmd == nil || !m.quitting {
		t.Fatal("q should quit")
	}
	if m.View() != "" {
		t.Error("view should be empty once quitting")
	}
}

func TestModelResize(t *testing.T) {
	m := newTestModel(t, WithHelp(true))

	m, _ = step(t, m, tea.WindowSizeMsg{Width: 60, Height: 21})
	if m.config.ScreenW != 60 || m.config.ScreenH != 40 {
		t.Errorf("pixel size = %dx%d, expected 60x40 (one row kept for help)", m.config.ScreenW, m.config.ScreenH)
	}
	if w, h := m.canvas.Size(); w != 60 || h != 40 {
		t.Errorf("canvas = %dx%d, expected 60x40", w, h)
	}
}

type fakeSession struct {
	frames   int
	restarts []int64
}

func (s *fakeSession) Record(float64, core.InputFrame) error {
	s.frames++
	return nil
}

func (s *fakeSession) Restart(seed int64) error {
	s.restarts = append(s.restarts, seed)
	return nil
}

func TestModelRecordsAndRestarts(t *testing.T) {
	sess := &fakeSession{}
	m := newTestModel(t, WithSession(sess))

	now := time.Now()
	for i := 0; i < 5; i++ {
		m, _ = step(t, m, TickMsg(now.Add(time.Duration(i)*16*time.Millisecond)))
	}
	if sess.frames != 5 {
		t.Errorf("recorded %d frames, expected 5", sess.frames)
	}

	// Recording pins the screen size
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 50})
	if m.config.ScreenW != 40 {
		t.Error("resize should be ignored while recording")
	}

	m, _ = step(t, m, runeKey('r'))
	m, _ = step(t, m, TickMsg(now.Add(time.Second)))
	if len(sess.restarts) != 1 {
		t.Fatalf("expected one restart, got %d", len(sess.restarts))
	}
	if m.State().Frames != 0 {
		t.Errorf("restart should reset the game, frames=%d", m.State().Frames)
	}
}

func TestModelReplayQuitsAtEnd(t *testing.T) {
	thrust := core.NewInputFrame()
	thrust.Set(core.ActionThrust)
	frames := []core.Frame{
		{DT: 1.0 / 60, Input: thrust},
		{DT: 1.0 / 60, Input: core.NewInputFrame()},
	}
	m := newTestModel(t, WithReplay(frames))

	// Keyboard input is ignored during replay
	m, _ = step(t, m, runeKey('p'))

	now := time.Now()
	m, _ = step(t, m, TickMsg(now))
	m, _ = step(t, m, TickMsg(now))
	if m.State().Frames != 2 || m.State().Paused {
		t.Errorf("state after replay = %+v", m.State())
	}

	m, cmd := step(t, m, TickMsg(now))
	if cmd == nil || !m.quitting {
		t.Error("replay should quit after the last frame")
	}
}

func TestRendererGroupsRuns(t *testing.T) {
	s := core.NewScreen(4, 2)
	red := core.RGB(255, 0, 0)
	s.SetCell(0, 0, core.Cell{Rune: 'a', Fg: red})
	s.SetCell(1, 0, core.Cell{Rune: 'b', Fg: red})

	r := NewRenderer()
	out := r.Render(s)
	if !strings.Contains(out, "ab") {
		t.Errorf("same-colored cells should render as one run: %q", out)
	}
	if len(r.styles) != 1 {
		t.Errorf("cached %d styles, expected 1 (default cells are unstyled)", len(r.styles))
	}
	if lines := strings.Split(out, "\n"); len(lines) != 2 || lines[1] != "    " {
		t.Errorf("unexpected rows: %q", lines)
	}
}
