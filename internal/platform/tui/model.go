package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/gfx"
)

// DefaultMaxFrameTime caps the duration of a single frame in seconds.
const DefaultMaxFrameTime = 0.25

// Session observes simulated frames. Play with recording enabled stores
// them; Restart is called before the game is reset with a new seed.
type Session interface {
	Record(dt float64, in core.InputFrame) error
	Restart(seed int64) error
}

// Option configures a Model.
type Option func(*Model)

// WithSession records every simulated frame. The screen size is fixed
// while recording so the run replays at the same size.
func WithSession(s Session) Option {
	return func(m *Model) {
		m.session = s
		m.fixedSize = true
	}
}

// WithReplay plays back frames instead of reading the keyboard.
// The program quits after the last frame.
func WithReplay(frames []core.Frame) Option {
	return func(m *Model) {
		m.replay = frames
		m.fixedSize = true
	}
}

// WithLogger sets the logger for frame errors and lifecycle events.
func WithLogger(l *log.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithHelp shows a key help line below the game.
func WithHelp(show bool) Option {
	return func(m *Model) {
		m.showHelp = show
	}
}

// Model is the Bubble Tea model for running the game.
type Model struct {
	game       *flappy.Game
	canvas     *gfx.PixelCanvas
	screen     *core.Screen
	renderer   *Renderer
	keys       KeyMap
	help       help.Model
	logger     *log.Logger
	config     core.RuntimeConfig
	clock      frameClock
	inputFrame core.InputFrame
	gameState  core.GameState

	session   Session
	replay    []core.Frame
	replayPos int
	fixedSize bool
	showHelp  bool

	quitting bool
	err      error
}

// NewModel creates a Bubble Tea model for game. The game must already be
// Reset with cfg. cfg dimensions are in pixels; the terminal shows two
// pixel rows per line.
func NewModel(game *flappy.Game, cfg core.RuntimeConfig, opts ...Option) Model {
	m := Model{
		game:       game,
		canvas:     gfx.NewPixelCanvas(cfg.ScreenW, cfg.ScreenH),
		screen:     core.NewScreen(cfg.ScreenW, (cfg.ScreenH+1)/2),
		renderer:   NewRenderer(),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		logger:     log.New(io.Discard),
		config:     cfg,
		clock:      newFrameClock(cfg.TickRate, DefaultMaxFrameTime),
		inputFrame: core.NewInputFrame(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	// Replays only listen for quit
	if m.replay != nil {
		if m.keys.Action(msg) == core.ActionQuit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if m.keys.Apply(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleResize follows the terminal size unless the size is fixed.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	if m.fixedSize {
		return m, nil
	}

	rows := msg.Height
	if m.showHelp {
		rows--
	}
	w, h := msg.Width, max(rows, 1)*2
	if w == m.config.ScreenW && h == m.config.ScreenH {
		return m, nil
	}

	// Reinitialize game with new dimensions
	m.config.ScreenW = w
	m.config.ScreenH = h
	m.canvas.Resize(w, h)
	m.screen.Resize(w, max(rows, 1))
	if err := m.game.Reset(m.config); err != nil {
		m.err = fmt.Errorf("resize to %dx%d: %w", w, h, err)
		m.quitting = true
		return m, tea.Quit
	}
	m.logger.Debug("resized", "width", w, "height", h)
	return m, nil
}

// handleTick simulates and draws one frame.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	var f core.Frame
	if m.replay != nil {
		if m.replayPos >= len(m.replay) {
			m.quitting = true
			return m, tea.Quit
		}
		f = m.replay[m.replayPos]
		m.replayPos++
	} else {
		// Check for restart
		if m.inputFrame.Has(core.ActionRestart) {
			return m.restart()
		}
		f = core.Frame{DT: m.clock.next(now), Input: m.inputFrame}
	}

	m.canvas.Clear()
	result, err := m.game.Step(m.canvas, f)
	if err != nil {
		m.err = err
		m.quitting = true
		return m, tea.Quit
	}
	m.gameState = result.State
	m.canvas.Present(m.screen)

	if m.session != nil {
		if err := m.session.Record(f.DT, f.Input); err != nil {
			// Best-effort recording, game continues regardless
			m.logger.Warn("recording frame", "err", err)
		}
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	// Continue ticking
	return m, tickCmd(m.config.TickRate)
}

// restart begins a new session with a fresh seed.
func (m Model) restart() (tea.Model, tea.Cmd) {
	m.config.Seed = time.Now().UnixNano()
	if m.session != nil {
		if err := m.session.Restart(m.config.Seed); err != nil {
			m.logger.Warn("restarting recording", "err", err)
		}
	}
	if err := m.game.Reset(m.config); err != nil {
		m.err = fmt.Errorf("restart: %w", err)
		m.quitting = true
		return m, tea.Quit
	}
	m.gameState = m.game.State()
	m.inputFrame.Clear()
	m.clock = newFrameClock(m.config.TickRate, DefaultMaxFrameTime)
	m.logger.Info("restarted", "seed", m.config.Seed)
	return m, tickCmd(m.config.TickRate)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	// Create screenshots directory
	dir := filepath.Join(os.Getenv("HOME"), ".flappy", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	// Generate filename with timestamp
	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("flappy_%s.txt", timestamp))

	// Save screenshot
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("saving screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	out := m.renderer.Render(m.screen)
	if m.showHelp {
		out += "\n" + m.help.ShortHelpView(m.keys.ShortHelp())
	}
	return out
}

// Err returns the error that stopped the program, if any.
func (m Model) Err() error {
	return m.err
}

// State returns the game state after the last frame.
func (m Model) State() core.GameState {
	return m.gameState
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(game *flappy.Game, cfg core.RuntimeConfig, opts ...Option) error {
	model := NewModel(game, cfg, opts...)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}
