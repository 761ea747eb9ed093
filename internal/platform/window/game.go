package window

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/gfx"
	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
)

// DefaultScale is the window size multiplier over the logical resolution.
const DefaultScale = 4

// Key bindings, mirroring the terminal frontend.
var (
	thrustKeys  = []ebiten.Key{ebiten.KeySpace, ebiten.KeyW, ebiten.KeyArrowUp}
	pauseKeys   = []ebiten.Key{ebiten.KeyP, ebiten.KeyEscape}
	restartKeys = []ebiten.Key{ebiten.KeyR}
	quitKeys    = []ebiten.Key{ebiten.KeyQ}
)

// Options configures the window frontend.
type Options struct {
	Scale   float64
	Title   string
	Session tui.Session
	Logger  *log.Logger
}

// Game adapts a flappy.Game to ebiten.Game. The simulation runs in Update
// into a recorder; Draw replays the recorded frame onto the window.
type Game struct {
	game   *flappy.Game
	config core.RuntimeConfig
	opts   Options
	logger *log.Logger
	frame  gfx.Recorder
	input  core.InputFrame
	state  core.GameState
	world  *ebiten.Image
}

// NewGame wraps game, which must already be Reset with cfg.
func NewGame(game *flappy.Game, cfg core.RuntimeConfig, opts Options) *Game {
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Game{
		game:   game,
		config: cfg,
		opts:   opts,
		logger: logger,
		input:  core.NewInputFrame(),
		world:  ebiten.NewImage(cfg.ScreenW, cfg.ScreenH),
	}
}

func anyJustPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

// pollInput collects this tick's key presses.
func (g *Game) pollInput() {
	g.input.Clear()
	if anyJustPressed(thrustKeys) {
		g.input.Set(core.ActionThrust)
	}
	if anyJustPressed(pauseKeys) {
		g.input.Set(core.ActionPause)
	}
	if anyJustPressed(restartKeys) {
		g.input.Set(core.ActionRestart)
	}
	if anyJustPressed(quitKeys) {
		g.input.Set(core.ActionQuit)
	}
}

// Update simulates one frame. Ebiten calls it TPS times per second.
func (g *Game) Update() error {
	g.pollInput()
	return g.step(1/float64(ebiten.TPS()))
}

// step runs the simulation for one frame with the polled input.
func (g *Game) step(dt float64) error {
	if g.input.Has(core.ActionQuit) {
		return ebiten.Termination
	}
	if g.input.Has(core.ActionRestart) {
		return g.restart()
	}

	g.frame.Reset()
	result, err := g.game.Step(&g.frame, core.Frame{DT: dt, Input: g.input})
	if err != nil {
		return err
	}
	g.state = result.State

	if g.opts.Session != nil {
		if err := g.opts.Session.Record(dt, g.input); err != nil {
			g.logger.Warn("recording frame", "err", err)
		}
	}
	return nil
}

// restart resets the game with a fresh seed.
func (g *Game) restart() error {
	g.config.Seed = time.Now().UnixNano()
	if g.opts.Session != nil {
		if err := g.opts.Session.Restart(g.config.Seed); err != nil {
			g.logger.Warn("restarting recording", "err", err)
		}
	}
	if err := g.game.Reset(g.config); err != nil {
		return fmt.Errorf("restart: %w", err)
	}
	g.frame.Reset()
	g.state = g.game.State()
	g.logger.Info("restarted", "seed", g.config.Seed)
	return nil
}

// Draw replays the last simulated frame.
func (g *Game) Draw(screen *ebiten.Image) {
	g.world.Clear()
	c := canvas{world: g.world, overlay: screen, scale: g.opts.Scale}

	// Textures first so the scaled world does not cover the text
	for _, cmd := range g.frame.Commands() {
		if cmd.Kind == gfx.CommandTexture {
			c.DrawTexture(cmd.Texture, cmd.Src, cmd.At, cmd.Angle)
		}
	}

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(g.opts.Scale, g.opts.Scale)
	screen.DrawImage(g.world, &op)

	for _, cmd := range g.frame.Commands() {
		if cmd.Kind == gfx.CommandText {
			c.DrawText(cmd.X, cmd.Y, cmd.Text, cmd.Color)
		}
	}
}

// Layout reports the window size in screen pixels.
func (g *Game) Layout(int, int) (int, int) {
	return g.windowSize()
}

func (g *Game) windowSize() (int, int) {
	return int(float64(g.config.ScreenW) * g.opts.Scale), int(float64(g.config.ScreenH) * g.opts.Scale)
}

// State returns the game state after the last frame.
func (g *Game) State() core.GameState {
	return g.state
}

// Run opens the window and blocks until it is closed or the player quits.
func Run(game *flappy.Game, cfg core.RuntimeConfig, opts Options) error {
	g := NewGame(game, cfg, opts)

	w, h := g.windowSize()
	ebiten.SetWindowSize(w, h)
	title := opts.Title
	if title == "" {
		title = "Flappy"
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetTPS(max(cfg.TickRate, 1))

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
