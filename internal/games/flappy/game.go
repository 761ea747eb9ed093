// Package flappy implements a side-scrolling flying game.
// The player keeps a bird aloft with short thrusts while pipe pairs scroll
// past over a looping background and ground strip.
package flappy

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/assets"
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/gfx"
)

// fpsSmoothing weights each new frame in the displayed FPS.
const fpsSmoothing = 0.1

// Overlay colors
var (
	overlayColor   = core.ColorWhite
	collisionColor = core.ColorRed
)

// Summary describes a session for run listings and replay checks.
type Summary struct {
	Frames             int
	Elapsed            float64
	Scroll             float64
	Position           core.Vec2
	Angle              float64
	State              State
	PairsSpawned       int
	PairsEvicted       int
	FloorContactFrames int
}

// Game wires the obstacle manager and character controller into one
// frame loop and draws the scenery around them.
type Game struct {
	cfg    config.FlappyConfig
	sheet  *assets.Sheet
	loader gfx.Loader
	logger *log.Logger
	diff   *config.DifficultyManager

	rt      core.RuntimeConfig
	groundY float64

	background gfx.Texture
	ground     gfx.Texture
	anim       AnimationFrames
	bgWrap     float64
	groundWrap float64

	obstacles *ObstacleManager
	character *CharacterController

	scroll       float64 // Total distance scrolled, never wraps
	bgOffset     float64
	groundOffset float64

	frames       int
	elapsed      float64
	fps          float64
	paused       bool
	floorContact bool
	contactCount int
	position     core.Vec2
}

// New creates a game. Textures are created by Reset, once the screen size
// is known. A nil logger discards output.
func New(cfg config.FlappyConfig, sheet *assets.Sheet, loader gfx.Loader, logger *log.Logger) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sheet == nil {
		return nil, errors.New("flappy: nil sprite sheet")
	}
	if loader == nil {
		return nil, errors.New("flappy: nil texture loader")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Game{
		cfg:    cfg,
		sheet:  sheet,
		loader: loader,
		logger: logger,
	}, nil
}

// Reset initializes or restarts the game for the given screen and seed.
// Textures from a previous session are released first.
func (g *Game) Reset(rt core.RuntimeConfig) error {
	if rt.ScreenW <= 0 || rt.ScreenH <= 0 {
		return fmt.Errorf("flappy: invalid screen size %dx%d", rt.ScreenW, rt.ScreenH)
	}
	if err := g.releaseTextures(); err != nil {
		g.logger.Warn("releasing previous session", "err", err)
	}

	g.rt = rt
	w, h := rt.ScreenW, rt.ScreenH
	groundH := g.sheet.Ground.Bounds().Dy()
	g.groundY = float64(h - groundH)

	if err := g.loadScenery(w, h, groundH); err != nil {
		if rerr := g.releaseTextures(); rerr != nil {
			err = errors.Join(err, rerr)
		}
		return err
	}

	spawn := core.V(float64(w), g.groundY)
	if g.obstacles == nil {
		om, err := NewObstacleManager(g.sheet.Pipe, g.loader, g.cfg.Obstacles, spawn, rt.Seed)
		if err != nil {
			return err
		}
		g.obstacles = om
	} else {
		g.obstacles.SetSpawnLocation(spawn)
		if err := g.obstacles.Reset(rt.Seed); err != nil {
			g.logger.Warn("clearing obstacles", "err", err)
		}
	}
	g.obstacles.SetLogger(g.logger)

	g.character = NewCharacterController(core.V(g.cfg.Player.X, float64(h)/2), g.anim, g.cfg)
	g.diff = config.NewDifficultyManager(g.cfg.Difficulty)

	g.scroll = 0
	g.bgOffset = 0
	g.groundOffset = 0
	g.frames = 0
	g.elapsed = 0
	g.fps = 0
	g.paused = false
	g.floorContact = false
	g.contactCount = 0
	g.position = g.character.Character().Location

	g.logger.Info("game reset", "seed", rt.Seed, "width", w, "height", h)
	return nil
}

// loadScenery derives and loads the background, ground and character
// textures for a w x h screen.
func (g *Game) loadScenery(w, h, groundH int) error {
	var err error

	g.bgWrap = float64(w)
	if g.background, err = g.loader.Load(gfx.Fit(g.sheet.Background, w, h)); err != nil {
		return fmt.Errorf("flappy: load background: %w", err)
	}

	// The ground loops every half screen, rounded up to whole tiles so the
	// seam is invisible.
	tileW := g.sheet.Ground.Bounds().Dx()
	wrap := max((w/2+tileW-1)/tileW, 1) * tileW
	g.groundWrap = float64(wrap)
	if g.ground, err = g.loader.Load(gfx.Tile(g.sheet.Ground, wrap, groundH)); err != nil {
		return fmt.Errorf("flappy: load ground: %w", err)
	}

	scale := g.cfg.Player.Scale
	for _, f := range []struct {
		name string
		src  image.Image
		dst  *gfx.Texture
	}{
		{"up", g.sheet.BirdUp, &g.anim.Up},
		{"mid", g.sheet.BirdMid, &g.anim.Mid},
		{"down", g.sheet.BirdDown, &g.anim.Down},
	} {
		if *f.dst, err = g.loader.Load(gfx.Scale(f.src, scale)); err != nil {
			return fmt.Errorf("flappy: load %s frame: %w", f.name, err)
		}
	}
	return nil
}

// Step advances the game by one frame and draws it onto dst.
func (g *Game) Step(dst gfx.Canvas, f core.Frame) (core.StepResult, error) {
	if g.character == nil {
		return core.StepResult{}, errors.New("flappy: Step before Reset")
	}

	// Handle pause toggle
	if f.Input.Has(core.ActionPause) {
		g.paused = !g.paused
		g.logger.Debug("pause toggled", "paused", g.paused, "frame", g.frames)
	}

	if g.paused {
		g.drawScenery(dst)
		g.obstacles.Render(dst)
		g.character.Draw(dst)
		g.drawOverlay(dst)
		return core.StepResult{State: g.State()}, nil
	}

	dt := math.Max(f.DT, 0)
	g.frames++
	g.elapsed += dt
	g.updateFPS(dt)

	speed := dt * g.diff.Speed(g.cfg.Physics.BaseSpeed, g.elapsed)
	g.obstacles.SetSpeed(speed)

	g.drawScenery(dst)

	if _, err := g.obstacles.Generate(g.scroll); err != nil {
		return core.StepResult{State: g.State()}, err
	}
	if err := g.obstacles.AdvanceAndRender(dst); err != nil {
		return core.StepResult{State: g.State()}, err
	}

	g.position = g.character.Update(dst, dt, f.Input.Has(core.ActionThrust))

	g.scroll += speed
	g.bgOffset = wrapOffset(g.bgOffset+speed*g.cfg.World.Parallax, g.bgWrap)
	g.groundOffset = wrapOffset(g.groundOffset+speed, g.groundWrap)

	contact := g.position.Y+float64(g.character.Character().Height) >= g.groundY
	if contact && !g.floorContact {
		g.logger.Debug("floor contact", "frame", g.frames, "y", g.position.Y)
	}
	g.floorContact = contact
	if contact {
		g.contactCount++
	}

	g.drawOverlay(dst)
	return core.StepResult{State: g.State()}, nil
}

// drawScenery draws the background and the ground strip.
func (g *Game) drawScenery(dst gfx.Canvas) {
	g.drawTiled(dst, g.background, g.bgWrap, g.bgOffset, 0)
	g.drawTiled(dst, g.ground, g.groundWrap, g.groundOffset, g.groundY)
}

// drawTiled repeats tex horizontally across the screen, shifted left by offset.
func (g *Game) drawTiled(dst gfx.Canvas, tex gfx.Texture, wrap, offset, y float64) {
	if tex == nil || wrap <= 0 {
		return
	}
	w, h := tex.Size()
	for x := -offset; x < float64(g.rt.ScreenW); x += wrap {
		dst.DrawTexture(tex, image.Rect(0, 0, w, h), core.V(x, y), 0)
	}
}

// drawOverlay draws the FPS counter and the status text.
func (g *Game) drawOverlay(dst gfx.Canvas) {
	dst.DrawText(1, 0, fmt.Sprintf("FPS: %d", int(math.Round(g.fps))), overlayColor)
	if g.floorContact {
		dst.DrawText(1, 2, "Collision!", collisionColor)
	}
	if g.paused {
		msg := "PAUSED"
		dst.DrawText((g.rt.ScreenW-len(msg))/2, g.rt.ScreenH/2, msg, overlayColor)
	}
}

func (g *Game) updateFPS(dt float64) {
	if dt <= 0 {
		return
	}
	inst := 1 / dt
	if g.fps == 0 {
		g.fps = inst
		return
	}
	g.fps += (inst - g.fps) * fpsSmoothing
}

// wrapOffset keeps offset within [0, wrap).
func wrapOffset(offset, wrap float64) float64 {
	if wrap <= 0 {
		return 0
	}
	return math.Mod(offset, wrap)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	n := 0
	if g.obstacles != nil {
		n = g.obstacles.Len()
	}
	return core.GameState{
		Frames:       g.frames,
		Elapsed:      g.elapsed,
		Position:     g.position,
		FloorContact: g.floorContact,
		Obstacles:    n,
		Paused:       g.paused,
	}
}

// Summary returns totals for the current session.
func (g *Game) Summary() Summary {
	s := Summary{
		Frames:             g.frames,
		Elapsed:            g.elapsed,
		Scroll:             g.scroll,
		Position:           g.position,
		FloorContactFrames: g.contactCount,
	}
	if g.character != nil {
		c := g.character.Character()
		s.Angle = c.Angle
		s.State = c.State
	}
	if g.obstacles != nil {
		st := g.obstacles.Stats()
		s.PairsSpawned = st.PairsSpawned
		s.PairsEvicted = st.PairsEvicted
	}
	return s
}

// Obstacles returns the obstacle manager. It is nil before Reset.
func (g *Game) Obstacles() *ObstacleManager {
	return g.obstacles
}

// Character returns the character controller. It is nil before Reset.
func (g *Game) Character() *CharacterController {
	return g.character
}

// GroundY returns the y coordinate of the ground line.
func (g *Game) GroundY() float64 {
	return g.groundY
}

// Config returns the configuration the game was created with.
func (g *Game) Config() config.FlappyConfig {
	return g.cfg
}

// Close releases every texture the game owns.
func (g *Game) Close() error {
	err := g.releaseTextures()
	g.logger.Debug("game closed", "frames", g.frames)
	return err
}

// releaseTextures releases scenery, character frames and obstacles.
func (g *Game) releaseTextures() error {
	var errs []error
	for _, tex := range []*gfx.Texture{&g.background, &g.ground, &g.anim.Up, &g.anim.Mid, &g.anim.Down} {
		if *tex == nil {
			continue
		}
		if err := (*tex).Release(); err != nil {
			errs = append(errs, err)
		}
		*tex = nil
	}
	if g.obstacles != nil {
		if err := g.obstacles.Clear(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
