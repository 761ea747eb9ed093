package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/assets"
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/gfx"
)

// newLogger creates a logger writing to w at the --log-level level.
func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "flappy",
		Level:           lvl,
	})
	return logger, nil
}

// openLogFile opens ~/.flappy/flappy.log for appending. Terminal play logs
// there because stderr shares the alt screen.
func openLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(home, ".flappy")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "flappy.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
}

// loadConfig loads the game config and applies the --difficulty preset.
func loadConfig(path, difficulty string) (config.FlappyConfig, error) {
	cfg, err := config.LoadFlappy(path)
	if err != nil {
		return cfg, err
	}
	if difficulty != "" {
		preset, err := config.ParsePreset(difficulty)
		if err != nil {
			return cfg, err
		}
		config.ApplyFlappyPreset(&cfg, preset)
	}
	return cfg, cfg.Validate()
}

// resolveSeed returns seed, or a time-based seed when it is zero.
func resolveSeed(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}

// newGame creates a game whose textures are tracked by the returned pool.
func newGame(cfg config.FlappyConfig, loader gfx.Loader, logger *log.Logger) (*flappy.Game, *gfx.Pool, error) {
	sheet, err := assets.Load()
	if err != nil {
		return nil, nil, err
	}
	pool := gfx.NewPool(loader)
	game, err := flappy.New(cfg, sheet, pool, logger)
	if err != nil {
		return nil, nil, err
	}
	return game, pool, nil
}

// closeGame releases the game's textures and warns about any still live.
func closeGame(game *flappy.Game, pool *gfx.Pool, logger *log.Logger) {
	if err := game.Close(); err != nil {
		logger.Warn("releasing textures", "err", err)
	}
	if n := pool.Live(); n > 0 {
		logger.Warn("textures leaked", "live", n, "loaded", pool.Loaded())
		return
	}
	logger.Debug("textures released", "loaded", pool.Loaded())
}

// runtimeConfig builds a RuntimeConfig from the global flags.
func runtimeConfig(w, h int) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  w,
		ScreenH:  h,
		TickRate: flagFPS,
		Seed:     resolveSeed(flagSeed),
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
