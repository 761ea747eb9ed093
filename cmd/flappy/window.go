package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/platform/window"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var (
	flagScale        float64
	flagWindowWidth  int
	flagWindowHeight int
	flagWindowRecord bool
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Play in a desktop window",
	Long: `Open a desktop window and play there. The game renders at a small
logical resolution which is scaled up by --scale.

Controls:
  Space/W/Up - Thrust
  P/Esc      - Pause
  R          - Restart with a new seed
  Q          - Quit

Examples:
  flappy window
  flappy window --scale 6
  flappy window --width 200 --height 120 --record`,
	Args: cobra.NoArgs,
	Run:  runWindow,
}

func init() {
	windowCmd.Flags().Float64Var(&flagScale, "scale", window.DefaultScale, "Window scale factor")
	windowCmd.Flags().IntVar(&flagWindowWidth, "width", 160, "Logical width in pixels")
	windowCmd.Flags().IntVar(&flagWindowHeight, "height", 96, "Logical height in pixels")
	windowCmd.Flags().BoolVar(&flagWindowRecord, "record", false, "Record the run to the database for replay")
}

func runWindow(cmd *cobra.Command, args []string) {
	logger, err := newLogger(os.Stderr, flagLogLevel)
	if err != nil {
		fail("%v", err)
	}

	cfg, err := loadConfig(flagConfig, flagDifficulty)
	if err != nil {
		fail("loading config: %v", err)
	}

	rt := runtimeConfig(flagWindowWidth, flagWindowHeight)
	game, pool, err := newGame(cfg, window.Loader{}, logger)
	if err != nil {
		fail("creating game: %v", err)
	}
	if err := game.Reset(rt); err != nil {
		fail("starting game: %v", err)
	}

	opts := window.Options{Scale: flagScale, Logger: logger}

	var store *storage.Store
	var session *recordingSession
	if flagWindowRecord {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			logger.Warn("could not open runs database", "err", err)
		} else if session, err = newRecordingSession(store, game, rt, logger); err != nil {
			logger.Warn("could not start recording", "err", err)
		} else {
			opts.Session = session
		}
	}

	runErr := window.Run(game, rt, opts)

	if session != nil {
		if err := session.Finish(); err != nil {
			logger.Error("saving run", "err", err)
		}
	}
	if store != nil {
		store.Close()
	}
	closeGame(game, pool, logger)

	if runErr != nil {
		fail("running game: %v", runErr)
	}
}
