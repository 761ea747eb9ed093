package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-flappy/internal/gfx"
	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var (
	flagRecord bool
	flagNoHelp bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start playing in the terminal. Two pixels are drawn per character
cell, so a taller terminal gives a taller sky.

Controls:
  Space/W/Up - Thrust
  P/Esc      - Pause
  R          - Restart with a new seed
  Ctrl+S     - Save a text screenshot
  Q/Ctrl+C   - Quit

Difficulty options:
  easy   - Wider gaps, starts slow and speeds up
  normal - Starts at 30% difficulty, speeds up
  hard   - Narrower gaps, starts at 70% difficulty
  fixed  - No speed progression

Examples:
  flappy play
  flappy play --difficulty easy
  flappy play --record --seed 42
  flappy play --config ./my-flappy.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagRecord, "record", false, "Record the run to the database for replay")
	playCmd.Flags().BoolVar(&flagNoHelp, "no-help", false, "Hide the key help line")
}

func runPlay(cmd *cobra.Command, args []string) {
	logFile, err := openLogFile()
	if err != nil {
		fail("opening log file: %v", err)
	}
	defer logFile.Close()

	logger, err := newLogger(logFile, flagLogLevel)
	if err != nil {
		fail("%v", err)
	}

	cfg, err := loadConfig(flagConfig, flagDifficulty)
	if err != nil {
		fail("loading config: %v", err)
	}

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	rows := height
	if !flagNoHelp {
		rows--
	}
	rt := runtimeConfig(width, max(rows, 1)*2)

	game, pool, err := newGame(cfg, gfx.PixelLoader{}, logger)
	if err != nil {
		fail("creating game: %v", err)
	}
	if err := game.Reset(rt); err != nil {
		fail("starting game: %v", err)
	}

	opts := []tui.Option{tui.WithLogger(logger), tui.WithHelp(!flagNoHelp)}

	var store *storage.Store
	var session *recordingSession
	if flagRecord {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			// Continue without recording - game still works
			logger.Warn("could not open runs database", "err", err)
		} else {
			session, err = newRecordingSession(store, game, rt, logger)
			if err != nil {
				logger.Warn("could not start recording", "err", err)
			} else {
				opts = append(opts, tui.WithSession(session))
			}
		}
	}

	// Run the game
	runErr := tui.Run(game, rt, opts...)

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
