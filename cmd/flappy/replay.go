package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/gfx"
	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var flagWatch bool

var replayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Replay a recorded run",
	Long: `Re-simulate a recorded run from its seed, config and inputs.

Without --watch the run is simulated headless and its outcome is compared
with the stored result. With --watch it plays back in the terminal at the
recorded screen size.

Examples:
  flappy replay 3
  flappy replay 3 --watch`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagWatch, "watch", false, "Play the replay back in the terminal")
}

// replayFrames converts stored frames into simulation frames.
func replayFrames(records []storage.FrameRecord) []core.Frame {
	frames := make([]core.Frame, len(records))
	for i, rec := range records {
		frames[i] = core.Frame{DT: rec.DT, Input: storage.DecodeInput(rec.Input)}
	}
	return frames
}

// replayRuntime is the runtime config a run was recorded with.
func replayRuntime(run storage.Run) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  run.Width,
		ScreenH:  run.Height,
		TickRate: run.TickRate,
		Seed:     run.Seed,
	}
}

// simulate replays frames headless and returns the final summary.
func simulate(run storage.Run, frames []core.Frame, logger *log.Logger) (flappy.Summary, error) {
	cfg, err := config.ParseFlappy(run.Config)
	if err != nil {
		return flappy.Summary{}, fmt.Errorf("run %d config: %w", run.ID, err)
	}
	game, pool, err := newGame(cfg, gfx.PixelLoader{}, logger)
	if err != nil {
		return flappy.Summary{}, err
	}
	defer closeGame(game, pool, logger)

	if err := game.Reset(replayRuntime(run)); err != nil {
		return flappy.Summary{}, err
	}
	for i, f := range frames {
		if _, err := game.Step(gfx.Discard{}, f); err != nil {
			return game.Summary(), fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return game.Summary(), nil
}

// errMismatch is returned when a replay diverges from the stored result.
var errMismatch = errors.New("replay does not match the recorded result")

// compareResult checks a replay summary against a finished run's result.
func compareResult(run storage.Run, sum flappy.Summary) error {
	if !run.Finished {
		return nil
	}
	switch {
	case sum.Frames != run.Frames:
		return fmt.Errorf("%w: frames %d, recorded %d", errMismatch, sum.Frames, run.Frames)
	case sum.PairsSpawned != run.PairsSpawned:
		return fmt.Errorf("%w: pairs %d, recorded %d", errMismatch, sum.PairsSpawned, run.PairsSpawned)
	case sum.FloorContactFrames != run.FloorContactFrames:
		return fmt.Errorf("%w: floor contact frames %d, recorded %d", errMismatch, sum.FloorContactFrames, run.FloorContactFrames)
	case math.Abs(sum.Elapsed-run.Duration) > 1e-6:
		return fmt.Errorf("%w: duration %.3fs, recorded %.3fs", errMismatch, sum.Elapsed, run.Duration)
	}
	return nil
}

func printSummary(w io.Writer, run storage.Run, sum flappy.Summary) {
	fmt.Fprintf(w, "Run %d (seed %d, %dx%d)\n", run.ID, run.Seed, run.Width, run.Height)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-20s %d\n", "Frames", sum.Frames)
	fmt.Fprintf(w, "  %-20s %.2fs\n", "Duration", sum.Elapsed)
	fmt.Fprintf(w, "  %-20s %.1f\n", "Distance", sum.Scroll)
	fmt.Fprintf(w, "  %-20s %d spawned, %d evicted\n", "Pipe pairs", sum.PairsSpawned, sum.PairsEvicted)
	fmt.Fprintf(w, "  %-20s %d\n", "Floor contact frames", sum.FloorContactFrames)
	fmt.Fprintf(w, "  %-20s (%.1f, %.1f) %s\n", "Final position", sum.Position.X, sum.Position.Y, sum.State)
}

func runReplay(cmd *cobra.Command, args []string) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fail("invalid run id %q", args[0])
	}

	logger, err := newLogger(os.Stderr, flagLogLevel)
	if err != nil {
		fail("%v", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening runs database: %v", err)
	}
	run, records, err := store.LoadRun(id)
	store.Close()
	if errors.Is(err, storage.ErrRunNotFound) {
		fail("run %d not found", id)
	}
	if err != nil {
		fail("loading run: %v", err)
	}
	frames := replayFrames(records)

	if flagWatch {
		watchReplay(run, frames)
		return
	}

	sum, err := simulate(run, frames, logger)
	if err != nil {
		fail("replaying run %d: %v", id, err)
	}
	printSummary(os.Stdout, run, sum)
	fmt.Println()

	if err := compareResult(run, sum); err != nil {
		fail("%v", err)
	}
	if run.Finished {
		fmt.Println("Replay matches the recorded result.")
	} else {
		fmt.Println("Run was not finished; nothing to compare.")
	}
}

// watchReplay plays frames back in the terminal.
func watchReplay(run storage.Run, frames []core.Frame) {
	logFile, err := openLogFile()
	if err != nil {
		fail("opening log file: %v", err)
	}
	defer logFile.Close()

	logger, err := newLogger(logFile, flagLogLevel)
	if err != nil {
		fail("%v", err)
	}

	cfg, err := config.ParseFlappy(run.Config)
	if err != nil {
		fail("run %d config: %v", run.ID, err)
	}
	game, pool, err := newGame(cfg, gfx.PixelLoader{}, logger)
	if err != nil {
		fail("creating game: %v", err)
	}
	rt := replayRuntime(run)
	if err := game.Reset(rt); err != nil {
		fail("starting replay: %v", err)
	}

	runErr := tui.Run(game, rt, tui.WithReplay(frames), tui.WithLogger(logger))
	closeGame(game, pool, logger)
	if runErr != nil {
		fail("running replay: %v", runErr)
	}
}
