package main

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/gfx"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

// recordRun plays n scripted frames with recording enabled and returns the
// stored run ID.
func recordRun(t *testing.T, store *storage.Store, n int) int64 {
	t.Helper()
	logger := discardLogger()

	cfg := config.DefaultFlappyConfig()
	config.ApplyFlappyPreset(&cfg, config.DifficultyHard)
	game, pool, err := newGame(cfg, gfx.PixelLoader{}, logger)
	if err != nil {
		t.Fatal(err)
	}
	defer closeGame(game, pool, logger)

	rt := core.RuntimeConfig{ScreenW: 80, ScreenH: 48, TickRate: 60, Seed: 99}
	if err := game.Reset(rt); err != nil {
		t.Fatal(err)
	}
	sess, err := newRecordingSession(store, game, rt, logger)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < n; i++ {
		in := core.NewInputFrame()
		if i%9 == 0 {
			in.Set(core.ActionThrust)
		}
		if i == 50 || i == 60 {
			in.Set(core.ActionPause)
		}
		dt := 1.0/60 + float64(i%3)*0.001
		if _, err := game.Step(gfx.Discard{}, core.Frame{DT: dt, Input: in}); err != nil {
			t.Fatal(err)
		}
		if err := sess.Record(dt, in); err != nil {
			t.Fatal(err)
		}
	}
	if err := sess.Finish(); err != nil {
		t.Fatal(err)
	}
	return sess.rec.RunID()
}

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestReplayMatchesRecording(t *testing.T) {
	store := openTestStore(t)
	id := recordRun(t, store, 400)

	run, records, err := store.LoadRun(id)
	if err != nil {
		t.Fatal(err)
	}
	if !run.Finished || run.Frames == 0 {
		t.Fatalf("run not stored as finished: %+v", run.RunResult)
	}

	sum, err := simulate(run, replayFrames(records), discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := compareResult(run, sum); err != nil {
		t.Error(err)
	}

	var out bytes.Buffer
	printSummary(&out, run, sum)
	if !strings.Contains(out.String(), "Floor contact frames") {
		t.Errorf("summary missing fields:\n%s", out.String())
	}
}

func TestCompareResultDetectsMismatch(t *testing.T) {
	store := openTestStore(t)
	id := recordRun(t, store, 120)

	run, records, err := store.LoadRun(id)
	if err != nil {
		t.Fatal(err)
	}

	// Drop the last frame
	sum, err := simulate(run, replayFrames(records[:len(records)-1]), discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if err := compareResult(run, sum); !errors.Is(err, errMismatch) {
		t.Errorf("compareResult = %v, expected errMismatch", err)
	}
}

func TestRestartBeginsNewRun(t *testing.T) {
	store := openTestStore(t)
	logger := discardLogger()

	game, pool, err := newGame(config.DefaultFlappyConfig(), gfx.PixelLoader{}, logger)
	if err != nil {
		t.Fatal(err)
	}
	defer closeGame(game, pool, logger)
	rt := core.DefaultConfig()
	if err := game.Reset(rt); err != nil {
		t.Fatal(err)
	}

	sess, err := newRecordingSession(store, game, rt, logger)
	if err != nil {
		t.Fatal(err)
	}
	first := sess.rec.RunID()
	if err := sess.Record(0.016, core.NewInputFrame()); err != nil {
		t.Fatal(err)
	}
	if err := sess.Restart(7); err != nil {
		t.Fatal(err)
	}
	if sess.rec.RunID() == first {
		t.Fatal("restart should begin a new run")
	}

	runs, err := store.Runs(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Seed != 7 || runs[0].Finished {
		t.Errorf("newest run = %+v, expected unfinished with seed 7", runs[0])
	}
	if !runs[1].Finished {
		t.Error("restarted run should be finished")
	}
}

func TestLoadConfigPreset(t *testing.T) {
	tests := []struct {
		name       string
		difficulty string
		wantErr    bool
		wantGap    int
		wantDiff   bool
	}{
		{"none", "", false, config.DefaultFlappyConfig().Obstacles.GapSize, true},
		{"easy", "easy", false, config.DefaultFlappyConfig().Obstacles.GapSize + 4, true},
		{"fixed", "fixed", false, config.DefaultFlappyConfig().Obstacles.GapSize, false},
		{"unknown", "brutal", true, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := loadConfig("", tc.difficulty)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Obstacles.GapSize != tc.wantGap {
				t.Errorf("gap = %d, expected %d", cfg.Obstacles.GapSize, tc.wantGap)
			}
			if cfg.Difficulty.Enabled != tc.wantDiff {
				t.Errorf("difficulty enabled = %v, expected %v", cfg.Difficulty.Enabled, tc.wantDiff)
			}
		})
	}
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "warn")
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("unexpected log output: %q", buf.String())
	}

	if _, err := newLogger(&buf, "loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestResolveSeed(t *testing.T) {
	if got := resolveSeed(42); got != 42 {
		t.Errorf("resolveSeed(42) = %d", got)
	}
	if got := resolveSeed(0); got == 0 {
		t.Error("resolveSeed(0) should pick a time-based seed")
	}
}

func TestPrintRuns(t *testing.T) {
	var empty bytes.Buffer
	printRuns(&empty, nil)
	if !strings.Contains(empty.String(), "No runs recorded yet.") {
		t.Errorf("empty listing = %q", empty.String())
	}

	store := openTestStore(t)
	recordRun(t, store, 30)
	runs, err := store.Runs(10)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	printRuns(&out, runs)
	for _, want := range []string{"Seed", "80x48", "99", "done"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("listing missing %q:\n%s", want, out.String())
		}
	}
}
