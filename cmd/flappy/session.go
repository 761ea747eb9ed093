package main

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// recordingSession stores every frame of a game into the runs database.
// A restart finishes the current run and begins a new one.
type recordingSession struct {
	store  *storage.Store
	game   *flappy.Game
	meta   storage.RunMeta
	rec    *storage.Recorder
	logger *log.Logger
}

func newRecordingSession(store *storage.Store, game *flappy.Game, rt core.RuntimeConfig, logger *log.Logger) (*recordingSession, error) {
	cfgYAML, err := config.MarshalFlappy(game.Config())
	if err != nil {
		return nil, err
	}
	s := &recordingSession{
		store:  store,
		game:   game,
		logger: logger,
		meta: storage.RunMeta{
			Seed:     rt.Seed,
			Width:    rt.ScreenW,
			Height:   rt.ScreenH,
			TickRate: rt.TickRate,
			Config:   cfgYAML,
		},
	}
	if err := s.begin(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *recordingSession) begin() error {
	rec, err := s.store.NewRecorder(s.meta, storage.DefaultBatchSize)
	if err != nil {
		return err
	}
	s.rec = rec
	s.logger.Info("recording run", "id", rec.RunID(), "seed", s.meta.Seed)
	return nil
}

// Record stores one simulated frame.
func (s *recordingSession) Record(dt float64, in core.InputFrame) error {
	return s.rec.Record(dt, in)
}

// Restart finishes the current run and begins a new one with seed.
func (s *recordingSession) Restart(seed int64) error {
	if err := s.Finish(); err != nil {
		return err
	}
	s.meta.Seed = seed
	return s.begin()
}

// Finish stores the outcome of the current run.
func (s *recordingSession) Finish() error {
	sum := s.game.Summary()
	err := s.rec.Finish(storage.RunResult{
		Frames:             sum.Frames,
		Duration:           sum.Elapsed,
		PairsSpawned:       sum.PairsSpawned,
		FloorContactFrames: sum.FloorContactFrames,
	})
	if err == nil {
		s.logger.Info("run saved", "id", s.rec.RunID(), "frames", sum.Frames)
	}
	return err
}
