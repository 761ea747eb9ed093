package storage

import (
	"fmt"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// DefaultBatchSize is how many frames a Recorder buffers between writes.
const DefaultBatchSize = 120

// Recorder buffers frames of one run and writes them in batches.
// It is used from a single goroutine.
type Recorder struct {
	store    *Store
	runID    int64
	next     int // seq of the first buffered frame
	buf      []FrameRecord
	batch    int
	finished bool
}

// NewRecorder begins a run and returns a recorder for its frames.
func (s *Store) NewRecorder(meta RunMeta, batch int) (*Recorder, error) {
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	id, err := s.BeginRun(meta)
	if err != nil {
		return nil, err
	}
	return &Recorder{
		store: s,
		runID: id,
		buf:   make([]FrameRecord, 0, batch),
		batch: batch,
	}, nil
}

// RunID returns the ID of the run being recorded.
func (r *Recorder) RunID() int64 {
	return r.runID
}

// Frames returns the number of frames recorded so far.
func (r *Recorder) Frames() int {
	return r.next + len(r.buf)
}

// Record buffers one frame, flushing when the batch is full.
func (r *Recorder) Record(dt float64, in core.InputFrame) error {
	if r.finished {
		return fmt.Errorf("storage: run %d already finished", r.runID)
	}
	r.buf = append(r.buf, FrameRecord{DT: dt, Input: EncodeInput(in)})
	if len(r.buf) >= r.batch {
		return r.Flush()
	}
	return nil
}

// Flush writes buffered frames.
func (r *Recorder) Flush() error {
	if len(r.buf) == 0 {
		return nil
	}
	if err := r.store.AppendFrames(r.runID, r.next, r.buf); err != nil {
		return err
	}
	r.next += len(r.buf)
	r.buf = r.buf[:0]
	return nil
}

// Finish flushes remaining frames and stores the outcome. Later calls are
// no-ops.
func (r *Recorder) Finish(res RunResult) error {
	if r.finished {
		return nil
	}
	if err := r.Flush(); err != nil {
		return err
	}
	r.finished = true
	return r.store.FinishRun(r.runID, res)
}
