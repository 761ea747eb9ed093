// Package storage provides SQLite-based persistence for recorded runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("storage: run not found")

// Store manages the SQLite database connection for run recording.
type Store struct {
	db *sql.DB
}

// RunMeta is everything needed to replay a run from the start.
type RunMeta struct {
	Seed     int64
	Width    int    // Screen width in pixels
	Height   int    // Screen height in pixels
	TickRate int    // Target frames per second during recording
	Config   []byte // Game configuration as YAML
}

// RunResult is the outcome stored when a run finishes.
type RunResult struct {
	Frames             int
	Duration           float64 // Simulated seconds
	PairsSpawned       int
	FloorContactFrames int
}

// Run is a stored run with its metadata and outcome.
type Run struct {
	ID int64
	RunMeta
	RunResult
	Finished  bool
	CreatedAt time.Time
}

// FrameRecord is one recorded frame: its elapsed time and the inputs
// triggered during it.
type FrameRecord struct {
	DT    float64
	Input uint8 // Action bitmask, see EncodeInput
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			seed INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			tick_rate INTEGER NOT NULL,
			config TEXT NOT NULL,
			frames INTEGER NOT NULL DEFAULT 0,
			duration_secs REAL NOT NULL DEFAULT 0,
			pairs_spawned INTEGER NOT NULL DEFAULT 0,
			floor_contact_frames INTEGER NOT NULL DEFAULT 0,
			finished INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS run_frames (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			dt REAL NOT NULL,
			input INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (run_id, seq)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// BeginRun stores the metadata of a new run.
// Returns the ID of the inserted record.
func (s *Store) BeginRun(meta RunMeta) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO runs (seed, width, height, tick_rate, config) VALUES (?, ?, ?, ?, ?)",
		meta.Seed, meta.Width, meta.Height, meta.TickRate, string(meta.Config),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// AppendFrames stores frames for a run, numbering them from start.
// All frames are written in one transaction.
func (s *Store) AppendFrames(runID int64, start int, frames []FrameRecord) error {
	if len(frames) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO run_frames (run_id, seq, dt, input) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("storage: cannot prepare frame insert: %w", err)
	}
	defer stmt.Close()

	for i, f := range frames {
		if _, err := stmt.Exec(runID, start+i, f.DT, f.Input); err != nil {
			return fmt.Errorf("storage: cannot save frame %d: %w", start+i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit frames: %w", err)
	}
	return nil
}

// FinishRun stores the outcome of a run and marks it finished.
func (s *Store) FinishRun(runID int64, res RunResult) error {
	result, err := s.db.Exec(
		`UPDATE runs
		 SET frames = ?, duration_secs = ?, pairs_spawned = ?, floor_contact_frames = ?, finished = 1
		 WHERE id = ?`,
		res.Frames, res.Duration, res.PairsSpawned, res.FloorContactFrames, runID,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot finish run: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}
	return nil
}

// Runs retrieves the most recent runs, newest first.
func (s *Store) Runs(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, seed, width, height, tick_rate, config, frames, duration_secs,
		        pairs_spawned, floor_contact_frames, finished, created_at
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// LoadRun retrieves a run and all of its frames in order.
func (s *Store) LoadRun(runID int64) (Run, []FrameRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, seed, width, height, tick_rate, config, frames, duration_secs,
		        pairs_spawned, floor_contact_frames, finished, created_at
		 FROM runs
		 WHERE id = ?`,
		runID,
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, nil, fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}
	if err != nil {
		return Run{}, nil, err
	}

	rows, err := s.db.Query(
		"SELECT dt, input FROM run_frames WHERE run_id = ? ORDER BY seq",
		runID,
	)
	if err != nil {
		return Run{}, nil, fmt.Errorf("storage: cannot query frames: %w", err)
	}
	defer rows.Close()

	var frames []FrameRecord
	for rows.Next() {
		var f FrameRecord
		if err := rows.Scan(&f.DT, &f.Input); err != nil {
			return Run{}, nil, fmt.Errorf("storage: cannot scan frame: %w", err)
		}
		frames = append(frames, f)
	}

	if err := rows.Err(); err != nil {
		return Run{}, nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return run, frames, nil
}

// DeleteRun removes a run and its frames.
func (s *Store) DeleteRun(runID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM run_frames WHERE run_id = ?", runID); err != nil {
		return fmt.Errorf("storage: cannot delete frames: %w", err)
	}
	result, err := tx.Exec("DELETE FROM runs WHERE id = ?", runID)
	if err != nil {
		return fmt.Errorf("storage: cannot delete run: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit delete: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRun reads one runs row. sql.ErrNoRows is returned unwrapped.
func scanRun(row rowScanner) (Run, error) {
	var r Run
	var config string
	var finished int
	var createdAt any

	err := row.Scan(
		&r.ID,
		&r.Seed,
		&r.Width,
		&r.Height,
		&r.TickRate,
		&config,
		&r.Frames,
		&r.Duration,
		&r.PairsSpawned,
		&r.FloorContactFrames,
		&finished,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("storage: cannot scan run: %w", err)
	}

	r.Config = []byte(config)
	r.Finished = finished != 0
	r.CreatedAt = parseTimestamp(createdAt)
	return r, nil
}

// parseTimestamp converts a DATETIME column - handle both time.Time and string.
func parseTimestamp(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// Input bits stored in FrameRecord.Input.
const (
	inputThrust uint8 = 1 << iota
	inputPause
)

// EncodeInput packs the replayable actions of a frame into a bitmask.
// Restart and quit are session controls and are not recorded.
func EncodeInput(in core.InputFrame) uint8 {
	var mask uint8
	if in.Has(core.ActionThrust) {
		mask |= inputThrust
	}
	if in.Has(core.ActionPause) {
		mask |= inputPause
	}
	return mask
}

// DecodeInput expands a bitmask from EncodeInput.
func DecodeInput(mask uint8) core.InputFrame {
	in := core.NewInputFrame()
	if mask&inputThrust != 0 {
		in.Set(core.ActionThrust)
	}
	if mask&inputPause != 0 {
		in.Set(core.ActionPause)
	}
	return in
}
