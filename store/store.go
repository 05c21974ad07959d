// Package store persists finished runs (pair statuses, scores and per-run
// AUCs) in an embedded SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/katalvlaran/xlranker/core"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// timeLayout is fixed-width so created_at sorts lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound indicates an unknown run id.
var ErrRunNotFound = errors.New("store: run not found")

// Run is one stored pipeline run.
type Run struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Seed      int64     `json:"seed"`
	Mode      string    `json:"mode"`
}

// PairRecord is one stored protein pair.
type PairRecord struct {
	PairID string   `json:"pair"`
	Status string   `json:"status"`
	Group  string   `json:"group"`
	Score  *float64 `json:"score,omitempty"`
}

// Store wraps the SQLite handle.
type Store struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
}

// Open opens (creating if needed) the database at path and its schema.
func Open(path string) (*Store, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("store: create directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	// one connection: SQLite has a single writer, and :memory: is per connection
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	runsTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		seed INTEGER NOT NULL,
		mode TEXT NOT NULL
	);
	`
	pairsTable := `
	CREATE TABLE IF NOT EXISTS protein_pairs (
		run_id TEXT NOT NULL REFERENCES runs(id),
		pair_id TEXT NOT NULL,
		status TEXT NOT NULL,
		group_str TEXT NOT NULL,
		score REAL,
		PRIMARY KEY (run_id, pair_id)
	);
	CREATE INDEX IF NOT EXISTS idx_pairs_status ON protein_pairs(run_id, status);
	`
	aucTable := `
	CREATE TABLE IF NOT EXISTS run_auc (
		run_id TEXT NOT NULL REFERENCES runs(id),
		run_index INTEGER NOT NULL,
		auc REAL,
		PRIMARY KEY (run_id, run_index)
	);
	`
	for _, table := range []string{runsTable, pairsTable, aucTable} {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("store: create table: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores run, every pair and the per-run AUCs in one transaction.
// An empty run.ID gets a fresh UUID and a zero CreatedAt gets the current
// time; the stored run is returned.
func (s *Store) SaveRun(ctx context.Context, run Run, pairs []*core.ProteinPair, aucs []float64) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, seed, mode) VALUES (?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC().Format(timeLayout), run.Seed, run.Mode); err != nil {
		return Run{}, fmt.Errorf("store: insert run: %w", err)
	}

	pairStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO protein_pairs (run_id, pair_id, status, group_str, score) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("store: prepare pairs: %w", err)
	}
	defer pairStmt.Close()
	for _, pp := range pairs {
		var score sql.NullFloat64
		if pp.HasScore() {
			score = nullable(pp.Score())
		}
		if _, err := pairStmt.ExecContext(ctx, run.ID, pp.PairID, pp.Status().String(), pp.GroupString(), score); err != nil {
			return Run{}, fmt.Errorf("store: insert pair %s: %w", pp.PairID, err)
		}
	}

	for i, auc := range aucs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_auc (run_id, run_index, auc) VALUES (?, ?, ?)`,
			run.ID, i, nullable(auc)); err != nil {
			return Run{}, fmt.Errorf("store: insert auc %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("store: commit: %w", err)
	}
	return run, nil
}

// nullable maps NaN to SQL NULL.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

// Runs returns every run, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, seed, mode FROM runs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("store: query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Run returns the run with id, or ErrRunNotFound.
func (s *Store) Run(ctx context.Context, id string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx, `SELECT id, created_at, seed, mode FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var r Run
	var created string
	if err := sc.Scan(&r.ID, &created, &r.Seed, &r.Mode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("store: scan run: %w", err)
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return Run{}, fmt.Errorf("store: run %s created_at: %w", r.ID, err)
	}
	r.CreatedAt = t
	return r, nil
}

// Pairs returns the stored pairs of a run sorted by pair id, restricted to
// status when it is non-empty.
func (s *Store) Pairs(ctx context.Context, runID, status string) ([]PairRecord, error) {
	if _, err := s.Run(ctx, runID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `
		SELECT pair_id, status, group_str, score FROM protein_pairs
		WHERE run_id = ? AND (? = '' OR status = ?)
		ORDER BY pair_id`, runID, status, status)
	if err != nil {
		return nil, fmt.Errorf("store: query pairs: %w", err)
	}
	defer rows.Close()

	out := []PairRecord{}
	for rows.Next() {
		var rec PairRecord
		var score sql.NullFloat64
		if err := rows.Scan(&rec.PairID, &rec.Status, &rec.Group, &score); err != nil {
			return nil, fmt.Errorf("store: scan pair: %w", err)
		}
		if score.Valid {
			v := score.Float64
			rec.Score = &v
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// AUCs returns the per-run AUCs of a run in run order; NULL reads back as NaN.
func (s *Store) AUCs(ctx context.Context, runID string) ([]float64, error) {
	if _, err := s.Run(ctx, runID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx,
		`SELECT auc FROM run_auc WHERE run_id = ? ORDER BY run_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: query auc: %w", err)
	}
	defer rows.Close()

	out := []float64{}
	for rows.Next() {
		var v sql.NullFloat64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("store: scan auc: %w", err)
		}
		if v.Valid {
			out = append(out, v.Float64)
		} else {
			out = append(out, math.NaN())
		}
	}
	return out, rows.Err()
}
