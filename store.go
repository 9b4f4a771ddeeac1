// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bayesian Estimation of Multi-State Markov Models from Panel Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// ErrRunNotFound is returned by LoadChain for an unknown run id
var ErrRunNotFound = errors.New("msm: run not found")

// RunRecord describes one stored sampler run
type RunRecord struct {
	ID        string
	Method    string
	CreatedAt time.Time
	NumStates int
	Draws     int
	Params    int
	Accepted  int
	// Sampler settings as JSON, e.g. the SamplerConfig of the run
	Settings json.RawMessage
}

// ChainStore keeps finished chains in a SQLite file: one row per run and one
// row per (run, iteration, parameter) draw.
type ChainStore struct {
	db   *sql.DB
	path string
}

// NewChainStore opens (or creates) the store at path
func NewChainStore(path string) (*ChainStore, error) {
	if path == "" {
		path = "chains.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		method TEXT NOT NULL,
		created_at TEXT NOT NULL,
		num_states INTEGER NOT NULL,
		draws INTEGER NOT NULL,
		params INTEGER NOT NULL,
		accepted INTEGER NOT NULL,
		settings BLOB
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create runs table: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS draws (
		run_id TEXT NOT NULL REFERENCES runs(id),
		iteration INTEGER NOT NULL,
		param INTEGER NOT NULL,
		value REAL NOT NULL,
		PRIMARY KEY (run_id, iteration, param)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create draws table: %w", err)
	}
	return &ChainStore{db: db, path: path}, nil
}

// SaveChain stores the chain in one transaction and returns the new run id.
// settings may be nil.
func (s *ChainStore) SaveChain(ctx context.Context, chain *Chain, settings any) (_ string, retErr error) {
	rows, cols := chain.Dims()
	numStates, err := NumStatesForParams(cols)
	if err != nil {
		return "", err
	}

	var blob []byte
	if settings != nil {
		if blob, err = json.Marshal(settings); err != nil {
			return "", fmt.Errorf("encode settings: %w", err)
		}
	}

	id := uuid.New().String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs(id, method, created_at, num_states, draws, params, accepted, settings) VALUES(?,?,?,?,?,?,?,?)`,
		id, chain.Method, time.Now().UTC().Format(time.RFC3339Nano), numStates, rows, cols, chain.Accepted(), blob,
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO draws(run_id, iteration, param, value) VALUES(?,?,?,?)`)
	if err != nil {
		return "", fmt.Errorf("prepare draws: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := 0; i < rows; i++ {
		for k, v := range chain.draws[i] {
			if _, err := stmt.ExecContext(ctx, id, i, k, v); err != nil {
				return "", fmt.Errorf("insert draw %d/%d: %w", i, k, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// LoadChain reads a stored run back
func (s *ChainStore) LoadChain(ctx context.Context, id string) (*Chain, *RunRecord, error) {
	rec, err := s.run(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	m := mat.NewDense(rec.Draws, rec.Params, nil)
	rows, err := s.db.QueryContext(ctx, `SELECT iteration, param, value FROM draws WHERE run_id = ?`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("select draws: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var i, k int
		var v float64
		if err := rows.Scan(&i, &k, &v); err != nil {
			return nil, nil, fmt.Errorf("scan: %w", err)
		}
		if i < 0 || i >= rec.Draws || k < 0 || k >= rec.Params {
			return nil, nil, fmt.Errorf("draw (%d,%d) outside %dx%d run", i, k, rec.Draws, rec.Params)
		}
		m.Set(i, k, v)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return ChainFromMatrix(rec.Method, m, rec.Accepted), rec, nil
}

// ListRuns returns every stored run, oldest first
func (s *ChainStore) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, method, created_at, num_states, draws, params, accepted, settings FROM runs ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (s *ChainStore) run(ctx context.Context, id string) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, method, created_at, num_states, draws, params, accepted, settings FROM runs WHERE id = ?`, id)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrRunNotFound)
	}
	return rec, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(r rowScanner) (*RunRecord, error) {
	var rec RunRecord
	var created string
	var settings []byte
	if err := r.Scan(&rec.ID, &rec.Method, &created, &rec.NumStates, &rec.Draws, &rec.Params, &rec.Accepted, &settings); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	rec.CreatedAt = t
	if len(settings) > 0 {
		rec.Settings = json.RawMessage(settings)
	}
	return &rec, nil
}

// Path returns the database file
func (s *ChainStore) Path() string { return s.path }

// Close closes the database
func (s *ChainStore) Close() error { return s.db.Close() }
