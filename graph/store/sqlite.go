package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a SQLite implementation of Store[S].
//
// Single-file database with zero setup, suited to local development and
// single-process deployments. Uses WAL mode so readers do not block on the
// writer. State must be JSON-serializable.
//
// Example:
//
//	st, err := store.NewSQLiteStore[State]("./runs.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer st.Close()
//
// Use ":memory:" as the path for an in-memory database in tests.
type SQLiteStore[S any] struct {
	db     *sql.DB
	mu     sync.Mutex
	closed bool
}

// NewSQLiteStore opens (creating if needed) the database at path and
// migrates the schema.
func NewSQLiteStore[S any](path string) (*SQLiteStore[S], error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite supports a single writer; keep one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS run_steps (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			step INTEGER NOT NULL,
			node_id TEXT NOT NULL,
			state TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (run_id, step)
		);
		CREATE INDEX IF NOT EXISTS idx_run_steps_run_id ON run_steps (run_id);
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore[S]{db: db}, nil
}

// SaveStep records the merged state after a node execution.
func (s *SQLiteStore[S]) SaveStep(ctx context.Context, runID string, step int, nodeID string, state S) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO run_steps (run_id, step, node_id, state) VALUES (?, ?, ?, ?)
		 ON CONFLICT (run_id, step) DO UPDATE SET node_id = excluded.node_id, state = excluded.state`,
		runID, step, nodeID, string(data))
	if err != nil {
		return fmt.Errorf("insert step: %w", err)
	}
	return nil
}

// LoadLatest returns the most recent recorded state of a run.
func (s *SQLiteStore[S]) LoadLatest(ctx context.Context, runID string) (state S, step int, err error) {
	var zero S
	var data string

	row := s.db.QueryRowContext(ctx,
		`SELECT step, state FROM run_steps WHERE run_id = ? ORDER BY step DESC LIMIT 1`, runID)
	if err := row.Scan(&step, &data); err != nil {
		if err == sql.ErrNoRows {
			return zero, 0, ErrNotFound
		}
		return zero, 0, fmt.Errorf("query latest step: %w", err)
	}

	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return zero, 0, fmt.Errorf("unmarshal state: %w", err)
	}
	return state, step, nil
}

// ListSteps returns a run's full history in step order.
func (s *SQLiteStore[S]) ListSteps(ctx context.Context, runID string) ([]StepRecord[S], error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT step, node_id, state FROM run_steps WHERE run_id = ? ORDER BY step ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	var records []StepRecord[S]
	for rows.Next() {
		var record StepRecord[S]
		var data string
		if err := rows.Scan(&record.Step, &record.NodeID, &data); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &record.State); err != nil {
			return nil, fmt.Errorf("unmarshal state: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steps: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records, nil
}

// Close closes the underlying database. Safe to call twice.
func (s *SQLiteStore[S]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
