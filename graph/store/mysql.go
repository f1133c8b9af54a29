package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore is a MySQL/MariaDB implementation of Store[S].
//
// Suited to deployments that want run history in shared infrastructure,
// e.g. for audit trails queried by other services. Uses connection pooling.
// State must be JSON-serializable.
//
// The DSN format is the go-sql-driver format, e.g.
//
//	user:pass@tcp(localhost:3306)/stategraph?parseTime=true
//
// Never hardcode credentials; read the DSN from the environment.
type MySQLStore[S any] struct {
	db     *sql.DB
	mu     sync.Mutex
	closed bool
}

// NewMySQLStore opens a pooled connection and migrates the schema.
func NewMySQLStore[S any](dsn string) (*MySQLStore[S], error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS run_steps (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			run_id VARCHAR(255) NOT NULL,
			step INT NOT NULL,
			node_id VARCHAR(255) NOT NULL,
			state JSON NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_run_id (run_id),
			UNIQUE KEY unique_run_step (run_id, step)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &MySQLStore[S]{db: db}, nil
}

// SaveStep records the merged state after a node execution.
func (m *MySQLStore[S]) SaveStep(ctx context.Context, runID string, step int, nodeID string, state S) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	_, err = m.db.ExecContext(ctx,
		`INSERT INTO run_steps (run_id, step, node_id, state) VALUES (?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE node_id = VALUES(node_id), state = VALUES(state)`,
		runID, step, nodeID, string(data))
	if err != nil {
		return fmt.Errorf("insert step: %w", err)
	}
	return nil
}

// LoadLatest returns the most recent recorded state of a run.
func (m *MySQLStore[S]) LoadLatest(ctx context.Context, runID string) (state S, step int, err error) {
	var zero S
	var data string

	row := m.db.QueryRowContext(ctx,
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
func (m *MySQLStore[S]) ListSteps(ctx context.Context, runID string) ([]StepRecord[S], error) {
	rows, err := m.db.QueryContext(ctx,
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

// Close closes the connection pool. Safe to call twice.
func (m *MySQLStore[S]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	return m.db.Close()
}
