// Package config loads daemon configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// History backend names accepted by STATEGRAPH_HISTORY.
const (
	HistoryNone   = "none"
	HistoryMemory = "memory"
	HistorySQLite = "sqlite"
	HistoryMySQL  = "mysql"
)

// Config holds everything the daemon needs to start.
type Config struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string

	// MessagesFile optionally overrides the progress-message table (YAML).
	MessagesFile string

	// History selects the step-history backend: none, memory, sqlite, mysql.
	History string

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string

	// MySQLDSN is the DSN for the mysql backend.
	MySQLDSN string

	// LogJSON switches the event log from text lines to JSONL.
	LogJSON bool

	// StreamBuffer is the per-run frame channel capacity.
	StreamBuffer int

	// Pacing is an optional delay after each progress frame.
	Pacing time.Duration
}

// Load reads configuration from the environment. A .env file in the
// working directory is honored when present; real environment variables
// win over it.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:         ":8000",
		History:      HistoryNone,
		SQLitePath:   "./stategraph.db",
		StreamBuffer: 16,
	}

	if v := os.Getenv("STATEGRAPH_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("STATEGRAPH_MESSAGES"); v != "" {
		cfg.MessagesFile = v
	}
	if v := os.Getenv("STATEGRAPH_HISTORY"); v != "" {
		cfg.History = v
	}
	if v := os.Getenv("STATEGRAPH_SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}
	if v := os.Getenv("STATEGRAPH_MYSQL_DSN"); v != "" {
		cfg.MySQLDSN = v
	}
	if v := os.Getenv("STATEGRAPH_LOG_JSON"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("STATEGRAPH_LOG_JSON: %w", err)
		}
		cfg.LogJSON = parsed
	}
	if v := os.Getenv("STATEGRAPH_STREAM_BUFFER"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return Config{}, fmt.Errorf("STATEGRAPH_STREAM_BUFFER must be a positive integer, got %q", v)
		}
		cfg.StreamBuffer = parsed
	}
	if v := os.Getenv("STATEGRAPH_PACING"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("STATEGRAPH_PACING: %w", err)
		}
		cfg.Pacing = parsed
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.History {
	case HistoryNone, HistoryMemory, HistorySQLite:
	case HistoryMySQL:
		if c.MySQLDSN == "" {
			return fmt.Errorf("history backend %q requires STATEGRAPH_MYSQL_DSN", c.History)
		}
	default:
		return fmt.Errorf("unknown history backend: %q", c.History)
	}
	return nil
}
