// Package history persists verification run outcomes so past runs can be
// reviewed after the process exits. SQLite is the default backend;
// PostgreSQL is available for shared instances.
package history

import (
	"fmt"
	"strings"

	"github.com/apicentric/cloudcheck/internal/report"
)

// DbFileName is the default filename for the run-history database.
const DbFileName = "cloudcheck.db"

// TableRuns is the table holding one row per recorded operation.
const TableRuns = "verification_runs"

// Record is one persisted operation outcome.
type Record struct {
	ID         int
	RunID      string
	Stage      string
	Label      string
	StatusCode int
	Passed     bool
	Error      string
	RanAt      string
}

// Connector abstracts the database driver behind the store.
type Connector interface {
	Connect() error
	Ensure() error
	Insert(rec Record) error
	ListRecent(limit int) ([]Record, error)
	ListRun(runID string) ([]Record, error)
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Driver   string         `mapstructure:"driver"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// Store wraps a connector with the harness-facing API. It implements
// report.Sink so a Reporter can stream entries straight into it.
type Store struct {
	conn Connector
}

// Open connects and ensures schema for the configured backend. An empty or
// "sqlite" driver selects SQLite.
func Open(cfg Config) (*Store, error) {
	var conn Connector
	switch strings.TrimSpace(strings.ToLower(cfg.Driver)) {
	case "", DriverSqlite:
		conn = newSqliteConnector(cfg.SQLite)
	case DriverPostgresql:
		conn = newPostgresConnector(cfg.Postgres)
	default:
		return nil, fmt.Errorf("history: unsupported driver: %s", cfg.Driver)
	}

	if err := conn.Connect(); err != nil {
		return nil, err
	}
	if err := conn.Ensure(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &Store{conn: conn}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// RecordEntry implements report.Sink.
func (s *Store) RecordEntry(runID string, e report.Entry) error {
	return s.conn.Insert(Record{
		RunID:      runID,
		Stage:      e.Stage,
		Label:      e.Label,
		StatusCode: e.Outcome.Status,
		Passed:     e.Passed,
		Error:      e.Outcome.Err,
		RanAt:      e.RanAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// ListRecent returns the newest records, most recent first.
func (s *Store) ListRecent(limit int) ([]Record, error) {
	return s.conn.ListRecent(limit)
}

// ListRun returns all records for one run in insertion order.
func (s *Store) ListRun(runID string) ([]Record, error) {
	return s.conn.ListRun(runID)
}
