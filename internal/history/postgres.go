package history

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const DriverPostgresql = "postgresql"

// PostgresConfig configures the PostgreSQL backend. An explicit DSN wins;
// otherwise one is assembled from the components.
type PostgresConfig struct {
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (p PostgresConfig) dsn() string {
	dsn := strings.TrimSpace(p.DSN)
	if dsn != "" {
		return dsn
	}
	if strings.TrimSpace(p.Host) == "" {
		return ""
	}
	port := p.Port
	if port == 0 {
		port = 5432
	}
	ssl := strings.TrimSpace(p.SSLMode)
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		strings.TrimSpace(p.User), strings.TrimSpace(p.Password),
		strings.TrimSpace(p.Host), port, strings.TrimSpace(p.DBName), ssl,
	)
}

type postgresConnector struct {
	dsn string
	db  *sql.DB
}

func newPostgresConnector(cfg PostgresConfig) *postgresConnector {
	return &postgresConnector{dsn: cfg.dsn()}
}

func (c *postgresConnector) Connect() error {
	if c.dsn == "" {
		return errors.New("history: postgres dsn not configured")
	}
	db, err := sql.Open("pgx", c.dsn)
	if err != nil {
		return err
	}
	c.db = db
	return nil
}

func (c *postgresConnector) Ensure() error {
	_, err := c.db.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id SERIAL PRIMARY KEY,
		run_id TEXT NOT NULL,
		stage TEXT NOT NULL,
		label TEXT NOT NULL,
		status_code INTEGER NOT NULL,
		passed BOOLEAN NOT NULL,
		error TEXT,
		ran_at TEXT NOT NULL
	)`, TableRuns))
	return err
}

func (c *postgresConnector) Insert(rec Record) error {
	_, err := c.db.Exec(
		fmt.Sprintf(`INSERT INTO %s(run_id, stage, label, status_code, passed, error, ran_at) VALUES($1, $2, $3, $4, $5, $6, $7)`, TableRuns),
		rec.RunID, rec.Stage, rec.Label, rec.StatusCode, rec.Passed, rec.Error, rec.RanAt,
	)
	return err
}

func (c *postgresConnector) ListRecent(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := c.db.Query(
		fmt.Sprintf(`SELECT id, run_id, stage, label, status_code, passed, error, ran_at FROM %s ORDER BY id DESC LIMIT $1`, TableRuns),
		limit,
	)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows, false)
}

func (c *postgresConnector) ListRun(runID string) ([]Record, error) {
	rows, err := c.db.Query(
		fmt.Sprintf(`SELECT id, run_id, stage, label, status_code, passed, error, ran_at FROM %s WHERE run_id = $1 ORDER BY id ASC`, TableRuns),
		runID,
	)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows, false)
}

func (c *postgresConnector) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
