package history

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

const DriverSqlite = "sqlite"

// SQLiteConfig configures the default file-backed store.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type sqliteConnector struct {
	path string
	db   *sql.DB
}

func newSqliteConnector(cfg SQLiteConfig) *sqliteConnector {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		path = DbFileName
	}
	return &sqliteConnector{path: path}
}

func (c *sqliteConnector) Connect() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_fk=1", c.path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}
	c.db = db
	return nil
}

func (c *sqliteConnector) Ensure() error {
	_, err := c.db.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		stage TEXT NOT NULL,
		label TEXT NOT NULL,
		status_code INTEGER NOT NULL,
		passed INTEGER NOT NULL,
		error TEXT,
		ran_at TEXT NOT NULL
	)`, TableRuns))
	return err
}

func (c *sqliteConnector) Insert(rec Record) error {
	_, err := c.db.Exec(
		fmt.Sprintf(`INSERT INTO %s(run_id, stage, label, status_code, passed, error, ran_at) VALUES(?, ?, ?, ?, ?, ?, ?)`, TableRuns),
		rec.RunID, rec.Stage, rec.Label, rec.StatusCode, boolToInt(rec.Passed), rec.Error, rec.RanAt,
	)
	return err
}

func (c *sqliteConnector) ListRecent(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := c.db.Query(
		fmt.Sprintf(`SELECT id, run_id, stage, label, status_code, passed, error, ran_at FROM %s ORDER BY id DESC LIMIT ?`, TableRuns),
		limit,
	)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows, true)
}

func (c *sqliteConnector) ListRun(runID string) ([]Record, error) {
	rows, err := c.db.Query(
		fmt.Sprintf(`SELECT id, run_id, stage, label, status_code, passed, error, ran_at FROM %s WHERE run_id = ? ORDER BY id ASC`, TableRuns),
		runID,
	)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows, true)
}

func (c *sqliteConnector) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// scanRecords drains rows into records. intBool selects integer decoding of
// the passed column (SQLite stores booleans as integers).
func scanRecords(rows *sql.Rows, intBool bool) ([]Record, error) {
	defer func() { _ = rows.Close() }()
	var out []Record
	for rows.Next() {
		var rec Record
		var errStr sql.NullString
		if intBool {
			var passed int
			if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Stage, &rec.Label, &rec.StatusCode, &passed, &errStr, &rec.RanAt); err != nil {
				return nil, err
			}
			rec.Passed = passed != 0
		} else {
			if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Stage, &rec.Label, &rec.StatusCode, &rec.Passed, &errStr, &rec.RanAt); err != nil {
				return nil, err
			}
		}
		rec.Error = errStr.String
		out = append(out, rec)
	}
	return out, rows.Err()
}
