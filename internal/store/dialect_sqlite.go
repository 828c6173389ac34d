package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS kv_store (
	k          TEXT PRIMARY KEY,
	v          TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

const sqliteUpsert = `INSERT INTO kv_store (k, v, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(k) DO UPDATE SET v = excluded.v, updated_at = excluded.updated_at`

// SQLiteDialect implements Dialect for SQLite through the cgo driver.
type SQLiteDialect struct{}

// NewSQLiteDialect creates a new SQLite dialect.
func NewSQLiteDialect() *SQLiteDialect {
	return &SQLiteDialect{}
}

func (d *SQLiteDialect) Name() string       { return "sqlite" }
func (d *SQLiteDialect) DriverName() string { return "sqlite3" }

// DSN ensures the parent directory exists for relative paths such as
// ./data/wordle.db and enables a busy timeout and WAL journaling.
func (d *SQLiteDialect) DSN(config DialectConfig) string {
	ensureDir(config.Path)
	return config.Path + "?_busy_timeout=5000&_journal_mode=WAL"
}

func (d *SQLiteDialect) RewriteQuery(query string) string { return query }

func (d *SQLiteDialect) ConfigureConnection(db *sql.DB) error {
	return configureSQLite(db)
}

func (d *SQLiteDialect) Migrations() []Migration {
	return []Migration{{Name: "001_kv_store", SQL: sqliteSchema}}
}

func (d *SQLiteDialect) UpsertQuery() string { return sqliteUpsert }

// PureSQLiteDialect implements Dialect for SQLite through modernc.org/sqlite,
// for builds without cgo. It shares the schema with SQLiteDialect.
type PureSQLiteDialect struct{}

// NewPureSQLiteDialect creates a new cgo-free SQLite dialect.
func NewPureSQLiteDialect() *PureSQLiteDialect {
	return &PureSQLiteDialect{}
}

func (d *PureSQLiteDialect) Name() string       { return "sqlite-pure" }
func (d *PureSQLiteDialect) DriverName() string { return "sqlite" }

func (d *PureSQLiteDialect) DSN(config DialectConfig) string {
	ensureDir(config.Path)
	return config.Path
}

func (d *PureSQLiteDialect) RewriteQuery(query string) string { return query }

func (d *PureSQLiteDialect) ConfigureConnection(db *sql.DB) error {
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		return fmt.Errorf("set busy_timeout: %w", err)
	}
	return configureSQLite(db)
}

func (d *PureSQLiteDialect) Migrations() []Migration {
	return []Migration{{Name: "001_kv_store", SQL: sqliteSchema}}
}

func (d *PureSQLiteDialect) UpsertQuery() string { return sqliteUpsert }

func configureSQLite(db *sql.DB) error {
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(1 * time.Minute)
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		return fmt.Errorf("set pragmas: %w", err)
	}
	return nil
}

func ensureDir(path string) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}
}
