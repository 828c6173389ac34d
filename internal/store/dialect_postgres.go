package store

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// PostgresDialect implements Dialect for PostgreSQL.
type PostgresDialect struct{}

// NewPostgresDialect creates a new PostgreSQL dialect.
func NewPostgresDialect() *PostgresDialect {
	return &PostgresDialect{}
}

func (d *PostgresDialect) Name() string       { return "postgres" }
func (d *PostgresDialect) DriverName() string { return "postgres" }

func (d *PostgresDialect) DSN(config DialectConfig) string {
	return config.URL
}

// RewriteQuery switches ? placeholders to $1, $2, etc.
func (d *PostgresDialect) RewriteQuery(query string) string {
	return rewritePlaceholdersToNumbered(query)
}

func (d *PostgresDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)
	return nil
}

func (d *PostgresDialect) Migrations() []Migration {
	return []Migration{{Name: "001_kv_store", SQL: `CREATE TABLE IF NOT EXISTS kv_store (
	k          TEXT PRIMARY KEY,
	v          TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);`}}
}

func (d *PostgresDialect) UpsertQuery() string {
	return `INSERT INTO kv_store (k, v, updated_at) VALUES (?, ?, ?)
	ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v, updated_at = EXCLUDED.updated_at`
}
