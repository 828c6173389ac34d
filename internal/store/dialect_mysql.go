package store

import (
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLDialect implements Dialect for MySQL.
type MySQLDialect struct{}

// NewMySQLDialect creates a new MySQL dialect.
func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) Name() string       { return "mysql" }
func (d *MySQLDialect) DriverName() string { return "mysql" }

// DSN expects the go-sql-driver format, e.g. user:pass@tcp(host:3306)/wordle?parseTime=true.
func (d *MySQLDialect) DSN(config DialectConfig) string {
	return config.URL
}

func (d *MySQLDialect) RewriteQuery(query string) string { return query }

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)
	return nil
}

// Keys are capped at 512 characters so the primary key fits the utf8mb4
// index limit.
func (d *MySQLDialect) Migrations() []Migration {
	return []Migration{{Name: "001_kv_store", SQL: `CREATE TABLE IF NOT EXISTS kv_store (
	k          VARCHAR(512) NOT NULL PRIMARY KEY,
	v          MEDIUMTEXT NOT NULL,
	updated_at DATETIME NOT NULL
) DEFAULT CHARSET = utf8mb4;`}}
}

func (d *MySQLDialect) UpsertQuery() string {
	return `INSERT INTO kv_store (k, v, updated_at) VALUES (?, ?, ?)
	ON DUPLICATE KEY UPDATE v = VALUES(v), updated_at = VALUES(updated_at)`
}
