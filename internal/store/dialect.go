package store

import (
	"database/sql"
	"regexp"
	"strconv"
)

// Dialect hides the differences between the supported SQL backends.
type Dialect interface {
	// Name is the DATABASE_TYPE value that selects this dialect.
	Name() string

	// DriverName returns the driver name for sql.Open.
	DriverName() string

	// DSN returns the data source name for the connection.
	DSN(config DialectConfig) string

	// RewriteQuery converts placeholder syntax if needed (? to $1 for postgres).
	RewriteQuery(query string) string

	// ConfigureConnection applies pool limits and per-backend settings.
	ConfigureConnection(db *sql.DB) error

	// Migrations returns the schema steps in the order they must run.
	Migrations() []Migration

	// UpsertQuery returns an insert-or-replace statement for (k, v, updated_at).
	UpsertQuery() string
}

// DialectConfig holds configuration for a database connection.
type DialectConfig struct {
	// For SQLite
	Path string

	// For PostgreSQL/MySQL
	URL string
}

// Migration is one named schema step.
type Migration struct {
	Name string
	SQL  string
}

var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(match string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}

// DialectFor returns the dialect registered under name, or false.
func DialectFor(name string) (Dialect, bool) {
	switch name {
	case "sqlite", "sqlite3", "":
		return NewSQLiteDialect(), true
	case "sqlite-pure":
		return NewPureSQLiteDialect(), true
	case "postgres", "postgresql":
		return NewPostgresDialect(), true
	case "mysql":
		return NewMySQLDialect(), true
	}
	return nil, false
}
