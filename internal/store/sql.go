// internal/store/sql.go
//
// SQL-backed Store.
// Responsibilities:
//   - Opening the database through a Dialect (sqlite, sqlite-pure, postgres, mysql).
//   - Applying the dialect's migrations (idempotent, recorded in _migrations).
//   - Get/Set/Remove/Keys over a single kv_store table.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// SQL is a Store over database/sql.
type SQL struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects with the given dialect, configures the pool and migrates.
func Open(ctx context.Context, dialect Dialect, cfg DialectConfig) (*SQL, error) {
	db, err := sql.Open(dialect.DriverName(), dialect.DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect.Name(), err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect.Name(), err)
	}
	if err := dialect.ConfigureConnection(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure %s: %w", dialect.Name(), err)
	}
	s := &SQL{db: db, dialect: dialect}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying connection pool.
func (s *SQL) Close() error { return s.db.Close() }

// migrate applies the dialect's migrations, each inside its own transaction,
// skipping the ones already recorded in _migrations.
func (s *SQL) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _migrations (name VARCHAR(255) PRIMARY KEY)`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	for _, m := range s.dialect.Migrations() {
		var done int
		err := s.db.QueryRowContext(ctx, s.q(`SELECT 1 FROM _migrations WHERE name=?`), m.Name).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", m.Name).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", m.Name, err)
		}
		if _, err := tx.ExecContext(ctx, s.q(`INSERT INTO _migrations(name) VALUES (?)`), m.Name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", m.Name, err)
		}
		log.Info().Str("migration", m.Name).Str("dialect", s.dialect.Name()).Msg("applied")
	}
	return nil
}

func (s *SQL) q(query string) string { return s.dialect.RewriteQuery(query) }

func (s *SQL) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, s.q(`SELECT v FROM kv_store WHERE k=?`), key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return v, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.q(s.dialect.UpsertQuery()), key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *SQL) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.q(`DELETE FROM kv_store WHERE k=?`), key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Keys matches on SUBSTR rather than LIKE so that _ and % in keys need no
// escaping. Results are sorted in Go because collations differ per backend.
func (s *SQL) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		s.q(`SELECT k FROM kv_store WHERE SUBSTR(k, 1, ?) = ?`),
		utf8.RuneCountInString(prefix), prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("keys %s: %w", prefix, err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
