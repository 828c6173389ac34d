package store

import (
	"strings"
	"testing"
)

func TestDialectFor(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		ok     bool
	}{
		{"", "sqlite3", true},
		{"sqlite", "sqlite3", true},
		{"sqlite-pure", "sqlite", true},
		{"postgres", "postgres", true},
		{"postgresql", "postgres", true},
		{"mysql", "mysql", true},
		{"oracle", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := DialectFor(tt.name)
			if ok != tt.ok {
				t.Fatalf("DialectFor(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
			if ok && d.DriverName() != tt.driver {
				t.Errorf("DriverName() = %q, want %q", d.DriverName(), tt.driver)
			}
		})
	}
}

func TestPostgresRewriteQuery(t *testing.T) {
	d := NewPostgresDialect()
	got := d.RewriteQuery(`SELECT k FROM kv_store WHERE SUBSTR(k, 1, ?) = ?`)
	want := `SELECT k FROM kv_store WHERE SUBSTR(k, 1, $1) = $2`
	if got != want {
		t.Errorf("RewriteQuery() = %q, want %q", got, want)
	}
	up := d.RewriteQuery(d.UpsertQuery())
	if !strings.Contains(up, "$3") || strings.Contains(up, "?") {
		t.Errorf("upsert not rewritten: %q", up)
	}
}

func TestDialectsLeaveQuestionMarks(t *testing.T) {
	for _, d := range []Dialect{NewSQLiteDialect(), NewPureSQLiteDialect(), NewMySQLDialect()} {
		q := `SELECT v FROM kv_store WHERE k=?`
		if got := d.RewriteQuery(q); got != q {
			t.Errorf("%s RewriteQuery() = %q, want unchanged", d.Name(), got)
		}
	}
}

func TestDialectMigrationsCreateKVStore(t *testing.T) {
	for _, d := range []Dialect{NewSQLiteDialect(), NewPureSQLiteDialect(), NewPostgresDialect(), NewMySQLDialect()} {
		ms := d.Migrations()
		if len(ms) == 0 {
			t.Errorf("%s has no migrations", d.Name())
			continue
		}
		if !strings.Contains(ms[0].SQL, "kv_store") {
			t.Errorf("%s first migration does not create kv_store", d.Name())
		}
	}
}

func TestSQLiteDSN(t *testing.T) {
	dir := t.TempDir()
	got := NewSQLiteDialect().DSN(DialectConfig{Path: dir + "/app.db"})
	if !strings.HasPrefix(got, dir+"/app.db?") || !strings.Contains(got, "_journal_mode=WAL") {
		t.Errorf("DSN() = %q", got)
	}
}
