// Package testutil gives integration tests a throwaway Postgres schema with
// the run tables already migrated.
package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/cpjust/shopcheck/internal/config"
	"github.com/cpjust/shopcheck/internal/database"
)

// localPostgres is used for any POSTGRES_* variable the environment leaves empty.
var localPostgres = map[string]string{
	"POSTGRES_USER":     "postgres",
	"POSTGRES_PASSWORD": "postgres",
	"POSTGRES_DB":       "postgres",
	"POSTGRES_HOSTNAME": "localhost",
}

// Schema is a migrated schema private to one test. It is dropped when the
// test finishes.
type Schema struct {
	DB   *sql.DB
	Name string
}

// NewSchema creates the schema, points a fresh connection pool at it and
// runs the migrations. Cleanup is registered on t.
func NewSchema(t testing.TB) *Schema {
	t.Helper()

	pg, err := config.LoadPostgresConfig(func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return localPostgres[key]
	})
	if err != nil {
		t.Fatalf("Failed to load postgres config: %v", err)
	}

	admin := open(t, pg.ConnectionString())
	t.Cleanup(func() { admin.Close() })

	name := "shopcheck_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if _, err := admin.Exec("CREATE SCHEMA " + name); err != nil {
		t.Fatalf("Failed to create schema %s: %v", name, err)
	}
	t.Cleanup(func() {
		if _, err := admin.Exec("DROP SCHEMA IF EXISTS " + name + " CASCADE"); err != nil {
			t.Logf("Warning: failed to drop schema %s: %v", name, err)
		}
	})

	db := open(t, fmt.Sprintf("%s search_path=%s", pg.ConnectionString(), name))
	db.SetMaxOpenConns(2)
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate schema %s: %v", name, err)
	}

	return &Schema{DB: db, Name: name}
}

// Count returns the number of rows in table.
func (s *Schema) Count(t testing.TB, table string) int {
	t.Helper()
	var n int
	if err := s.DB.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

func open(t testing.TB, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Fatalf("Failed to ping database: %v", err)
	}
	return db
}
