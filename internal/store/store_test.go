// Package store tests are integration tests that require a running
// PostgreSQL instance. Each test skips when the database is unreachable.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"sitedesk/internal/database"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "sitedesk")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "sitedesk")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

// testDB connects and migrates, skipping the test when the database is
// not available.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// cleanupRows deletes the given ids from a table after the test.
func cleanupRows(t *testing.T, db *sql.DB, table string, ids ...any) {
	t.Helper()
	t.Cleanup(func() {
		for _, id := range ids {
			db.ExecContext(context.Background(), `DELETE FROM `+table+` WHERE id = $1`, id)
		}
	})
}
