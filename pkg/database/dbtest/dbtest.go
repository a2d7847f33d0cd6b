// Package dbtest provides a migrated PostgreSQL database for integration tests.
package dbtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ghuser/orderserver/migrations"
	"github.com/ghuser/orderserver/pkg/database"
	"github.com/ghuser/orderserver/pkg/logger"
)

const lockID int64 = 771100042

// New connects to DATABASE_URL, applies migrations and holds an advisory lock
// until the test ends so packages running in parallel do not share rows.
// The test is skipped when DATABASE_URL is unset or unreachable.
func New(t *testing.T) *database.Database {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set; skipping integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewPool(ctx, url, logger.Nop())
	if err != nil {
		t.Skipf("skipping Postgres integration tests: %v", err)
	}
	t.Cleanup(db.Close)

	conn, err := db.DB().Conn(ctx)
	if err != nil {
		t.Fatalf("acquire lock conn: %v", err)
	}
	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, lockID); err != nil {
		_ = conn.Close()
		t.Fatalf("acquire test lock: %v", err)
	}
	t.Cleanup(func() {
		_, _ = conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockID)
		_ = conn.Close()
	})

	if err := migrations.Apply(ctx, db.DB(), logger.Nop()); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	Truncate(t, db)
	return db
}

// Truncate empties every domain table and resets identity sequences.
func Truncate(t *testing.T, db *database.Database) {
	t.Helper()
	if _, err := db.DB().ExecContext(context.Background(),
		`TRUNCATE ordering.order_lines, ordering.orders, catalog.items RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
}
