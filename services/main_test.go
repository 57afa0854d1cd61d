package services

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"

	"yumzy-partner/db"
	"yumzy-partner/migrations"
)

// TestMain connects to TEST_DATABASE_URL when it is set, so the integration
// tests run against a migrated database. Without it they skip.
func TestMain(m *testing.M) {
	flag.Parse()
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" && !testing.Short() {
		ctx := context.Background()
		if err := db.Connect(ctx, dsn); err != nil {
			fmt.Fprintln(os.Stderr, "test db:", err)
			os.Exit(1)
		}
		if err := migrations.Apply(ctx, db.Pool); err != nil {
			fmt.Fprintln(os.Stderr, "test migrate:", err)
			os.Exit(1)
		}
	}
	code := m.Run()
	db.Close()
	os.Exit(code)
}

// requireDB skips integration tests when no database is configured.
func requireDB(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if db.Pool == nil {
		t.Skip("skipping integration test: TEST_DATABASE_URL not set")
	}
}
