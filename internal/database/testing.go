package database

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDatabaseURLEnv names the environment variable integration tests read
// their connection string from. Tests skip when it is unset so the suite
// passes on machines without Postgres.
const TestDatabaseURLEnv = "PROPS_TEST_DATABASE_URL"

// SetupTestDB connects to the test database and ensures the schema exists.
// It skips the calling test when PROPS_TEST_DATABASE_URL is not set.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv(TestDatabaseURLEnv)
	if dsn == "" {
		t.Skipf("skipping integration test: %s not set", TestDatabaseURLEnv)
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	db := &DB{pool: pool}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to ping test database: %v", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to ensure test schema: %v", err)
	}

	return db
}

// TeardownTestDB truncates engine tables and closes the pool
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()

	if db == nil {
		return
	}
	CleanTables(t, db)
	db.Close()
}

// CleanTables empties every engine table between test cases
func CleanTables(t *testing.T, db *DB) {
	t.Helper()

	tables := []string{
		"weight_adjustments",
		"calibration_samples",
		"prop_analyses",
		"agent_weights",
	}
	ctx := context.Background()
	for _, table := range tables {
		if _, err := db.pool.Exec(ctx, "TRUNCATE TABLE "+table); err != nil {
			t.Fatalf("failed to truncate %s: %v", table, err)
		}
	}
}
