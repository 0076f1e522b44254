package database

import (
	"context"
	"fmt"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/config"
)

// schemaStatements creates every table the engine persists to. Statements
// are idempotent so Initialize is safe on every startup.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS agent_weights (
		agent      TEXT PRIMARY KEY,
		weight     DOUBLE PRECISION NOT NULL,
		version    BIGINT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS weight_adjustments (
		id             UUID PRIMARY KEY,
		agent          TEXT NOT NULL,
		old_weight     DOUBLE PRECISION NOT NULL,
		new_weight     DOUBLE PRECISION NOT NULL,
		accuracy       DOUBLE PRECISION NOT NULL,
		overconfidence DOUBLE PRECISION NOT NULL,
		sample_count   INTEGER NOT NULL,
		season         INTEGER NOT NULL,
		week           INTEGER NOT NULL,
		reason         TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_weight_adjustments_agent
		ON weight_adjustments (agent, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_weight_adjustments_created
		ON weight_adjustments (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS calibration_samples (
		id           UUID PRIMARY KEY,
		agent        TEXT NOT NULL,
		prop_id      UUID NOT NULL,
		score        DOUBLE PRECISION NOT NULL,
		settled_over BOOLEAN NOT NULL,
		season       INTEGER NOT NULL,
		week         INTEGER NOT NULL,
		graded_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_calibration_samples_week
		ON calibration_samples (season DESC, week DESC)`,
	`CREATE TABLE IF NOT EXISTS prop_analyses (
		id              UUID PRIMARY KEY,
		prop            JSONB NOT NULL,
		breakdown       JSONB NOT NULL,
		confidence      DOUBLE PRECISION NOT NULL,
		direction       TEXT NOT NULL,
		recommendation  TEXT NOT NULL,
		top_drivers     JSONB NOT NULL,
		edge_summary    TEXT NOT NULL DEFAULT '',
		season          INTEGER NOT NULL,
		week            INTEGER NOT NULL,
		weights_version BIGINT NOT NULL,
		analyzed_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_prop_analyses_week
		ON prop_analyses (season, week)`,
}

// Initialize creates a connection pool and ensures the engine schema exists
func Initialize(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	db, err := NewDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema applies the idempotent schema statements
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
