package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/database"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
)

// PostgresWeightRepository implements WeightRepository for PostgreSQL.
// Weights live one row per agent; the version column is identical
// across rows of one table generation.
type PostgresWeightRepository struct {
	db *database.DB
}

// NewPostgresWeightRepository creates a new weight repository
func NewPostgresWeightRepository(db *database.DB) WeightRepository {
	return &PostgresWeightRepository{db: db}
}

// GetCurrent loads the live weight table. models.ErrNotFound signals an
// unseeded database; callers fall back to defaults.
func (w *PostgresWeightRepository) GetCurrent(ctx context.Context) (*models.WeightTable, error) {
	query := `
		SELECT agent, weight, version, updated_at
		FROM agent_weights
		ORDER BY agent
	`

	rows, err := w.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query agent weights: %w", err)
	}
	defer rows.Close()

	table := &models.WeightTable{Weights: make(map[string]float64)}
	for rows.Next() {
		var agent string
		var weight float64
		if err := rows.Scan(&agent, &weight, &table.Version, &table.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan agent weight: %w", err)
		}
		table.Weights[agent] = weight
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read agent weights: %w", err)
	}

	if len(table.Weights) == 0 {
		return nil, models.ErrNotFound
	}
	return table, nil
}

// Save persists a whole table outside a transaction
func (w *PostgresWeightRepository) Save(ctx context.Context, table *models.WeightTable) error {
	return w.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return w.SaveWithTx(ctx, tx, table)
	})
}

// SaveWithTx upserts every agent row at the table's version inside the
// caller's transaction, so adjustments and the table land atomically.
func (w *PostgresWeightRepository) SaveWithTx(ctx context.Context, tx pgx.Tx, table *models.WeightTable) error {
	query := `
		INSERT INTO agent_weights (agent, weight, version, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (agent) DO UPDATE
		SET weight = EXCLUDED.weight, version = EXCLUDED.version, updated_at = EXCLUDED.updated_at
	`

	for agent, weight := range table.Weights {
		if _, err := tx.Exec(ctx, query, agent, weight, table.Version, table.UpdatedAt); err != nil {
			return fmt.Errorf("failed to save weight for %s: %w", agent, err)
		}
	}
	return nil
}
