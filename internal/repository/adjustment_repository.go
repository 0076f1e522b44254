package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/database"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
)

// PostgresAdjustmentRepository implements AdjustmentRepository for
// PostgreSQL. The table is append-only; there is no update path.
type PostgresAdjustmentRepository struct {
	db *database.DB
}

// NewPostgresAdjustmentRepository creates a new adjustment repository
func NewPostgresAdjustmentRepository(db *database.DB) AdjustmentRepository {
	return &PostgresAdjustmentRepository{db: db}
}

const insertAdjustmentQuery = `
	INSERT INTO weight_adjustments (id, agent, old_weight, new_weight, accuracy,
	                                overconfidence, sample_count, season, week, reason, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

// Insert appends one adjustment record
func (a *PostgresAdjustmentRepository) Insert(ctx context.Context, adjustment *models.WeightAdjustment) error {
	_, err := a.db.GetPool().Exec(ctx, insertAdjustmentQuery,
		adjustment.ID, adjustment.Agent, adjustment.OldWeight, adjustment.NewWeight,
		adjustment.Accuracy, adjustment.Overconfidence, adjustment.SampleCount,
		adjustment.Season, adjustment.Week, adjustment.Reason, adjustment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert weight adjustment: %w", err)
	}
	return nil
}

// InsertWithTx appends one adjustment record inside the caller's transaction
func (a *PostgresAdjustmentRepository) InsertWithTx(ctx context.Context, tx pgx.Tx, adjustment *models.WeightAdjustment) error {
	_, err := tx.Exec(ctx, insertAdjustmentQuery,
		adjustment.ID, adjustment.Agent, adjustment.OldWeight, adjustment.NewWeight,
		adjustment.Accuracy, adjustment.Overconfidence, adjustment.SampleCount,
		adjustment.Season, adjustment.Week, adjustment.Reason, adjustment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert weight adjustment: %w", err)
	}
	return nil
}

const selectAdjustmentColumns = `
	SELECT id, agent, old_weight, new_weight, accuracy, overconfidence,
	       sample_count, season, week, reason, created_at
	FROM weight_adjustments
`

// GetByAgent retrieves the most recent adjustments for one agent
func (a *PostgresAdjustmentRepository) GetByAgent(ctx context.Context, agent string, limit int) ([]*models.WeightAdjustment, error) {
	query := selectAdjustmentColumns + `
		WHERE agent = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := a.db.GetPool().Query(ctx, query, agent, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query adjustments by agent: %w", err)
	}
	defer rows.Close()

	return scanAdjustments(rows)
}

// GetRecent retrieves the most recent adjustments across all agents
func (a *PostgresAdjustmentRepository) GetRecent(ctx context.Context, limit int) ([]*models.WeightAdjustment, error) {
	query := selectAdjustmentColumns + `
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := a.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent adjustments: %w", err)
	}
	defer rows.Close()

	return scanAdjustments(rows)
}

func scanAdjustments(rows pgx.Rows) ([]*models.WeightAdjustment, error) {
	var adjustments []*models.WeightAdjustment
	for rows.Next() {
		adj := &models.WeightAdjustment{}
		err := rows.Scan(
			&adj.ID, &adj.Agent, &adj.OldWeight, &adj.NewWeight, &adj.Accuracy,
			&adj.Overconfidence, &adj.SampleCount, &adj.Season, &adj.Week,
			&adj.Reason, &adj.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan weight adjustment: %w", err)
		}
		adjustments = append(adjustments, adj)
	}
	return adjustments, rows.Err()
}
