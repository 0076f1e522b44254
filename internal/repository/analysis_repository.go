package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/database"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
)

// PostgresAnalysisRepository implements AnalysisRepository for
// PostgreSQL. The agent breakdown and top drivers are stored as JSONB
// next to the queryable scalar columns.
type PostgresAnalysisRepository struct {
	db *database.DB
}

// NewPostgresAnalysisRepository creates a new analysis repository
func NewPostgresAnalysisRepository(db *database.DB) AnalysisRepository {
	return &PostgresAnalysisRepository{db: db}
}

// SaveBatch upserts a batch of analyses. Re-analyzing a prop under a
// new weights version overwrites the stored row.
func (r *PostgresAnalysisRepository) SaveBatch(ctx context.Context, analyses []*models.PropAnalysis) error {
	if len(analyses) == 0 {
		return nil
	}

	query := `
		INSERT INTO prop_analyses (id, prop, breakdown, confidence, direction, recommendation,
		                           top_drivers, edge_summary, season, week, weights_version, analyzed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE
		SET breakdown = EXCLUDED.breakdown, confidence = EXCLUDED.confidence,
		    direction = EXCLUDED.direction, recommendation = EXCLUDED.recommendation,
		    top_drivers = EXCLUDED.top_drivers, edge_summary = EXCLUDED.edge_summary,
		    weights_version = EXCLUDED.weights_version, analyzed_at = EXCLUDED.analyzed_at
	`

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, analysis := range analyses {
			prop, breakdown, drivers, err := encodeAnalysis(analysis)
			if err != nil {
				return err
			}
			_, err = tx.Exec(ctx, query,
				analysis.ID, prop, breakdown, analysis.Confidence, analysis.Direction,
				analysis.Recommendation, drivers, analysis.EdgeSummary,
				analysis.Prop.Season, analysis.Prop.Week, analysis.WeightsVersion, analysis.AnalyzedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to save analysis %s: %w", analysis.ID, err)
			}
		}
		return nil
	})
}

const selectAnalysisColumns = `
	SELECT id, prop, breakdown, confidence, direction, recommendation,
	       top_drivers, edge_summary, weights_version, analyzed_at
	FROM prop_analyses
`

// GetByID retrieves one stored analysis
func (r *PostgresAnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PropAnalysis, error) {
	query := selectAnalysisColumns + ` WHERE id = $1`

	analysis, err := scanAnalysis(r.db.GetPool().QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return analysis, nil
}

// GetByWeek retrieves all stored analyses for one season week
func (r *PostgresAnalysisRepository) GetByWeek(ctx context.Context, season, week int) ([]*models.PropAnalysis, error) {
	query := selectAnalysisColumns + `
		WHERE season = $1 AND week = $2
		ORDER BY confidence DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses by week: %w", err)
	}
	defer rows.Close()

	var analyses []*models.PropAnalysis
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses = append(analyses, analysis)
	}
	return analyses, rows.Err()
}

func encodeAnalysis(analysis *models.PropAnalysis) (prop, breakdown, drivers []byte, err error) {
	if prop, err = json.Marshal(analysis.Prop); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode prop: %w", err)
	}
	if breakdown, err = json.Marshal(analysis.Breakdown); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode breakdown: %w", err)
	}
	if drivers, err = json.Marshal(analysis.TopDrivers); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode top drivers: %w", err)
	}
	return prop, breakdown, drivers, nil
}

func scanAnalysis(row pgx.Row) (*models.PropAnalysis, error) {
	analysis := &models.PropAnalysis{}
	var prop, breakdown, drivers []byte
	err := row.Scan(
		&analysis.ID, &prop, &breakdown, &analysis.Confidence, &analysis.Direction,
		&analysis.Recommendation, &drivers, &analysis.EdgeSummary,
		&analysis.WeightsVersion, &analysis.AnalyzedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(prop, &analysis.Prop); err != nil {
		return nil, fmt.Errorf("failed to decode prop: %w", err)
	}
	if err := json.Unmarshal(breakdown, &analysis.Breakdown); err != nil {
		return nil, fmt.Errorf("failed to decode breakdown: %w", err)
	}
	if err := json.Unmarshal(drivers, &analysis.TopDrivers); err != nil {
		return nil, fmt.Errorf("failed to decode top drivers: %w", err)
	}
	return analysis, nil
}
