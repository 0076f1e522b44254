package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/database"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
)

// PostgresSampleRepository implements SampleRepository for PostgreSQL
type PostgresSampleRepository struct {
	db *database.DB
}

// NewPostgresSampleRepository creates a new sample repository
func NewPostgresSampleRepository(db *database.DB) SampleRepository {
	return &PostgresSampleRepository{db: db}
}

// Insert stores one graded sample
func (s *PostgresSampleRepository) Insert(ctx context.Context, sample *models.CalibrationSample) error {
	query := `
		INSERT INTO calibration_samples (id, agent, prop_id, score, settled_over, season, week, graded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.GetPool().Exec(ctx, query,
		sample.ID, sample.Agent, sample.PropID, sample.Score, sample.SettledOver,
		sample.Season, sample.Week, sample.GradedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert calibration sample: %w", err)
	}
	return nil
}

// InsertBatch bulk-loads graded samples with COPY
func (s *PostgresSampleRepository) InsertBatch(ctx context.Context, samples []*models.CalibrationSample) error {
	if len(samples) == 0 {
		return nil
	}

	columns := []string{"id", "agent", "prop_id", "score", "settled_over", "season", "week", "graded_at"}

	copyFromSource := make([][]interface{}, len(samples))
	for i, sample := range samples {
		copyFromSource[i] = []interface{}{
			sample.ID, sample.Agent, sample.PropID, sample.Score, sample.SettledOver,
			sample.Season, sample.Week, sample.GradedAt,
		}
	}

	count, err := s.db.GetPool().CopyFrom(ctx, pgx.Identifier{"calibration_samples"}, columns, pgx.CopyFromRows(copyFromSource))
	if err != nil {
		return fmt.Errorf("failed to batch insert calibration samples: %w", err)
	}
	if count != int64(len(samples)) {
		return fmt.Errorf("inserted %d samples, expected %d", count, len(samples))
	}
	return nil
}

// GetByWeek retrieves every sample graded for one season week
func (s *PostgresSampleRepository) GetByWeek(ctx context.Context, season, week int) ([]*models.CalibrationSample, error) {
	query := `
		SELECT id, agent, prop_id, score, settled_over, season, week, graded_at
		FROM calibration_samples
		WHERE season = $1 AND week = $2
		ORDER BY agent, graded_at
	`

	rows, err := s.db.GetPool().Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query calibration samples: %w", err)
	}
	defer rows.Close()

	var samples []*models.CalibrationSample
	for rows.Next() {
		sample := &models.CalibrationSample{}
		err := rows.Scan(
			&sample.ID, &sample.Agent, &sample.PropID, &sample.Score, &sample.SettledOver,
			&sample.Season, &sample.Week, &sample.GradedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calibration sample: %w", err)
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

// CountByWeek returns the number of samples graded for one season week
func (s *PostgresSampleRepository) CountByWeek(ctx context.Context, season, week int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM calibration_samples
		WHERE season = $1 AND week = $2
	`

	var count int
	if err := s.db.GetPool().QueryRow(ctx, query, season, week).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count calibration samples: %w", err)
	}
	return count, nil
}

// LatestWeek returns the most recent season week with graded samples
func (s *PostgresSampleRepository) LatestWeek(ctx context.Context) (int, int, error) {
	query := `
		SELECT season, week
		FROM calibration_samples
		ORDER BY season DESC, week DESC
		LIMIT 1
	`

	var season, week int
	err := s.db.GetPool().QueryRow(ctx, query).Scan(&season, &week)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, models.ErrNotFound
		}
		return 0, 0, fmt.Errorf("failed to find latest graded week: %w", err)
	}
	return season, week, nil
}
