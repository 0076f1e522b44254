package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
)

// WeightRepository defines the interface for agent weight persistence
type WeightRepository interface {
	GetCurrent(ctx context.Context) (*models.WeightTable, error)
	Save(ctx context.Context, table *models.WeightTable) error
	SaveWithTx(ctx context.Context, tx pgx.Tx, table *models.WeightTable) error
}

// AdjustmentRepository defines the interface for the append-only weight
// adjustment history
type AdjustmentRepository interface {
	Insert(ctx context.Context, adjustment *models.WeightAdjustment) error
	InsertWithTx(ctx context.Context, tx pgx.Tx, adjustment *models.WeightAdjustment) error
	GetByAgent(ctx context.Context, agent string, limit int) ([]*models.WeightAdjustment, error)
	GetRecent(ctx context.Context, limit int) ([]*models.WeightAdjustment, error)
}

// SampleRepository defines the interface for graded calibration samples
type SampleRepository interface {
	Insert(ctx context.Context, sample *models.CalibrationSample) error
	InsertBatch(ctx context.Context, samples []*models.CalibrationSample) error
	GetByWeek(ctx context.Context, season, week int) ([]*models.CalibrationSample, error)
	CountByWeek(ctx context.Context, season, week int) (int, error)
	LatestWeek(ctx context.Context) (season int, week int, err error)
}

// AnalysisRepository defines the interface for persisted prop analyses
type AnalysisRepository interface {
	SaveBatch(ctx context.Context, analyses []*models.PropAnalysis) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PropAnalysis, error)
	GetByWeek(ctx context.Context, season, week int) ([]*models.PropAnalysis, error)
}
