package repository

import (
	"fmt"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Weight     WeightRepository
	Adjustment AdjustmentRepository
	Sample     SampleRepository
	Analysis   AnalysisRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Weight:     NewPostgresWeightRepository(db),
		Adjustment: NewPostgresAdjustmentRepository(db),
		Sample:     NewPostgresSampleRepository(db),
		Analysis:   NewPostgresAnalysisRepository(db),
	}, nil
}
