package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/database"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
)

// fakeRow satisfies pgx.Row for exercising scanAnalysis without a
// database connection.
type fakeRow struct {
	values []interface{}
}

func (r fakeRow) Scan(dest ...interface{}) error {
	for i, d := range dest {
		switch out := d.(type) {
		case *uuid.UUID:
			*out = r.values[i].(uuid.UUID)
		case *[]byte:
			*out = r.values[i].([]byte)
		case *float64:
			*out = r.values[i].(float64)
		case *int64:
			*out = r.values[i].(int64)
		case *string:
			*out = r.values[i].(string)
		case *models.Direction:
			*out = r.values[i].(models.Direction)
		case *models.Recommendation:
			*out = r.values[i].(models.Recommendation)
		case *time.Time:
			*out = r.values[i].(time.Time)
		default:
			panic("fakeRow: unhandled destination type")
		}
	}
	return nil
}

func TestNewRepositoriesRequiresDB(t *testing.T) {
	repos, err := NewRepositories(nil)
	assert.Error(t, err)
	assert.Nil(t, repos)
}

func TestAnalysisEncodeScanRoundTrip(t *testing.T) {
	analyzed := time.Date(2025, 10, 6, 12, 0, 0, 0, time.UTC)
	original := &models.PropAnalysis{
		ID: uuid.New(),
		Prop: models.PropCandidate{
			ID:        uuid.New(),
			Player:    "Josh Allen",
			PlayerKey: "josh allen",
			Team:      "BUF",
			Opponent:  "KC",
			Position:  models.PositionQB,
			StatType:  models.StatPassingYards,
			Line:      249.5,
			GameKey:   "2025-w05-KC@BUF",
			Season:    2025,
			Week:      5,
		},
		Breakdown: []models.AgentContribution{
			{Agent: "efficiency", Score: 78, Weight: 1.2, Direction: models.DirectionOver},
			{Agent: "matchup", Score: 64, Weight: 0.9, Direction: models.DirectionOver},
		},
		Confidence:     71.5,
		Direction:      models.DirectionOver,
		Recommendation: models.RecommendationStrongOver,
		TopDrivers:     []string{"efficiency", "matchup"},
		EdgeSummary:    "driven by efficiency (+33.6), matchup (+12.6)",
		WeightsVersion: 4,
		AnalyzedAt:     analyzed,
	}

	prop, breakdown, drivers, err := encodeAnalysis(original)
	require.NoError(t, err)

	row := fakeRow{values: []interface{}{
		original.ID, prop, breakdown, original.Confidence, original.Direction,
		original.Recommendation, drivers, original.EdgeSummary,
		original.WeightsVersion, analyzed,
	}}

	decoded, err := scanAnalysis(row)
	require.NoError(t, err)

	assert.Equal(t, original.ID, decoded.ID)
	assert.Equal(t, original.Prop.PlayerKey, decoded.Prop.PlayerKey)
	assert.Equal(t, original.Prop.Line, decoded.Prop.Line)
	assert.Equal(t, original.Breakdown, decoded.Breakdown)
	assert.Equal(t, original.TopDrivers, decoded.TopDrivers)
	assert.Equal(t, original.Recommendation, decoded.Recommendation)
	assert.Equal(t, original.WeightsVersion, decoded.WeightsVersion)
}

// TestWeightRepositoryRoundTrip exercises save and reload against a
// live database. Skips when PROPS_TEST_DATABASE_URL is unset.
func TestWeightRepositoryRoundTrip(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	require.NoError(t, err)

	table := models.NewWeightTable([]string{"efficiency", "matchup"})
	table.Weights["efficiency"] = 1.15

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, repos.Weight.Save(ctx, table))

	loaded, err := repos.Weight.GetCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, table.Version, loaded.Version)
	assert.Equal(t, table.Weights, loaded.Weights)
}

// TestSampleRepositoryBatch exercises COPY loading and the latest-week
// lookup against a live database. Skips when PROPS_TEST_DATABASE_URL
// is unset.
func TestSampleRepositoryBatch(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	require.NoError(t, err)

	samples := make([]*models.CalibrationSample, 100)
	for i := range samples {
		samples[i] = &models.CalibrationSample{
			ID:          uuid.New(),
			Agent:       "efficiency",
			PropID:      uuid.New(),
			Score:       62,
			SettledOver: i%2 == 0,
			Season:      2025,
			Week:        5,
			GradedAt:    time.Now().UTC(),
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, repos.Sample.InsertBatch(ctx, samples))

	count, err := repos.Sample.CountByWeek(ctx, 2025, 5)
	require.NoError(t, err)
	assert.Equal(t, 100, count)

	season, week, err := repos.Sample.LatestWeek(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2025, season)
	assert.Equal(t, 5, week)
}
