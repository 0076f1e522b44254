package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalibrationSampleImpliedOver(t *testing.T) {
	tests := []struct {
		score float64
		want  bool
	}{
		{score: 75, want: true},
		{score: 50, want: true}, // exactly 50 counts as over by convention
		{score: 49.9, want: false},
		{score: 20, want: false},
	}

	for _, tt := range tests {
		s := &CalibrationSample{Score: tt.score}
		assert.Equal(t, tt.want, s.ImpliedOver(), "score %.1f", tt.score)
	}
}

func TestCalibrationSampleCorrect(t *testing.T) {
	tests := []struct {
		name        string
		score       float64
		settledOver bool
		want        bool
	}{
		{name: "over call, went over", score: 75, settledOver: true, want: true},
		{name: "over call, went under", score: 75, settledOver: false, want: false},
		{name: "under call, went under", score: 30, settledOver: false, want: true},
		{name: "under call, went over", score: 30, settledOver: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &CalibrationSample{Score: tt.score, SettledOver: tt.settledOver}
			assert.Equal(t, tt.want, s.Correct())
		})
	}
}

func TestImpliedProbability(t *testing.T) {
	tests := []struct {
		score float64
		want  float64
	}{
		{score: 75, want: 0.75},
		{score: 30, want: 0.70},
		{score: 50, want: 0.50},
		{score: 90, want: 0.90},
	}

	for _, tt := range tests {
		s := &CalibrationSample{Score: tt.score}
		assert.InDelta(t, tt.want, s.ImpliedProbability(), 1e-9, "score %.1f", tt.score)
	}
}

func TestNewWeightTable(t *testing.T) {
	table := NewWeightTable([]string{"matchup", "usage", "weather"})

	assert.Equal(t, int64(1), table.Version)
	require.Len(t, table.Weights, 3)
	for agent, w := range table.Weights {
		assert.Equal(t, DefaultWeight, w, "agent %s", agent)
	}
	assert.False(t, table.UpdatedAt.IsZero())
}

func TestWeightTableGet(t *testing.T) {
	table := &WeightTable{Version: 2, Weights: map[string]float64{"matchup": 1.35}}

	assert.Equal(t, 1.35, table.Get("matchup"))
	assert.Equal(t, DefaultWeight, table.Get("unknown"))

	var nilTable *WeightTable
	assert.Equal(t, DefaultWeight, nilTable.Get("matchup"))
}

func TestWeightTableCloneIsIndependent(t *testing.T) {
	table := &WeightTable{Version: 2, Weights: map[string]float64{"matchup": 1.35}}

	clone := table.Clone()
	clone.Weights["matchup"] = 0.50
	clone.Version = 9

	assert.Equal(t, 1.35, table.Weights["matchup"])
	assert.Equal(t, int64(2), table.Version)

	var nilTable *WeightTable
	assert.Nil(t, nilTable.Clone())
}

func TestWeightAdjustmentDelta(t *testing.T) {
	adj := &WeightAdjustment{OldWeight: 1.00, NewWeight: 0.955}
	assert.InDelta(t, -0.045, adj.Delta(), 1e-9)
}
