package models

import (
	"time"

	"github.com/google/uuid"
)

// CalibrationSample is one graded agent prediction. SettledOver is a fact
// about the prop, not the agent; whether the agent was right is derived from
// the direction its score implied at prediction time.
type CalibrationSample struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Agent       string    `db:"agent" json:"agent"`
	PropID      uuid.UUID `db:"prop_id" json:"prop_id"`
	Score       float64   `db:"score" json:"score"`
	SettledOver bool      `db:"settled_over" json:"settled_over"`
	Season      int       `db:"season" json:"season"`
	Week        int       `db:"week" json:"week"`
	GradedAt    time.Time `db:"graded_at" json:"graded_at"`
}

// ImpliedOver reports the direction the score implied. Scores at exactly 50
// carry no lean and count as over by convention.
func (s *CalibrationSample) ImpliedOver() bool {
	return s.Score >= 50
}

// Correct reports whether the implied direction matched the settled outcome
func (s *CalibrationSample) Correct() bool {
	return s.ImpliedOver() == s.SettledOver
}

// ImpliedProbability is the confidence the score expressed in its own
// implied direction (0.5-1.0).
func (s *CalibrationSample) ImpliedProbability() float64 {
	p := s.Score / 100
	if !s.ImpliedOver() {
		p = 1 - p
	}
	return p
}

// AgentCalibration summarizes one agent's performance over a sample window
type AgentCalibration struct {
	Agent          string  `json:"agent"`
	SampleCount    int     `json:"sample_count"`
	Accuracy       float64 `json:"accuracy"`
	MeanConfidence float64 `json:"mean_confidence"`
	Overconfidence float64 `json:"overconfidence"`
	OldWeight      float64 `json:"old_weight"`
	NewWeight      float64 `json:"new_weight"`
	Adjusted       bool    `json:"adjusted"`
	Note           string  `json:"note,omitempty"`
}

// CalibrationReport is the outcome of one weekly calibration cycle
type CalibrationReport struct {
	Season     int                `json:"season"`
	Week       int                `json:"week"`
	Agents     []AgentCalibration `json:"agents"`
	NewVersion int64              `json:"new_version"`
	RanAt      time.Time          `json:"ran_at"`
}
