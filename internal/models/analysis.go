package models

import (
	"time"

	"github.com/google/uuid"
)

// Recommendation represents the graded betting recommendation for a prop
type Recommendation string

const (
	RecommendationStrongOver    Recommendation = "STRONG_OVER"
	RecommendationModerateOver  Recommendation = "MODERATE_OVER"
	RecommendationLeanOver      Recommendation = "LEAN_OVER"
	RecommendationLeanUnder     Recommendation = "LEAN_UNDER"
	RecommendationModerateUnder Recommendation = "MODERATE_UNDER"
	RecommendationStrongUnder   Recommendation = "STRONG_UNDER"
	RecommendationAvoid         Recommendation = "AVOID"
)

// IsPlayable reports whether the recommendation is actionable on either side
func (r Recommendation) IsPlayable() bool {
	return r != RecommendationAvoid && r != ""
}

// AgentVerdict is a single agent's independent read of a prop
type AgentVerdict struct {
	Agent     string    `json:"agent"`
	Score     float64   `json:"score"` // 0-100, >50 leans OVER
	Direction Direction `json:"direction"`
	Rationale []string  `json:"rationale"`
}

// AgentContribution records an agent's verdict alongside the weight it
// carried in the composite, preserved in aggregation order.
type AgentContribution struct {
	Agent     string    `json:"agent"`
	Score     float64   `json:"score"`
	Weight    float64   `json:"weight"`
	Direction Direction `json:"direction"`
	Rationale []string  `json:"rationale,omitempty"`
}

// Leverage is the contribution's pull away from neutral, |weight*(score-50)|.
// Top drivers and correlation checks rank on it.
func (c AgentContribution) Leverage() float64 {
	d := c.Weight * (c.Score - 50)
	if d < 0 {
		return -d
	}
	return d
}

// PropAnalysis is the aggregate output for one prop candidate
type PropAnalysis struct {
	ID             uuid.UUID           `json:"id"`
	Prop           PropCandidate       `json:"prop"`
	Breakdown      []AgentContribution `json:"breakdown"`
	Confidence     float64             `json:"confidence"` // 0-100 composite
	Direction      Direction           `json:"direction"`
	Recommendation Recommendation      `json:"recommendation"`
	TopDrivers     []string            `json:"top_drivers"`
	EdgeSummary    string              `json:"edge_summary"`
	WeightsVersion int64               `json:"weights_version"`
	AnalyzedAt     time.Time           `json:"analyzed_at"`
}

// OpinionCount returns how many agents actually opined
func (a *PropAnalysis) OpinionCount() int {
	return len(a.Breakdown)
}

// PlayableConfidence expresses confidence toward the recommended side.
// An OVER analysis at 72 and an UNDER analysis at 28 both carry a
// playable confidence of 72; parlay pooling and Kelly sizing work on
// this scale.
func (a *PropAnalysis) PlayableConfidence() float64 {
	if a.Direction == DirectionUnder {
		return 100 - a.Confidence
	}
	return a.Confidence
}

// SharesDriversWith counts top-driver names common to both analyses
func (a *PropAnalysis) SharesDriversWith(other *PropAnalysis) int {
	if a == nil || other == nil {
		return 0
	}
	shared := 0
	for _, d := range a.TopDrivers {
		for _, o := range other.TopDrivers {
			if d == o {
				shared++
				break
			}
		}
	}
	return shared
}
