// Package calibration adjusts agent weights from graded prop outcomes. Each
// cycle measures per-agent directional accuracy against stated confidence and
// nudges the weight table toward the better-calibrated agents.
package calibration

import (
	"fmt"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
)

// Params bound how far one calibration cycle can move any agent's weight
type Params struct {
	Gain          float64 `json:"gain"`           // multiplier on the overconfidence correction
	AccuracyBonus float64 `json:"accuracy_bonus"` // multiplier on distance from coin-flip accuracy
	MaxDelta      float64 `json:"max_delta"`      // per-cycle weight change ceiling
	MinWeight     float64 `json:"min_weight"`
	MaxWeight     float64 `json:"max_weight"`
	MinSamples    int     `json:"min_samples"` // floor below which an agent is left untouched
}

// DefaultParams returns the default calibration parameters
func DefaultParams() Params {
	return Params{
		Gain:          0.5,
		AccuracyBonus: 0.3,
		MaxDelta:      models.MaxWeightDelta,
		MinWeight:     models.MinAgentWeight,
		MaxWeight:     models.MaxAgentWeight,
		MinSamples:    models.MinSamplesPerCycle,
	}
}

// Calibrator computes per-agent weight adjustments from graded samples
type Calibrator struct {
	params Params
}

// NewCalibrator creates a calibrator, filling zero params with defaults
func NewCalibrator(params Params) *Calibrator {
	def := DefaultParams()
	if params.Gain == 0 {
		params.Gain = def.Gain
	}
	if params.AccuracyBonus == 0 {
		params.AccuracyBonus = def.AccuracyBonus
	}
	if params.MaxDelta == 0 {
		params.MaxDelta = def.MaxDelta
	}
	if params.MinWeight == 0 {
		params.MinWeight = def.MinWeight
	}
	if params.MaxWeight == 0 {
		params.MaxWeight = def.MaxWeight
	}
	if params.MinSamples == 0 {
		params.MinSamples = def.MinSamples
	}
	return &Calibrator{params: params}
}

// Calibrate measures one agent's graded samples against its stated confidence
// and returns the weight change they justify. An overconfident agent (stated
// probability above realized accuracy) is discounted; accuracy above the 50%
// baseline earns a bonus. Agents below the sample floor keep their old weight
// and carry an explanatory note instead.
func (c *Calibrator) Calibrate(agent string, oldWeight float64, samples []*models.CalibrationSample) models.AgentCalibration {
	cal := models.AgentCalibration{
		Agent:       agent,
		SampleCount: len(samples),
		OldWeight:   oldWeight,
		NewWeight:   oldWeight,
	}

	if len(samples) < c.params.MinSamples {
		cal.Note = fmt.Sprintf("%v: %d of %d required", models.ErrInsufficientSamples, len(samples), c.params.MinSamples)
		return cal
	}

	correct := 0
	confidenceSum := 0.0
	for _, s := range samples {
		if s.Correct() {
			correct++
		}
		confidenceSum += s.ImpliedProbability()
	}
	n := float64(len(samples))
	cal.Accuracy = float64(correct) / n
	cal.MeanConfidence = confidenceSum / n
	cal.Overconfidence = cal.MeanConfidence - cal.Accuracy

	delta := -cal.Overconfidence*c.params.Gain + (cal.Accuracy-0.5)*c.params.AccuracyBonus
	deltaClamped := false
	if delta > c.params.MaxDelta {
		delta = c.params.MaxDelta
		deltaClamped = true
	} else if delta < -c.params.MaxDelta {
		delta = -c.params.MaxDelta
		deltaClamped = true
	}

	next := oldWeight + delta
	boundsClamped := false
	if next < c.params.MinWeight {
		next = c.params.MinWeight
		boundsClamped = true
	} else if next > c.params.MaxWeight {
		next = c.params.MaxWeight
		boundsClamped = true
	}

	cal.NewWeight = next
	cal.Adjusted = next != oldWeight
	switch {
	case deltaClamped && boundsClamped:
		cal.Note = "delta and weight clamped to guardrails"
	case deltaClamped:
		cal.Note = fmt.Sprintf("delta clamped to ±%.2f", c.params.MaxDelta)
	case boundsClamped:
		cal.Note = fmt.Sprintf("weight clamped to [%.2f, %.2f]", c.params.MinWeight, c.params.MaxWeight)
	}
	return cal
}
