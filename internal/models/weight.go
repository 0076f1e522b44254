package models

import (
	"time"

	"github.com/google/uuid"
)

// Default guardrails for agent weights. Calibration may tune a weight only
// inside [MinAgentWeight, MaxAgentWeight] and by at most MaxWeightDelta per
// cycle; config can tighten but not exceed these.
const (
	MinAgentWeight     = 0.25
	MaxAgentWeight     = 2.50
	DefaultWeight      = 1.00
	MaxWeightDelta     = 0.15
	MinSamplesPerCycle = 10
)

// WeightTable is a versioned snapshot of per-agent weights. Batches read one
// snapshot for their whole run; only the calibration service writes new
// versions.
type WeightTable struct {
	Version   int64              `json:"version"`
	Weights   map[string]float64 `json:"weights"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// NewWeightTable builds version 1 with every named agent at the default weight
func NewWeightTable(agents []string) *WeightTable {
	w := make(map[string]float64, len(agents))
	for _, a := range agents {
		w[a] = DefaultWeight
	}
	return &WeightTable{Version: 1, Weights: w, UpdatedAt: time.Now().UTC()}
}

// Get returns the weight for an agent, defaulting unknown agents to 1.0
func (t *WeightTable) Get(agent string) float64 {
	if t == nil {
		return DefaultWeight
	}
	if w, ok := t.Weights[agent]; ok {
		return w
	}
	return DefaultWeight
}

// Clone returns a deep copy so callers can hold a stable snapshot
func (t *WeightTable) Clone() *WeightTable {
	if t == nil {
		return nil
	}
	w := make(map[string]float64, len(t.Weights))
	for k, v := range t.Weights {
		w[k] = v
	}
	return &WeightTable{Version: t.Version, Weights: w, UpdatedAt: t.UpdatedAt}
}

// WeightAdjustment is one audited calibration change for one agent
type WeightAdjustment struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Agent          string    `db:"agent" json:"agent"`
	OldWeight      float64   `db:"old_weight" json:"old_weight"`
	NewWeight      float64   `db:"new_weight" json:"new_weight"`
	Accuracy       float64   `db:"accuracy" json:"accuracy"`
	Overconfidence float64   `db:"overconfidence" json:"overconfidence"`
	SampleCount    int       `db:"sample_count" json:"sample_count"`
	Season         int       `db:"season" json:"season"`
	Week           int       `db:"week" json:"week"`
	Reason         string    `db:"reason" json:"reason"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Delta returns the signed weight change
func (a *WeightAdjustment) Delta() float64 {
	return a.NewWeight - a.OldWeight
}
