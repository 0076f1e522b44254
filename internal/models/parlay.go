package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RiskLevel classifies a parlay's correlation exposure
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// ParlayCandidate is a constructed multi-leg ticket before sizing
type ParlayCandidate struct {
	ID                 uuid.UUID      `json:"id"`
	Legs               []PropAnalysis `json:"legs"`
	CombinedConfidence float64        `json:"combined_confidence"` // mean leg confidence + penalty, clamped 0-100
	CorrelationPenalty float64        `json:"correlation_penalty"` // <= 0
	RiskLevel          RiskLevel      `json:"risk_level"`
	DecimalOdds        float64        `json:"decimal_odds"` // product of leg prices
	CreatedAt          time.Time      `json:"created_at"`
}

// LegCount returns the number of legs on the ticket
func (p *ParlayCandidate) LegCount() int {
	return len(p.Legs)
}

// Players returns the normalized player keys across all legs, with repeats
func (p *ParlayCandidate) Players() []string {
	keys := make([]string, 0, len(p.Legs))
	for _, leg := range p.Legs {
		keys = append(keys, leg.Prop.PlayerKey)
	}
	return keys
}

// HasPlayer reports whether any leg belongs to the given player key
func (p *ParlayCandidate) HasPlayer(playerKey string) bool {
	for _, leg := range p.Legs {
		if leg.Prop.PlayerKey == playerKey {
			return true
		}
	}
	return false
}

// SizedParlay is a parlay candidate with a stake attached
type SizedParlay struct {
	Parlay        ParlayCandidate `json:"parlay"`
	KellyFraction float64         `json:"kelly_fraction"` // fractional Kelly after scaling, pre-cap
	Stake         decimal.Decimal `json:"stake"`
	Skipped       bool            `json:"skipped"`
	SkipReason    string          `json:"skip_reason,omitempty"`
	SizedAt       time.Time       `json:"sized_at"`
}
