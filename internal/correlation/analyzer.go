// Package correlation detects hidden coupling between analyzed props headed
// for the same parlay. Two legs whose composites lean on the same agents and
// share a game or player tend to win and lose together, which parlay pricing
// does not pay for.
package correlation

import (
	"github.com/sirupsen/logrus"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
)

// Config holds the penalty schedule
type Config struct {
	SharedDriverMin int     // shared top drivers needed to call a pair correlated
	PairPenalty     float64 // confidence deduction per correlated pair, negative
	PenaltyFloor    float64 // total deduction floor, negative
	LowAbove        float64 // penalties above this are LOW risk
	MediumAbove     float64 // penalties above this are MEDIUM risk
}

// DefaultConfig returns the standard penalty schedule
func DefaultConfig() Config {
	return Config{
		SharedDriverMin: 2,
		PairPenalty:     -5,
		PenaltyFloor:    -15,
		LowAbove:        -5,
		MediumAbove:     -10,
	}
}

// Analyzer scores correlation risk across parlay legs
type Analyzer struct {
	cfg    Config
	logger *logrus.Logger
}

// NewAnalyzer creates a correlation analyzer
func NewAnalyzer(cfg Config, logger *logrus.Logger) *Analyzer {
	if cfg.SharedDriverMin <= 0 {
		cfg = DefaultConfig()
	}
	return &Analyzer{cfg: cfg, logger: logger}
}

// Correlated reports whether two analyses are coupled: they share at least
// the configured number of top drivers AND sit in the same game or belong
// to the same player.
func (a *Analyzer) Correlated(x, y *models.PropAnalysis) bool {
	if x == nil || y == nil {
		return false
	}
	if x.SharesDriversWith(y) < a.cfg.SharedDriverMin {
		return false
	}
	return x.Prop.GameKey == y.Prop.GameKey || x.Prop.PlayerKey == y.Prop.PlayerKey
}

// PairPenalty returns the confidence deduction for one pair of legs:
// the configured penalty when correlated, exactly zero otherwise.
func (a *Analyzer) PairPenalty(x, y *models.PropAnalysis) float64 {
	if a.Correlated(x, y) {
		return a.cfg.PairPenalty
	}
	return 0
}

// ScoreParlay sums pairwise penalties across all legs, floors the total and
// classifies the result. A parlay with no correlated pair scores exactly 0
// and LOW; the penalty is never positive.
func (a *Analyzer) ScoreParlay(legs []*models.PropAnalysis) (float64, models.RiskLevel) {
	penalty := 0.0
	pairs := 0
	for i := 0; i < len(legs); i++ {
		for j := i + 1; j < len(legs); j++ {
			if p := a.PairPenalty(legs[i], legs[j]); p != 0 {
				penalty += p
				pairs++
			}
		}
	}
	if penalty < a.cfg.PenaltyFloor {
		penalty = a.cfg.PenaltyFloor
	}

	risk := a.riskFor(penalty)
	if pairs > 0 && a.logger != nil {
		a.logger.WithFields(logrus.Fields{
			"legs":             len(legs),
			"correlated_pairs": pairs,
			"penalty":          penalty,
			"risk":             risk,
		}).Debug("Correlation detected in parlay")
	}
	return penalty, risk
}

// Saturated reports whether a penalty hit the stacking floor, meaning
// pairwise deductions were truncated and the true correlation load is
// worse than the number shows.
func (a *Analyzer) Saturated(penalty float64) bool {
	return penalty <= a.cfg.PenaltyFloor
}

func (a *Analyzer) riskFor(penalty float64) models.RiskLevel {
	switch {
	case penalty > a.cfg.LowAbove:
		return models.RiskLow
	case penalty > a.cfg.MediumAbove:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}
