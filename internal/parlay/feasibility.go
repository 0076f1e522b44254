package parlay

import (
	"github.com/scottolmer/nfl-betting-system-sub001/internal/metrics"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
)

// avoidCeiling is the top of the dead zone: a combined confidence below
// it grades AVOID and enhanced mode refuses to emit the ticket.
const avoidCeiling = 55.0

// feasible decides whether next may join the partial ticket. Checks run
// cheapest first; the correlation re-test scores the tentative ticket
// including next so stacking is caught as it forms, not after.
func (b *Builder) feasible(partial []*models.PropAnalysis, next *models.PropAnalysis, exposure map[string]int) bool {
	inTicket := 0
	for _, leg := range partial {
		if leg.Prop.LegKey() == next.Prop.LegKey() {
			metrics.ParlaysRejectedTotal.WithLabelValues("duplicate_leg").Inc()
			return false
		}
		if leg.Prop.PlayerKey == next.Prop.PlayerKey {
			inTicket++
		}
	}

	if exposure[next.Prop.PlayerKey]+inTicket+1 > b.cfg.MaxPlayerExposure {
		metrics.ParlaysRejectedTotal.WithLabelValues("exposure_cap").Inc()
		return false
	}

	if b.cfg.Enhanced {
		for _, leg := range partial {
			if conflicts(leg, next) {
				metrics.ParlaysRejectedTotal.WithLabelValues("semantic_conflict").Inc()
				return false
			}
		}
	}

	if len(partial) > 0 {
		trial := make([]*models.PropAnalysis, len(partial), len(partial)+1)
		copy(trial, partial)
		trial = append(trial, next)

		penalty, risk := b.corr.ScoreParlay(trial)
		if b.corr.Saturated(penalty) {
			metrics.ParlaysRejectedTotal.WithLabelValues("stacking_floor").Inc()
			return false
		}
		if riskRank(risk) > riskRank(b.cfg.MaxRisk) {
			metrics.ParlaysRejectedTotal.WithLabelValues("risk_ceiling").Inc()
			return false
		}
	}

	return true
}

func riskRank(r models.RiskLevel) int {
	switch r {
	case models.RiskLow:
		return 0
	case models.RiskMedium:
		return 1
	default:
		return 2
	}
}
