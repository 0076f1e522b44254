package parlay

import (
	"sort"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
)

// Risk discounts applied when enhanced mode re-ranks the emitted set.
// At equal confidence a LOW ticket outranks a MEDIUM one.
const (
	mediumRiskDiscount = 2.0
	highRiskDiscount   = 5.0
)

// conflicts reports whether two legs contradict each other. Correlation
// handles legs that win together; this catches legs that cannot.
func conflicts(x, y *models.PropAnalysis) bool {
	if x.Direction == y.Direction {
		return false
	}

	// Same player, opposite directions on coupled volume stats.
	if x.Prop.PlayerKey == y.Prop.PlayerKey && coupledStats(x.Prop.StatType, y.Prop.StatType) {
		return true
	}

	// A quarterback's passing volume one way and that offense's pass
	// catcher the other way is betting against the same drive outcomes.
	if x.Prop.GameKey == y.Prop.GameKey && x.Prop.Team == y.Prop.Team {
		if qbPassLeg(x) && receivingLeg(y) {
			return true
		}
		if qbPassLeg(y) && receivingLeg(x) {
			return true
		}
	}

	return false
}

// coupledStats reports whether two stat types ride the same underlying
// volume for one player.
func coupledStats(a, b models.StatType) bool {
	pair := func(x, y models.StatType) bool {
		return (a == x && b == y) || (a == y && b == x)
	}
	switch {
	case pair(models.StatPassingYards, models.StatPassingTDs):
		return true
	case pair(models.StatRushingYards, models.StatRushingAttempts):
		return true
	case pair(models.StatReceivingYards, models.StatReceptions):
		return true
	}
	return false
}

func qbPassLeg(a *models.PropAnalysis) bool {
	return a.Prop.Position == models.PositionQB && a.Prop.StatType.IsPassing()
}

func receivingLeg(a *models.PropAnalysis) bool {
	return a.Prop.StatType == models.StatReceivingYards || a.Prop.StatType == models.StatReceptions
}

// rankByRiskAdjusted reorders tickets by confidence net of a risk
// discount, highest first. The sort is stable so equal-value tickets
// keep construction order and output stays deterministic.
func rankByRiskAdjusted(tickets []*models.ParlayCandidate) {
	sort.SliceStable(tickets, func(i, j int) bool {
		return riskAdjusted(tickets[i]) > riskAdjusted(tickets[j])
	})
}

func riskAdjusted(t *models.ParlayCandidate) float64 {
	switch t.RiskLevel {
	case models.RiskMedium:
		return t.CombinedConfidence - mediumRiskDiscount
	case models.RiskHigh:
		return t.CombinedConfidence - highRiskDiscount
	default:
		return t.CombinedConfidence
	}
}
