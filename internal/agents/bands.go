package agents

import (
	"fmt"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
)

// band is one rung of a scoring ladder: any measure at or above Floor (and
// below the previous rung's floor) maps to Score. Ladders are declared
// highest floor first with a catch-all last rung.
type band struct {
	Floor float64
	Score float64
	Label string
}

// ladder is an ordered set of bands plus a catch-all score
type ladder struct {
	Bands    []band
	Fallback band
}

// grade walks the ladder and returns the first band the measure clears
func (l ladder) grade(measure float64) band {
	for _, b := range l.Bands {
		if measure >= b.Floor {
			return b
		}
	}
	return l.Fallback
}

// clampScore bounds a score to the 0-100 scale
func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// directionFor maps a score to the lean it expresses. The 45-55 dead zone
// carries no lean and reads as AVOID.
func directionFor(score float64) models.Direction {
	switch {
	case score >= 55:
		return models.DirectionOver
	case score <= 45:
		return models.DirectionUnder
	default:
		return models.DirectionAvoid
	}
}

// verdict assembles a clamped, direction-tagged verdict
func verdict(agent string, score float64, rationale ...string) *models.AgentVerdict {
	score = clampScore(score)
	return &models.AgentVerdict{
		Agent:     agent,
		Score:     score,
		Direction: directionFor(score),
		Rationale: rationale,
	}
}

// pct renders a 0-1 share as a whole percentage for rationale strings
func pct(share float64) string {
	return fmt.Sprintf("%.0f%%", share*100)
}
