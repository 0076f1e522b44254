package agents

import (
	"context"
	"fmt"
	"math"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/signal"
)

// minReliabilityGames is the smallest sample the dispersion read needs
const minReliabilityGames = 4

// volatileCV marks a game log too noisy to lean on in either direction
const volatileCV = 0.60

// ReliabilityAgent grades how consistently the player's production clears
// the line. Consistent clearance scores high, consistent shortfall low, and
// a noisy log dampens toward neutral regardless of the average.
type ReliabilityAgent struct{}

// NewReliabilityAgent creates the statistical reliability agent
func NewReliabilityAgent() *ReliabilityAgent { return &ReliabilityAgent{} }

// Name returns the agent identifier
func (a *ReliabilityAgent) Name() string { return NameReliability }

// Analyze grades over-rate and dispersion of the recent game log
func (a *ReliabilityAgent) Analyze(_ context.Context, prop *models.PropCandidate, week *signal.WeekContext) (*models.AgentVerdict, error) {
	trend, ok := week.TrendFor(prop.PlayerKey)
	if !ok {
		return nil, noSignal("no recent game log for %s", prop.Player)
	}
	games := trend.Recent[prop.StatType]
	if len(games) < minReliabilityGames {
		return nil, noSignal("only %d recent %s games for %s", len(games), prop.StatType, prop.Player)
	}

	overs := 0
	for _, v := range games {
		if v > prop.Line {
			overs++
		}
	}
	overRate := float64(overs) / float64(len(games))
	cv := coefficientOfVariation(games)

	if cv > volatileCV {
		return verdict(a.Name(), 46,
			fmt.Sprintf("%s %s too volatile to trust (cv %.2f over %d games)",
				prop.Player, prop.StatType, cv, len(games)),
		), nil
	}

	var score float64
	switch {
	case overRate >= 0.80:
		score = 70
	case overRate >= 0.60:
		score = 60
	case overRate >= 0.45:
		score = 50
	case overRate >= 0.25:
		score = 40
	default:
		score = 30
	}

	return verdict(a.Name(), score,
		fmt.Sprintf("cleared %.1f in %d of %d recent games (cv %.2f)",
			prop.Line, overs, len(games), cv),
	), nil
}

// coefficientOfVariation is stddev/mean, guarded for flat or zero logs
func coefficientOfVariation(vals []float64) float64 {
	m := mean(vals)
	if m == 0 {
		return 0
	}
	var ss float64
	for _, v := range vals {
		d := v - m
		ss += d * d
	}
	sd := math.Sqrt(ss / float64(len(vals)))
	return math.Abs(sd / m)
}
