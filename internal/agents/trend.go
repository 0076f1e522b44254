package agents

import (
	"context"
	"fmt"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/signal"
)

// minTrendGames is the fewest recent games the agent will read anything into
const minTrendGames = 3

// trendLadder grades the ratio of recent average production to the line
var trendLadder = ladder{
	Bands: []band{
		{Floor: 1.15, Score: 72, Label: "well above the line"},
		{Floor: 1.05, Score: 62, Label: "above the line"},
		{Floor: 0.95, Score: 50, Label: "right at the line"},
		{Floor: 0.85, Score: 40, Label: "below the line"},
	},
	Fallback: band{Score: 30, Label: "well below the line"},
}

// TrendAgent grades recent production against the posted line, with a small
// momentum adjustment when the short-term average diverges from the longer
// window.
type TrendAgent struct{}

// NewTrendAgent creates the recent-form agent
func NewTrendAgent() *TrendAgent { return &TrendAgent{} }

// Name returns the agent identifier
func (a *TrendAgent) Name() string { return NameTrend }

// Analyze grades last-three average vs the line plus momentum
func (a *TrendAgent) Analyze(_ context.Context, prop *models.PropCandidate, week *signal.WeekContext) (*models.AgentVerdict, error) {
	trend, ok := week.TrendFor(prop.PlayerKey)
	if !ok {
		return nil, noSignal("no recent game log for %s", prop.Player)
	}
	games := trend.Recent[prop.StatType]
	if len(games) < minTrendGames {
		return nil, noSignal("only %d recent %s games for %s", len(games), prop.StatType, prop.Player)
	}

	avg3 := mean(games[:minTrendGames])
	ratio := avg3 / prop.Line
	b := trendLadder.grade(ratio)
	score := b.Score

	rationale := []string{fmt.Sprintf("last %d games avg %.1f vs line %.1f: %s",
		minTrendGames, avg3, prop.Line, b.Label)}

	// Momentum: compare the short window against the full window on hand
	if len(games) > minTrendGames {
		avgAll := mean(games)
		switch {
		case avgAll > 0 && avg3 >= avgAll*1.08:
			score += 5
			rationale = append(rationale, fmt.Sprintf("trending up (%.1f season pace)", avgAll))
		case avgAll > 0 && avg3 <= avgAll*0.92:
			score -= 5
			rationale = append(rationale, fmt.Sprintf("trending down (%.1f season pace)", avgAll))
		}
	}

	return verdict(a.Name(), score, rationale...), nil
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
