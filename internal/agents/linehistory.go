package agents

import (
	"context"
	"fmt"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/signal"
)

// Sample-size handling for the graded line record
const (
	minHistorySamples  = 3
	shrinkBelowSamples = 6 // small samples regress halfway to neutral
)

// historyLadder grades the player's historical hit rate against this line
var historyLadder = ladder{
	Bands: []band{
		{Floor: 0.75, Score: 72, Label: "beats this number consistently"},
		{Floor: 0.60, Score: 62, Label: "beats this number more often than not"},
		{Floor: 0.45, Score: 50, Label: "coin flip at this number"},
		{Floor: 0.30, Score: 40, Label: "struggles at this number"},
	},
	Fallback: band{Score: 28, Label: "rarely reaches this number"},
}

// LineHistoryAgent grades the player's graded record against this exact
// line and stat.
type LineHistoryAgent struct{}

// NewLineHistoryAgent creates the line history agent
func NewLineHistoryAgent() *LineHistoryAgent { return &LineHistoryAgent{} }

// Name returns the agent identifier
func (a *LineHistoryAgent) Name() string { return NameLineHistory }

// Analyze grades historical hit rate with small-sample shrinkage
func (a *LineHistoryAgent) Analyze(_ context.Context, prop *models.PropCandidate, week *signal.WeekContext) (*models.AgentVerdict, error) {
	hist, ok := week.LineHistoryFor(prop.PlayerKey, prop.StatType, prop.Line)
	if !ok {
		return nil, noSignal("no graded history for %s %s at %.1f", prop.Player, prop.StatType, prop.Line)
	}
	if hist.Samples < minHistorySamples {
		return nil, noSignal("only %d graded games for %s at %.1f", hist.Samples, prop.Player, prop.Line)
	}

	rate := hist.HitRate()
	b := historyLadder.grade(rate)
	score := b.Score

	// Thin records shouldn't carry full conviction
	if hist.Samples < shrinkBelowSamples {
		score = 50 + (score-50)/2
	}

	return verdict(a.Name(), score,
		fmt.Sprintf("%d of %d past games over %.1f: %s", hist.Overs, hist.Samples, prop.Line, b.Label),
	), nil
}
