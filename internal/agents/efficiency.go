package agents

import (
	"context"
	"fmt"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/signal"
)

// efficiencyLadder grades the offense-minus-defense rating differential
var efficiencyLadder = ladder{
	Bands: []band{
		{Floor: 10, Score: 78, Label: "dominant edge"},
		{Floor: 5, Score: 68, Label: "clear edge"},
		{Floor: 2, Score: 60, Label: "slight edge"},
		{Floor: -2, Score: 50, Label: "even matchup"},
		{Floor: -5, Score: 42, Label: "slight disadvantage"},
		{Floor: -10, Score: 34, Label: "clear disadvantage"},
	},
	Fallback: band{Score: 25, Label: "severe disadvantage"},
}

// EfficiencyAgent grades the unit-level efficiency differential between the
// player's offense and the opposing defense for the prop's stat family.
type EfficiencyAgent struct{}

// NewEfficiencyAgent creates the efficiency differential agent
func NewEfficiencyAgent() *EfficiencyAgent { return &EfficiencyAgent{} }

// Name returns the agent identifier
func (a *EfficiencyAgent) Name() string { return NameEfficiency }

// Analyze grades own-offense vs opponent-defense composite ratings
func (a *EfficiencyAgent) Analyze(_ context.Context, prop *models.PropCandidate, week *signal.WeekContext) (*models.AgentVerdict, error) {
	own, ok := week.TeamEfficiencyFor(prop.Team)
	if !ok {
		return nil, noSignal("no efficiency rating for %s", prop.Team)
	}
	opp, ok := week.TeamEfficiencyFor(prop.Opponent)
	if !ok {
		return nil, noSignal("no efficiency rating for %s", prop.Opponent)
	}

	var offense, defense float64
	var unit string
	if prop.StatType.IsPassing() {
		offense, defense, unit = own.PassOffense, opp.PassDefense, "pass"
	} else {
		offense, defense, unit = own.RushOffense, opp.RushDefense, "rush"
	}

	diff := offense - defense
	b := efficiencyLadder.grade(diff)

	return verdict(a.Name(), b.Score,
		fmt.Sprintf("%s %s offense (%+.1f) vs %s %s defense (%+.1f): %s (%+.1f)",
			prop.Team, unit, offense, prop.Opponent, unit, defense, b.Label, diff),
	), nil
}
