package agents

import (
	"context"
	"fmt"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/signal"
)

// shareLadder grades a target or carry share
var shareLadder = ladder{
	Bands: []band{
		{Floor: 0.28, Score: 72, Label: "dominant share"},
		{Floor: 0.22, Score: 63, Label: "featured share"},
		{Floor: 0.15, Score: 52, Label: "steady share"},
		{Floor: 0.10, Score: 42, Label: "rotational share"},
	},
	Fallback: band{Score: 32, Label: "marginal share"},
}

// snapLadder grades snap share for players whose volume tracks snaps (QBs)
var snapLadder = ladder{
	Bands: []band{
		{Floor: 0.95, Score: 60, Label: "every-down role"},
		{Floor: 0.85, Score: 52, Label: "near-full role"},
		{Floor: 0.70, Score: 42, Label: "shared role"},
	},
	Fallback: band{Score: 30, Label: "limited role"},
}

// UsageAgent grades the player's share of the team's opportunities for
// the prop's stat family.
type UsageAgent struct{}

// NewUsageAgent creates the usage share agent
func NewUsageAgent() *UsageAgent { return &UsageAgent{} }

// Name returns the agent identifier
func (a *UsageAgent) Name() string { return NameUsage }

// Analyze grades target share, carry share or snap share depending on stat
func (a *UsageAgent) Analyze(_ context.Context, prop *models.PropCandidate, week *signal.WeekContext) (*models.AgentVerdict, error) {
	usage, ok := week.UsageFor(prop.PlayerKey)
	if !ok {
		return nil, noSignal("no usage profile for %s", prop.Player)
	}

	var b band
	var rationale []string
	switch prop.StatType {
	case models.StatReceivingYards, models.StatReceptions:
		b = shareLadder.grade(usage.TargetShare)
		rationale = append(rationale, fmt.Sprintf("%s target share: %s (%s)", prop.Player, pct(usage.TargetShare), b.Label))
	case models.StatRushingYards, models.StatRushingAttempts:
		b = shareLadder.grade(usage.CarryShare)
		rationale = append(rationale, fmt.Sprintf("%s carry share: %s (%s)", prop.Player, pct(usage.CarryShare), b.Label))
	default:
		b = snapLadder.grade(usage.SnapShare)
		rationale = append(rationale, fmt.Sprintf("%s snap share: %s (%s)", prop.Player, pct(usage.SnapShare), b.Label))
	}

	score := b.Score

	// Red-zone share moves scoring props more than yardage props
	if prop.StatType == models.StatPassingTDs && usage.RedZoneShare > 0 {
		if usage.RedZoneShare >= 0.25 {
			score += 6
			rationale = append(rationale, fmt.Sprintf("red-zone share %s", pct(usage.RedZoneShare)))
		} else if usage.RedZoneShare < 0.10 {
			score -= 6
			rationale = append(rationale, fmt.Sprintf("thin red-zone share %s", pct(usage.RedZoneShare)))
		}
	}

	return verdict(a.Name(), score, rationale...), nil
}
