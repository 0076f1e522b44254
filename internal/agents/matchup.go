package agents

import (
	"context"
	"fmt"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/signal"
)

// matchupLadder grades the opposing defense's rank against the position,
// where rank 32 has allowed the most production.
var matchupLadder = ladder{
	Bands: []band{
		{Floor: 28, Score: 74, Label: "bottom-five defense vs position"},
		{Floor: 22, Score: 64, Label: "soft matchup"},
		{Floor: 12, Score: 50, Label: "neutral matchup"},
		{Floor: 6, Score: 40, Label: "tough matchup"},
	},
	Fallback: band{Score: 30, Label: "elite defense vs position"},
}

// MatchupAgent grades the opposing defense's record against the player's
// position.
type MatchupAgent struct{}

// NewMatchupAgent creates the positional matchup agent
func NewMatchupAgent() *MatchupAgent { return &MatchupAgent{} }

// Name returns the agent identifier
func (a *MatchupAgent) Name() string { return NameMatchup }

// Analyze grades the defense-vs-position profile for the prop's position
func (a *MatchupAgent) Analyze(_ context.Context, prop *models.PropCandidate, week *signal.WeekContext) (*models.AgentVerdict, error) {
	def, ok := week.DefenseFor(prop.Opponent, prop.Position)
	if !ok {
		return nil, noSignal("no defense-vs-%s profile for %s", prop.Position, prop.Opponent)
	}

	b := matchupLadder.grade(float64(def.Rank))
	score := b.Score

	rationale := []string{fmt.Sprintf("%s ranks %d/32 vs %s: %s",
		prop.Opponent, def.Rank, prop.Position, b.Label)}

	// Reception props care about volume surrendered, not just yardage rank
	if prop.StatType == models.StatReceptions && def.CatchesPerGame > 0 {
		if def.CatchesPerGame >= 6.5 {
			score += 4
			rationale = append(rationale, fmt.Sprintf("allows %.1f catches/game to %s", def.CatchesPerGame, prop.Position))
		} else if def.CatchesPerGame <= 3.5 {
			score -= 4
			rationale = append(rationale, fmt.Sprintf("limits %s to %.1f catches/game", prop.Position, def.CatchesPerGame))
		}
	}

	return verdict(a.Name(), score, rationale...), nil
}
