package agents

import (
	"context"
	"fmt"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/signal"
)

// Game-total thresholds separating shootout and slog environments
const (
	shootoutTotal = 49.0
	slogTotal     = 41.0
)

// GameScriptAgent grades what the spread and total imply for the prop's
// volume. Heavy favorites lean on the run late; trailing teams throw.
type GameScriptAgent struct{}

// NewGameScriptAgent creates the game-script agent
func NewGameScriptAgent() *GameScriptAgent { return &GameScriptAgent{} }

// Name returns the agent identifier
func (a *GameScriptAgent) Name() string { return NameGameScript }

// Analyze grades spread and total implications for the stat family
func (a *GameScriptAgent) Analyze(_ context.Context, prop *models.PropCandidate, week *signal.WeekContext) (*models.AgentVerdict, error) {
	game, ok := week.GameFor(prop.GameKey)
	if !ok {
		return nil, noSignal("no market environment for game %s", prop.GameKey)
	}

	spread := game.TeamSpread(prop.Team)
	score := 50.0
	var rationale []string

	if prop.StatType.IsPassing() {
		// Trailing scripts add dropbacks; blowout leads remove them
		switch {
		case spread >= 6.5:
			score = 64
			rationale = append(rationale, fmt.Sprintf("%s %.1f-point underdog: likely trailing script adds pass volume", prop.Team, spread))
		case spread >= 3:
			score = 57
			rationale = append(rationale, fmt.Sprintf("%s modest underdog (%.1f): slight pass-volume lean", prop.Team, spread))
		case spread <= -6.5:
			score = 42
			rationale = append(rationale, fmt.Sprintf("%s favored by %.1f: lead script trims pass volume", prop.Team, -spread))
		default:
			rationale = append(rationale, fmt.Sprintf("near-even spread (%.1f): no script lean", spread))
		}
	} else {
		// Rushing volume follows the favorite
		switch {
		case spread <= -6.5:
			score = 66
			rationale = append(rationale, fmt.Sprintf("%s favored by %.1f: positive run script", prop.Team, -spread))
		case spread <= -3:
			score = 58
			rationale = append(rationale, fmt.Sprintf("%s favored by %.1f: mild run script", prop.Team, -spread))
		case spread >= 6.5:
			score = 38
			rationale = append(rationale, fmt.Sprintf("%s %.1f-point underdog: trailing script abandons the run", prop.Team, spread))
		default:
			rationale = append(rationale, fmt.Sprintf("near-even spread (%.1f): no script lean", spread))
		}
	}

	switch {
	case game.Total >= shootoutTotal:
		score += 6
		rationale = append(rationale, fmt.Sprintf("high total (%.1f) projects extra possessions", game.Total))
	case game.Total <= slogTotal && game.Total > 0:
		score -= 6
		rationale = append(rationale, fmt.Sprintf("low total (%.1f) projects a slow game", game.Total))
	}

	return verdict(a.Name(), score, rationale...), nil
}
