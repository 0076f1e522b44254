// Package agents implements the nine scoring agents. Each agent reads one
// slice of the weekly context bundle and either emits an independent verdict
// on a prop or abstains with models.ErrMissingSignal when its slice is
// absent. Agents never fall back to a neutral score to paper over missing
// data.
package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/signal"
)

// Agent scores a single prop candidate against the weekly context
type Agent interface {
	// Name returns the agent's stable identifier, used for weights,
	// calibration samples and audit rows
	Name() string

	// Analyze scores the prop. A wrapped models.ErrMissingSignal means the
	// agent has no opinion; any other error is an agent failure.
	Analyze(ctx context.Context, prop *models.PropCandidate, week *signal.WeekContext) (*models.AgentVerdict, error)
}

// Stable agent identifiers
const (
	NameEfficiency  = "efficiency"
	NameMatchup     = "matchup"
	NameUsage       = "usage"
	NameInjury      = "injury"
	NameTrend       = "trend"
	NameGameScript  = "gamescript"
	NameReliability = "reliability"
	NameLineHistory = "linehistory"
	NameWeather     = "weather"
)

// DefaultReportTTL bounds how long parsed injury reports stay cached
const DefaultReportTTL = 15 * time.Minute

// BuildRegistry constructs the full agent set in canonical order. The
// aggregator iterates this slice; composite results do not depend on the
// ordering, but keeping it fixed makes logs and breakdowns reproducible.
func BuildRegistry(reportTTL time.Duration) []Agent {
	if reportTTL <= 0 {
		reportTTL = DefaultReportTTL
	}
	return []Agent{
		NewEfficiencyAgent(),
		NewMatchupAgent(),
		NewUsageAgent(),
		NewInjuryAgent(reportTTL),
		NewTrendAgent(),
		NewGameScriptAgent(),
		NewReliabilityAgent(),
		NewLineHistoryAgent(),
		NewWeatherAgent(),
	}
}

// Names returns the canonical agent identifiers in registry order
func Names() []string {
	return []string{
		NameEfficiency, NameMatchup, NameUsage, NameInjury, NameTrend,
		NameGameScript, NameReliability, NameLineHistory, NameWeather,
	}
}

// noSignal wraps models.ErrMissingSignal with the concrete gap
func noSignal(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), models.ErrMissingSignal)
}
