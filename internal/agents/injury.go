package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/signal"
)

// Injury designations as published on the weekly report
const (
	injuryStatusOut          = "OUT"
	injuryStatusDoubtful     = "DOUBTFUL"
	injuryStatusQuestionable = "QUESTIONABLE"
	injuryStatusHealthy      = "HEALTHY"
)

// practiceTrend summarizes a parsed week of practice sessions
type practiceTrend struct {
	Sessions  int
	FullFinal bool // final session was a full practice
	AllOut    bool // never practiced
	Improving bool // participation increased through the week
}

// InjuryAgent grades the player's injury designation, refined by the textual
// practice log. Parsed logs are kept in a private read-through cache keyed by
// normalized player name so repeated props for one player parse once.
type InjuryAgent struct {
	reports *gocache.Cache
}

// NewInjuryAgent creates the injury status agent
func NewInjuryAgent(reportTTL time.Duration) *InjuryAgent {
	return &InjuryAgent{
		reports: gocache.New(reportTTL, 2*reportTTL),
	}
}

// Name returns the agent identifier
func (a *InjuryAgent) Name() string { return NameInjury }

// Analyze grades the designation plus practice participation
func (a *InjuryAgent) Analyze(_ context.Context, prop *models.PropCandidate, week *signal.WeekContext) (*models.AgentVerdict, error) {
	report, ok := week.InjuryFor(prop.PlayerKey)
	if !ok {
		return nil, noSignal("no injury report for %s", prop.Player)
	}

	status := strings.ToUpper(strings.TrimSpace(report.Status))
	switch status {
	case injuryStatusOut:
		return verdict(a.Name(), 5,
			fmt.Sprintf("%s ruled out (%s)", prop.Player, report.Detail)), nil
	case injuryStatusDoubtful:
		return verdict(a.Name(), 18,
			fmt.Sprintf("%s doubtful (%s)", prop.Player, report.Detail)), nil
	case injuryStatusQuestionable:
		score := 40.0
		rationale := []string{fmt.Sprintf("%s questionable (%s)", prop.Player, report.Detail)}
		trend, parsed := a.practiceTrendFor(prop, report)
		if parsed {
			switch {
			case trend.AllOut:
				score -= 10
				rationale = append(rationale, "did not practice all week")
			case trend.FullFinal && trend.Improving:
				score += 10
				rationale = append(rationale, "practice participation trending up, full on final session")
			case trend.Improving:
				score += 5
				rationale = append(rationale, "practice participation trending up")
			}
		}
		return verdict(a.Name(), score, rationale...), nil
	case injuryStatusHealthy, "":
		return verdict(a.Name(), 55,
			fmt.Sprintf("%s carries no injury designation", prop.Player)), nil
	default:
		return nil, fmt.Errorf("unknown injury status %q for %s: %w",
			report.Status, prop.Player, models.ErrMalformedContext)
	}
}

// practiceTrendFor parses the report's practice log through the cache
func (a *InjuryAgent) practiceTrendFor(prop *models.PropCandidate, report signal.InjuryReport) (practiceTrend, bool) {
	if report.PracticeLog == "" {
		return practiceTrend{}, false
	}
	key := fmt.Sprintf("%s|%d|%d", prop.PlayerKey, prop.Season, prop.Week)
	if cached, found := a.reports.Get(key); found {
		return cached.(practiceTrend), true
	}
	trend := parsePracticeLog(report.PracticeLog)
	a.reports.Set(key, trend, gocache.DefaultExpiration)
	return trend, true
}

// parsePracticeLog reads a comma-separated week of sessions (DNP, LP, FP)
func parsePracticeLog(log string) practiceTrend {
	levels := map[string]int{"DNP": 0, "LP": 1, "FP": 2}

	var seq []int
	for _, raw := range strings.Split(log, ",") {
		lvl, ok := levels[strings.ToUpper(strings.TrimSpace(raw))]
		if !ok {
			continue
		}
		seq = append(seq, lvl)
	}
	if len(seq) == 0 {
		return practiceTrend{}
	}

	trend := practiceTrend{
		Sessions:  len(seq),
		FullFinal: seq[len(seq)-1] == 2,
		AllOut:    true,
		Improving: seq[len(seq)-1] > seq[0],
	}
	for _, lvl := range seq {
		if lvl > 0 {
			trend.AllOut = false
		}
	}
	return trend
}
