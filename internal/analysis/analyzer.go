// Package analysis combines independent agent verdicts into graded prop
// analyses. The composite is a weighted mean over the agents that opined;
// agents without signal stay out of both numerator and denominator.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/agents"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/metrics"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/signal"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/weights"
)

// neutralConfidence is the composite when no agent opines
const neutralConfidence = 50.0

// Config holds analyzer tuning
type Config struct {
	Workers  int           // batch fan-out width
	CacheTTL time.Duration // analysis cache entry lifetime, 0 disables
}

// DefaultConfig returns recommended analyzer settings
func DefaultConfig() Config {
	return Config{
		Workers:  8,
		CacheTTL: 30 * time.Minute,
	}
}

// Analyzer runs the agent registry over prop candidates
type Analyzer struct {
	registry []agents.Agent
	weights  weights.Source
	cache    *AnalysisCache
	cfg      Config
	logger   *logrus.Logger
}

// NewAnalyzer creates an analyzer over the given agent registry
func NewAnalyzer(registry []agents.Agent, source weights.Source, cfg Config, logger *logrus.Logger) *Analyzer {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	var cache *AnalysisCache
	if cfg.CacheTTL > 0 {
		cache = NewAnalysisCache(cfg.CacheTTL)
	}
	return &Analyzer{
		registry: registry,
		weights:  source,
		cache:    cache,
		cfg:      cfg,
		logger:   logger,
	}
}

// AnalyzeProp scores one candidate against a weight snapshot. The returned
// analysis is complete even when every agent abstains: confidence sits at
// the neutral midline and the recommendation is AVOID.
func (a *Analyzer) AnalyzeProp(ctx context.Context, prop *models.PropCandidate, week *signal.WeekContext, table *models.WeightTable) (*models.PropAnalysis, error) {
	if err := prop.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate prop %s %s: %w", prop.Player, prop.StatType, err)
	}

	if a.cache != nil {
		key := CacheKey{PropID: prop.ID, Season: prop.Season, Week: prop.Week, WeightsVersion: table.Version}
		if cached := a.cache.Get(key); cached != nil {
			return cached, nil
		}
	}

	start := time.Now()
	breakdown := make([]models.AgentContribution, 0, len(a.registry))
	var weightedSum, weightTotal float64

	for _, agent := range a.registry {
		v, err := a.runAgent(ctx, agent, prop, week)
		if err != nil {
			if errors.Is(err, models.ErrMissingSignal) {
				metrics.AgentAbstentionsTotal.WithLabelValues(agent.Name()).Inc()
				a.logger.WithFields(logrus.Fields{
					"agent":  agent.Name(),
					"player": prop.Player,
					"stat":   prop.StatType,
				}).Debug("Agent abstained")
				continue
			}
			metrics.AgentFailuresTotal.WithLabelValues(agent.Name()).Inc()
			a.logger.WithError(err).WithFields(logrus.Fields{
				"agent":  agent.Name(),
				"player": prop.Player,
				"stat":   prop.StatType,
			}).Warn("Agent failed, excluding from composite")
			continue
		}

		w := table.Get(agent.Name())
		score := clamp(v.Score, 0, 100)
		breakdown = append(breakdown, models.AgentContribution{
			Agent:     agent.Name(),
			Score:     score,
			Weight:    w,
			Direction: v.Direction,
			Rationale: v.Rationale,
		})
		weightedSum += score * w
		weightTotal += w
		metrics.AgentOpinionsTotal.WithLabelValues(agent.Name()).Inc()
	}

	confidence := neutralConfidence
	if weightTotal > 0 {
		confidence = clamp(weightedSum/weightTotal, 0, 100)
	}

	recommendation, direction := Recommend(confidence)
	if len(breakdown) == 0 {
		recommendation, direction = models.RecommendationAvoid, models.DirectionAvoid
	}
	drivers, summary := topDrivers(breakdown)

	analysis := &models.PropAnalysis{
		ID:             uuid.New(),
		Prop:           *prop,
		Breakdown:      breakdown,
		Confidence:     confidence,
		Direction:      direction,
		Recommendation: recommendation,
		TopDrivers:     drivers,
		EdgeSummary:    summary,
		WeightsVersion: table.Version,
		AnalyzedAt:     time.Now().UTC(),
	}

	if a.cache != nil {
		key := CacheKey{PropID: prop.ID, Season: prop.Season, Week: prop.Week, WeightsVersion: table.Version}
		a.cache.Set(key, analysis)
	}

	metrics.PropsAnalyzedTotal.Inc()
	metrics.PropAnalysisDuration.Observe(time.Since(start).Seconds())

	return analysis, nil
}

// runAgent isolates one agent call: a panic inside an agent becomes an error
// for that agent only, never a batch failure.
func (a *Analyzer) runAgent(ctx context.Context, agent agents.Agent, prop *models.PropCandidate, week *signal.WeekContext) (v *models.AgentVerdict, err error) {
	defer func() {
		if r := recover(); r != nil {
			v = nil
			err = fmt.Errorf("agent %s panicked: %v", agent.Name(), r)
		}
	}()
	v, err = agent.Analyze(ctx, prop, week)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("agent %s returned no verdict: %w", agent.Name(), models.ErrMissingSignal)
	}
	return v, nil
}

// CacheStats exposes analysis cache counters, zeros when caching is off
func (a *Analyzer) CacheStats() (hits, misses uint64) {
	if a.cache == nil {
		return 0, 0
	}
	return a.cache.Stats()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
