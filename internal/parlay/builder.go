// Package parlay assembles multi-leg tickets from analyzed props.
// Construction is greedy constrained subset selection: the candidate
// pool is sorted once, then each ticket is grown leg by leg under an
// explicit feasibility predicate covering leg uniqueness, per-player
// exposure, and correlation risk. Identical input always produces
// identical output.
package parlay

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/correlation"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/metrics"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/odds"
)

// Config controls ticket construction
type Config struct {
	MinLegs           int              `json:"min_legs"`            // smallest ticket built
	MaxLegs           int              `json:"max_legs"`            // largest ticket built
	MaxPerSize        int              `json:"max_per_size"`        // tickets kept per leg count
	MinLegConfidence  float64          `json:"min_leg_confidence"`  // playable-confidence pool floor
	MaxPlayerExposure int              `json:"max_player_exposure"` // leg appearances per player per run
	MaxRisk           models.RiskLevel `json:"max_risk"`            // highest correlation risk admitted
	Enhanced          bool             `json:"enhanced"`            // semantic-conflict veto and re-rank
}

// DefaultConfig returns the standard construction parameters
func DefaultConfig() Config {
	return Config{
		MinLegs:           2,
		MaxLegs:           5,
		MaxPerSize:        3,
		MinLegConfidence:  60,
		MaxPlayerExposure: 2,
		MaxRisk:           models.RiskMedium,
	}
}

// Builder constructs parlay candidates from a pool of prop analyses
type Builder struct {
	cfg    Config
	corr   *correlation.Analyzer
	logger *logrus.Logger
}

// NewBuilder creates a parlay builder. Zero-valued config fields fall
// back to defaults so a partially specified Config stays usable.
func NewBuilder(cfg Config, corr *correlation.Analyzer, logger *logrus.Logger) *Builder {
	def := DefaultConfig()
	if cfg.MinLegs <= 0 {
		cfg.MinLegs = def.MinLegs
	}
	if cfg.MaxLegs < cfg.MinLegs {
		cfg.MaxLegs = def.MaxLegs
	}
	if cfg.MaxPerSize <= 0 {
		cfg.MaxPerSize = def.MaxPerSize
	}
	if cfg.MinLegConfidence <= 0 {
		cfg.MinLegConfidence = def.MinLegConfidence
	}
	if cfg.MaxPlayerExposure <= 0 {
		cfg.MaxPlayerExposure = def.MaxPlayerExposure
	}
	if cfg.MaxRisk == "" {
		cfg.MaxRisk = def.MaxRisk
	}
	return &Builder{
		cfg:    cfg,
		corr:   corr,
		logger: logger,
	}
}

// Build produces up to MaxPerSize tickets for every leg count from
// MinLegs through MaxLegs. Sizes that cannot be filled under the
// constraints are simply absent from the result; Build only errors,
// with a wrapped models.ErrNoViableParlay, when nothing at all could
// be constructed.
func (b *Builder) Build(analyses []*models.PropAnalysis) ([]*models.ParlayCandidate, error) {
	pool := b.pool(analyses)
	if len(pool) < b.cfg.MinLegs {
		return nil, fmt.Errorf("pool of %d playable props cannot fill %d legs: %w",
			len(pool), b.cfg.MinLegs, models.ErrNoViableParlay)
	}

	exposure := make(map[string]int, len(pool))
	var out []*models.ParlayCandidate
	builtBySize := make(map[int]int, b.cfg.MaxLegs-b.cfg.MinLegs+1)

	for size := b.cfg.MinLegs; size <= b.cfg.MaxLegs; size++ {
		for seed := 0; seed < len(pool) && builtBySize[size] < b.cfg.MaxPerSize; seed++ {
			legs, ok := b.assemble(pool, seed, size, exposure)
			if !ok {
				continue
			}

			penalty, risk := b.corr.ScoreParlay(legs)
			candidate := b.emit(legs, penalty, risk)

			if b.cfg.Enhanced && candidate.CombinedConfidence < avoidCeiling {
				metrics.ParlaysRejectedTotal.WithLabelValues("avoid_grade").Inc()
				b.logger.WithFields(logrus.Fields{
					"legs":       size,
					"confidence": candidate.CombinedConfidence,
				}).Debug("Discarded AVOID-graded combination")
				continue
			}

			for _, leg := range legs {
				exposure[leg.Prop.PlayerKey]++
			}
			out = append(out, candidate)
			builtBySize[size]++
			metrics.ParlaysBuiltTotal.Inc()

			b.logger.WithFields(logrus.Fields{
				"legs":       size,
				"confidence": candidate.CombinedConfidence,
				"penalty":    candidate.CorrelationPenalty,
				"risk":       candidate.RiskLevel,
				"odds":       candidate.DecimalOdds,
			}).Debug("Built parlay candidate")
		}
	}

	if b.cfg.Enhanced {
		rankByRiskAdjusted(out)
	}

	b.logger.WithFields(logrus.Fields{
		"pool":     len(pool),
		"tickets":  len(out),
		"by_size":  builtBySize,
		"enhanced": b.cfg.Enhanced,
	}).Info("Parlay construction complete")

	if len(out) == 0 {
		return nil, fmt.Errorf("no combination from pool of %d satisfied constraints: %w",
			len(pool), models.ErrNoViableParlay)
	}
	return out, nil
}

// pool filters to playable, sufficiently confident, priceable analyses,
// sorts them, and drops duplicate (player, stat) entries keeping the
// strongest. The resulting order fixes construction for the whole run.
func (b *Builder) pool(analyses []*models.PropAnalysis) []*models.PropAnalysis {
	eligible := make([]*models.PropAnalysis, 0, len(analyses))
	for _, a := range analyses {
		if a == nil || !a.Recommendation.IsPlayable() {
			continue
		}
		if a.PlayableConfidence() < b.cfg.MinLegConfidence {
			continue
		}
		if _, err := odds.AmericanToDecimal(a.Prop.OddsOrDefault()); err != nil {
			b.logger.WithError(err).WithField("player", a.Prop.Player).
				Warn("Dropping unpriceable prop from parlay pool")
			continue
		}
		eligible = append(eligible, a)
	}

	sort.Slice(eligible, func(i, j int) bool {
		ci, cj := eligible[i].PlayableConfidence(), eligible[j].PlayableConfidence()
		if ci != cj {
			return ci > cj
		}
		if eligible[i].Prop.PlayerKey != eligible[j].Prop.PlayerKey {
			return eligible[i].Prop.PlayerKey < eligible[j].Prop.PlayerKey
		}
		return eligible[i].Prop.StatType < eligible[j].Prop.StatType
	})

	seen := make(map[string]struct{}, len(eligible))
	deduped := eligible[:0]
	for _, a := range eligible {
		key := a.Prop.LegKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, a)
	}
	return deduped
}

// assemble grows a ticket from the seed leg by scanning the pool in
// order, admitting each next leg only if the feasibility predicate
// holds for the partial ticket plus that leg.
func (b *Builder) assemble(pool []*models.PropAnalysis, seed, size int, exposure map[string]int) ([]*models.PropAnalysis, bool) {
	legs := make([]*models.PropAnalysis, 0, size)
	if !b.feasible(legs, pool[seed], exposure) {
		return nil, false
	}
	legs = append(legs, pool[seed])

	for i := seed + 1; i < len(pool) && len(legs) < size; i++ {
		if !b.feasible(legs, pool[i], exposure) {
			continue
		}
		legs = append(legs, pool[i])
	}

	if len(legs) != size {
		return nil, false
	}
	return legs, true
}

func (b *Builder) emit(legs []*models.PropAnalysis, penalty float64, risk models.RiskLevel) *models.ParlayCandidate {
	legVals := make([]models.PropAnalysis, len(legs))
	prices := make([]float64, len(legs))
	confidenceSum := 0.0
	for i, leg := range legs {
		legVals[i] = *leg
		confidenceSum += leg.PlayableConfidence()
		// Pool construction already proved the price converts.
		prices[i], _ = odds.AmericanToDecimal(leg.Prop.OddsOrDefault())
	}

	combined := confidenceSum/float64(len(legs)) + penalty
	if combined < 0 {
		combined = 0
	}
	if combined > 100 {
		combined = 100
	}
	decimalOdds, _ := odds.ParlayDecimal(prices)

	return &models.ParlayCandidate{
		ID:                 uuid.New(),
		Legs:               legVals,
		CombinedConfidence: combined,
		CorrelationPenalty: penalty,
		RiskLevel:          risk,
		DecimalOdds:        decimalOdds,
		CreatedAt:          time.Now().UTC(),
	}
}
