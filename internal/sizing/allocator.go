package sizing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/logger"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/metrics"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
)

// Skip reasons recorded on SizedParlay and the tickets_skipped metric.
const (
	SkipBelowConfidenceFloor = "below_confidence_floor"
	SkipNoEdge               = "no_edge"
	SkipDust                 = "dust"
)

// Config controls stake calculation
type Config struct {
	FractionalKelly  float64 `json:"fractional_kelly"`   // safety multiplier on full Kelly
	MaxStakeFraction float64 `json:"max_stake_fraction"` // per-ticket ceiling as bankroll fraction
	MinConfidence    float64 `json:"min_confidence"`     // combined-confidence floor
	WeeklyAllocation float64 `json:"weekly_allocation"`  // bankroll share split when exposure-adjusted
	MinUnit          float64 `json:"min_unit"`           // smallest stake increment
	ExposureAdjusted bool    `json:"exposure_adjusted"`
}

// DefaultConfig returns the standard sizing parameters: quarter Kelly,
// 5% per-ticket cap, 15% of bankroll per week.
func DefaultConfig() Config {
	return Config{
		FractionalKelly:  0.25,
		MaxStakeFraction: 0.05,
		MinConfidence:    60,
		WeeklyAllocation: 0.15,
		MinUnit:          1.00,
	}
}

// Allocator sizes parlay tickets against a bankroll
type Allocator struct {
	cfg    Config
	audit  *logger.AuditLogger
	logger *logrus.Logger
}

// NewAllocator creates a sizing allocator. Zero-valued config fields
// fall back to defaults.
func NewAllocator(cfg Config, audit *logger.AuditLogger, log *logrus.Logger) *Allocator {
	def := DefaultConfig()
	if cfg.FractionalKelly <= 0 {
		cfg.FractionalKelly = def.FractionalKelly
	}
	if cfg.MaxStakeFraction <= 0 {
		cfg.MaxStakeFraction = def.MaxStakeFraction
	}
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = def.MinConfidence
	}
	if cfg.WeeklyAllocation <= 0 {
		cfg.WeeklyAllocation = def.WeeklyAllocation
	}
	if cfg.MinUnit <= 0 {
		cfg.MinUnit = def.MinUnit
	}
	if audit == nil {
		audit = logger.NewAuditLogger(log)
	}
	return &Allocator{
		cfg:    cfg,
		audit:  audit,
		logger: log,
	}
}

// Size produces one SizedParlay per input ticket, in input order.
// Excluded tickets come back with Skipped set and a zero stake rather
// than being dropped, so callers can report the full picture.
func (a *Allocator) Size(parlays []*models.ParlayCandidate, bankroll float64) ([]*models.SizedParlay, error) {
	if bankroll <= 0 {
		return nil, fmt.Errorf("bankroll must be positive, got %.2f", bankroll)
	}

	now := time.Now().UTC()
	out := make([]*models.SizedParlay, len(parlays))

	// First pass: per-ticket Kelly and exclusions.
	live := make([]int, 0, len(parlays))
	fractions := make([]float64, len(parlays))
	for i, ticket := range parlays {
		if ticket.CombinedConfidence < a.cfg.MinConfidence {
			out[i] = a.skip(ticket, SkipBelowConfidenceFloor, now)
			continue
		}

		f := Kelly(ticket.CombinedConfidence/100.0, ticket.DecimalOdds) * a.cfg.FractionalKelly
		if f <= 0 {
			out[i] = a.skip(ticket, SkipNoEdge, now)
			continue
		}

		fractions[i] = f
		live = append(live, i)
	}

	if a.cfg.ExposureAdjusted {
		a.sizeExposureAdjusted(parlays, out, live, fractions, bankroll, now)
	} else {
		for _, i := range live {
			out[i] = a.stakeTicket(parlays[i], fractions[i], fractions[i]*bankroll, bankroll, now)
		}
	}

	a.logger.WithFields(logrus.Fields{
		"tickets":           len(parlays),
		"sized":             len(live),
		"bankroll":          bankroll,
		"exposure_adjusted": a.cfg.ExposureAdjusted,
	}).Info("Position sizing complete")

	return out, nil
}

// sizeExposureAdjusted splits the weekly allocation budget across live
// tickets. Each ticket's Kelly weight is divided by one plus its count
// of over-exposed player appearances, so concentrated slips shrink at
// equal confidence. Stakes scale by confidence and never exceed the
// per-ticket cap.
func (a *Allocator) sizeExposureAdjusted(parlays []*models.ParlayCandidate, out []*models.SizedParlay, live []int, fractions []float64, bankroll float64, now time.Time) {
	appearances := make(map[string]int)
	for _, i := range live {
		for _, player := range parlays[i].Players() {
			appearances[player]++
		}
	}

	weights := make([]float64, len(parlays))
	total := 0.0
	for _, i := range live {
		over := 0
		for _, player := range parlays[i].Players() {
			if n := appearances[player]; n > 1 {
				over += n - 1
			}
		}
		weights[i] = fractions[i] / float64(1+over)
		total += weights[i]
	}
	if total <= 0 {
		return
	}

	budget := bankroll * a.cfg.WeeklyAllocation
	for _, i := range live {
		ticket := parlays[i]
		raw := weights[i] / total * budget * ticket.CombinedConfidence / 100.0
		out[i] = a.stakeTicket(ticket, fractions[i], raw, bankroll, now)
	}
}

// stakeTicket caps, rounds down to the minimum unit, and drops dust.
func (a *Allocator) stakeTicket(ticket *models.ParlayCandidate, kellyFraction, rawStake, bankroll float64, now time.Time) *models.SizedParlay {
	if ceiling := a.cfg.MaxStakeFraction * bankroll; rawStake > ceiling {
		a.logger.WithFields(logrus.Fields{
			"ticket_id": ticket.ID,
			"raw_stake": rawStake,
			"max_stake": ceiling,
		}).Debug("Stake capped at maximum")
		rawStake = ceiling
	}

	unit := decimal.NewFromFloat(a.cfg.MinUnit)
	stake := decimal.NewFromFloat(rawStake).Div(unit).Floor().Mul(unit)
	if stake.LessThan(unit) {
		return a.skip(ticket, SkipDust, now)
	}

	sized := &models.SizedParlay{
		Parlay:        *ticket,
		KellyFraction: kellyFraction,
		Stake:         stake,
		SizedAt:       now,
	}
	metrics.TicketsSizedTotal.Inc()
	a.audit.LogSizedTicket(ticket.ID.String(), ticket.LegCount(), ticket.CombinedConfidence,
		kellyFraction, stake.StringFixed(2), false, "", now)
	return sized
}

func (a *Allocator) skip(ticket *models.ParlayCandidate, reason string, now time.Time) *models.SizedParlay {
	metrics.TicketsSkippedTotal.WithLabelValues(reason).Inc()
	a.audit.LogSizedTicket(ticket.ID.String(), ticket.LegCount(), ticket.CombinedConfidence,
		0, "0.00", true, reason, now)
	return &models.SizedParlay{
		Parlay:     *ticket,
		Stake:      decimal.Zero,
		Skipped:    true,
		SkipReason: reason,
		SizedAt:    now,
	}
}
