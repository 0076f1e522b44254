package sizing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/logger"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func newTestAllocator(cfg Config) *Allocator {
	log := testLogger()
	return NewAllocator(cfg, logger.NewAuditLogger(log), log)
}

// ticket builds a parlay candidate with the given players as one leg
// each, so exposure counting is easy to stage.
func ticket(confidence, decimalOdds float64, players ...string) *models.ParlayCandidate {
	legs := make([]models.PropAnalysis, len(players))
	for i, player := range players {
		legs[i] = models.PropAnalysis{
			ID: uuid.New(),
			Prop: models.PropCandidate{
				ID:        uuid.New(),
				Player:    player,
				PlayerKey: player,
				StatType:  models.StatReceivingYards,
			},
		}
	}
	return &models.ParlayCandidate{
		ID:                 uuid.New(),
		Legs:               legs,
		CombinedConfidence: confidence,
		RiskLevel:          models.RiskLow,
		DecimalOdds:        decimalOdds,
	}
}

func TestKelly(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		odds float64
		want float64
	}{
		{"worked example", 0.78, 1.9090909, 0.5380},
		{"even money coin flip", 0.5, 2.0, 0.0},
		{"negative edge", 0.5, 1.9090909, 0.0},
		{"plus money edge", 0.5, 2.5, 0.1667},
		{"certainty", 1.0, 2.0, 1.0},
		{"zero probability", 0.0, 2.0, 0.0},
		{"degenerate odds", 0.9, 1.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Kelly(tt.p, tt.odds), 0.0005)
		})
	}
}

func TestKellyNeverNegative(t *testing.T) {
	for p := 0.0; p <= 1.0; p += 0.05 {
		for odds := 1.1; odds <= 10.0; odds += 0.3 {
			assert.GreaterOrEqual(t, Kelly(p, odds), 0.0, "p=%.2f odds=%.2f", p, odds)
		}
	}
}

func TestSizePlainMode(t *testing.T) {
	// Quarter Kelly on the worked example: f* = 0.538, scaled 0.1345,
	// stake capped at 5% of the 1000 bankroll.
	alloc := newTestAllocator(DefaultConfig())

	sized, err := alloc.Size([]*models.ParlayCandidate{ticket(78, 1.9090909, "aaron adams", "ben brown")}, 1000)
	require.NoError(t, err)
	require.Len(t, sized, 1)

	s := sized[0]
	assert.False(t, s.Skipped)
	assert.InDelta(t, 0.1345, s.KellyFraction, 0.0005)
	assert.True(t, s.Stake.Equal(decimal.NewFromInt(50)), "stake %s", s.Stake)
}

func TestSizeUncappedStake(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxStakeFraction = 0.50

	alloc := newTestAllocator(cfg)
	sized, err := alloc.Size([]*models.ParlayCandidate{ticket(78, 1.9090909, "aaron adams", "ben brown")}, 1000)
	require.NoError(t, err)

	// 0.1345 of 1000, rounded down to the unit.
	assert.True(t, sized[0].Stake.Equal(decimal.NewFromInt(134)), "stake %s", sized[0].Stake)
}

func TestSizeExcludesBelowConfidenceFloor(t *testing.T) {
	alloc := newTestAllocator(DefaultConfig())

	sized, err := alloc.Size([]*models.ParlayCandidate{ticket(55, 3.0, "aaron adams", "ben brown")}, 1000)
	require.NoError(t, err)
	require.Len(t, sized, 1)

	s := sized[0]
	assert.True(t, s.Skipped)
	assert.Equal(t, SkipBelowConfidenceFloor, s.SkipReason)
	assert.True(t, s.Stake.IsZero())
	assert.Equal(t, 0.0, s.KellyFraction)
}

func TestSizeSkipsNegativeEdge(t *testing.T) {
	// Confidence clears the floor but the price is too short: p=0.60
	// at 1.5 has negative Kelly.
	alloc := newTestAllocator(DefaultConfig())

	sized, err := alloc.Size([]*models.ParlayCandidate{ticket(60, 1.5, "aaron adams", "ben brown")}, 1000)
	require.NoError(t, err)

	s := sized[0]
	assert.True(t, s.Skipped)
	assert.Equal(t, SkipNoEdge, s.SkipReason)
	assert.True(t, s.Stake.IsZero())
}

func TestSizeDropsDust(t *testing.T) {
	// f* at confidence 61 and -110 is about 0.181; quarter of that on
	// a 20 bankroll is under one unit.
	alloc := newTestAllocator(DefaultConfig())

	sized, err := alloc.Size([]*models.ParlayCandidate{ticket(61, 1.9090909, "aaron adams", "ben brown")}, 20)
	require.NoError(t, err)

	s := sized[0]
	assert.True(t, s.Skipped)
	assert.Equal(t, SkipDust, s.SkipReason)
	assert.True(t, s.Stake.IsZero())
}

func TestSizeExposureAdjusted(t *testing.T) {
	// Two tickets share a player, the third is clean. Equal confidence
	// and price, so only the exposure divisor separates them: shares
	// come out 0.25 / 0.25 / 0.50 of the weekly budget times the
	// confidence multiplier.
	cfg := DefaultConfig()
	cfg.ExposureAdjusted = true
	cfg.MaxStakeFraction = 0.10
	alloc := newTestAllocator(cfg)

	parlays := []*models.ParlayCandidate{
		ticket(70, 3.0, "aaron adams", "ben brown"),
		ticket(70, 3.0, "aaron adams", "cam cole"),
		ticket(70, 3.0, "dan drake", "ed evans"),
	}

	sized, err := alloc.Size(parlays, 10000)
	require.NoError(t, err)
	require.Len(t, sized, 3)

	for _, s := range sized {
		require.False(t, s.Skipped)
	}
	// Budget 1500, confidence multiplier 0.7: 262.5, 262.5, 525 before
	// rounding down.
	assert.True(t, sized[0].Stake.Equal(decimal.NewFromInt(262)), "stake %s", sized[0].Stake)
	assert.True(t, sized[1].Stake.Equal(decimal.NewFromInt(262)), "stake %s", sized[1].Stake)
	assert.True(t, sized[2].Stake.Equal(decimal.NewFromInt(525)), "stake %s", sized[2].Stake)
}

func TestSizeExposureAdjustedRespectsCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExposureAdjusted = true
	alloc := newTestAllocator(cfg)

	parlays := []*models.ParlayCandidate{
		ticket(70, 3.0, "aaron adams", "ben brown"),
		ticket(70, 3.0, "aaron adams", "cam cole"),
		ticket(70, 3.0, "dan drake", "ed evans"),
	}

	sized, err := alloc.Size(parlays, 10000)
	require.NoError(t, err)

	// The clean ticket would take 525 but the 5% cap holds it at 500.
	assert.True(t, sized[2].Stake.Equal(decimal.NewFromInt(500)), "stake %s", sized[2].Stake)
}

func TestSizePreservesInputOrder(t *testing.T) {
	alloc := newTestAllocator(DefaultConfig())

	parlays := []*models.ParlayCandidate{
		ticket(40, 3.0, "aaron adams", "ben brown"),
		ticket(70, 3.0, "cam cole", "dan drake"),
	}

	sized, err := alloc.Size(parlays, 1000)
	require.NoError(t, err)
	require.Len(t, sized, 2)
	assert.True(t, sized[0].Skipped)
	assert.False(t, sized[1].Skipped)
	assert.Equal(t, parlays[0].ID, sized[0].Parlay.ID)
	assert.Equal(t, parlays[1].ID, sized[1].Parlay.ID)
}

func TestSizeRejectsNonPositiveBankroll(t *testing.T) {
	alloc := newTestAllocator(DefaultConfig())

	_, err := alloc.Size(nil, 0)
	assert.Error(t, err)

	_, err = alloc.Size(nil, -100)
	assert.Error(t, err)
}
