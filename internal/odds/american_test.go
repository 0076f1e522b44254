package odds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		american int
		want     float64
	}{
		{"standard juice", -110, 1.9091},
		{"even money", 100, 2.0},
		{"plus money", 150, 2.5},
		{"heavy favorite", -250, 1.4},
		{"longshot", 400, 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AmericanToDecimal(tt.american)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestAmericanToDecimalRejectsInvalid(t *testing.T) {
	for _, american := range []int{0, 50, -99, 1} {
		_, err := AmericanToDecimal(american)
		assert.Error(t, err, "american %d should be rejected", american)
	}
}

func TestDecimalToAmericanRoundTrip(t *testing.T) {
	for _, american := range []int{-110, -150, 100, 150, 275, -340} {
		decimal, err := AmericanToDecimal(american)
		require.NoError(t, err)

		back, err := DecimalToAmerican(decimal)
		require.NoError(t, err)
		assert.Equal(t, american, back)
	}
}

func TestImpliedProbability(t *testing.T) {
	p, err := AmericanToImpliedProbability(-110)
	require.NoError(t, err)
	assert.InDelta(t, 0.5238, p, 0.0001)

	p, err = AmericanToImpliedProbability(100)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 0.0001)
}

func TestNetFraction(t *testing.T) {
	b, err := NetFraction(1.9091)
	require.NoError(t, err)
	assert.InDelta(t, 0.9091, b, 0.0001)

	_, err = NetFraction(1.0)
	assert.Error(t, err)
}

func TestParlayDecimal(t *testing.T) {
	combined, err := ParlayDecimal([]float64{1.9091, 1.9091})
	require.NoError(t, err)
	assert.InDelta(t, 3.6446, combined, 0.001)

	_, err = ParlayDecimal(nil)
	assert.Error(t, err)

	_, err = ParlayDecimal([]float64{1.91, 0.5})
	assert.Error(t, err)
}
