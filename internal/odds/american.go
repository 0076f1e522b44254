// Package odds converts between American prices, decimal prices, and
// implied probabilities. Prop markets quote American odds (a -110 line
// pays 100 on a 110 stake), while parlay math and Kelly staking both
// want the decimal form.
package odds

import (
	"fmt"
	"math"
)

// AmericanToDecimal converts an American price to decimal odds.
// +150 becomes 2.50, -110 becomes 1.909...
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("invalid american odds: cannot be 0")
	}
	if american > -100 && american < 100 {
		return 0, fmt.Errorf("invalid american odds %d: magnitude must be at least 100", american)
	}

	if american > 0 {
		return float64(american)/100.0 + 1.0, nil
	}
	return 100.0/float64(-american) + 1.0, nil
}

// DecimalToAmerican converts decimal odds back to the nearest American
// price. 2.50 becomes +150, 1.909 becomes -110.
func DecimalToAmerican(decimal float64) (int, error) {
	if decimal <= 1.0 {
		return 0, fmt.Errorf("invalid decimal odds %.4f: must be greater than 1.0", decimal)
	}

	if decimal >= 2.0 {
		return int(math.Round((decimal - 1.0) * 100.0)), nil
	}
	return int(math.Round(-100.0 / (decimal - 1.0))), nil
}

// ImpliedProbability returns the break-even win probability baked into
// a decimal price, vig included. 2.00 implies 0.50.
func ImpliedProbability(decimal float64) (float64, error) {
	if decimal <= 1.0 {
		return 0, fmt.Errorf("invalid decimal odds %.4f: must be greater than 1.0", decimal)
	}
	return 1.0 / decimal, nil
}

// AmericanToImpliedProbability converts an American price straight to
// its implied probability.
func AmericanToImpliedProbability(american int) (float64, error) {
	decimal, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}
	return ImpliedProbability(decimal)
}

// NetFraction returns the net fractional payout b used by the Kelly
// criterion: profit per unit staked at the given decimal price.
func NetFraction(decimal float64) (float64, error) {
	if decimal <= 1.0 {
		return 0, fmt.Errorf("invalid decimal odds %.4f: must be greater than 1.0", decimal)
	}
	return decimal - 1.0, nil
}

// ParlayDecimal multiplies per-leg decimal prices into the combined
// parlay price. An empty slice is an error: a parlay needs legs.
func ParlayDecimal(legs []float64) (float64, error) {
	if len(legs) == 0 {
		return 0, fmt.Errorf("cannot price a parlay with no legs")
	}

	combined := 1.0
	for i, d := range legs {
		if d <= 1.0 {
			return 0, fmt.Errorf("invalid decimal odds %.4f at leg %d: must be greater than 1.0", d, i)
		}
		combined *= d
	}
	return combined, nil
}
