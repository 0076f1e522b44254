// Package sizing converts parlay candidates into bankroll-fraction
// stakes: Kelly sizing per ticket, then either direct staking or an
// exposure-adjusted split of a weekly allocation budget.
package sizing

// Kelly returns the full-Kelly bankroll fraction for a bet at the given
// decimal price with win probability p: f* = (b*p - q) / b where
// b = odds - 1. Negative-edge bets return exactly 0.
func Kelly(p, decimalOdds float64) float64 {
	if p <= 0 || p > 1 || decimalOdds <= 1 {
		return 0
	}
	b := decimalOdds - 1.0
	q := 1.0 - p
	f := (b*p - q) / b
	if f <= 0 {
		return 0
	}
	return f
}
