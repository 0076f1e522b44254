package signal

import (
	"fmt"
	"strings"
)

// nameSuffixes are generational suffixes dropped during normalization
var nameSuffixes = map[string]bool{
	"jr": true, "sr": true, "ii": true, "iii": true, "iv": true, "v": true,
}

// NormalizePlayer reduces a display name to the lookup key used across every
// signal category: lowercase, punctuation stripped, suffixes dropped.
// "T.J. Watt Jr." and "tj watt" normalize to the same key.
func NormalizePlayer(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteRune(' ')
		}
	}
	fields := strings.Fields(b.String())
	if n := len(fields); n > 1 && nameSuffixes[fields[n-1]] {
		fields = fields[:n-1]
	}
	return strings.Join(fields, " ")
}

// GameKey builds the canonical key for one game, away team at home team
func GameKey(season, week int, awayTeam, homeTeam string) string {
	return fmt.Sprintf("%d-w%02d-%s@%s",
		season, week, strings.ToUpper(awayTeam), strings.ToUpper(homeTeam))
}
