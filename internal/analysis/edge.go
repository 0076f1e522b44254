package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
)

// maxDrivers caps how many agents the edge explanation names
const maxDrivers = 3

// topDrivers ranks contributions by their pull away from neutral,
// |weight*(score-50)|, and returns the leading agent names plus a
// human-readable summary. Contributions with zero pull never qualify.
func topDrivers(breakdown []models.AgentContribution) ([]string, string) {
	ranked := make([]models.AgentContribution, 0, len(breakdown))
	for _, c := range breakdown {
		if c.Leverage() > 0 {
			ranked = append(ranked, c)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		li, lj := ranked[i].Leverage(), ranked[j].Leverage()
		if li != lj {
			return li > lj
		}
		return ranked[i].Agent < ranked[j].Agent
	})
	if len(ranked) > maxDrivers {
		ranked = ranked[:maxDrivers]
	}

	names := make([]string, 0, len(ranked))
	parts := make([]string, 0, len(ranked))
	for _, c := range ranked {
		names = append(names, c.Agent)
		parts = append(parts, fmt.Sprintf("%s (%+.1f)", c.Agent, c.Weight*(c.Score-50)))
	}
	if len(parts) == 0 {
		return names, "no agent moved off neutral"
	}
	return names, "driven by " + strings.Join(parts, ", ")
}
