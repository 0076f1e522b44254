// Package report renders weekly analysis runs for the terminal and for
// file export.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/analysis"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
)

// WeeklyRun bundles everything one analyze run produced
type WeeklyRun struct {
	Season   int                       `json:"season"`
	Week     int                       `json:"week"`
	Bankroll float64                   `json:"bankroll"`
	Batch    *analysis.BatchResult     `json:"batch"`
	Parlays  []*models.ParlayCandidate `json:"parlays"`
	Sized    []*models.SizedParlay     `json:"sized"`
	RanAt    time.Time                 `json:"ran_at"`
}

// TotalStake sums the stakes across placed tickets
func (r *WeeklyRun) TotalStake() decimal.Decimal {
	total := decimal.Zero
	for _, s := range r.Sized {
		if s.Skipped {
			continue
		}
		total = total.Add(s.Stake)
	}
	return total
}

// PlacedCount returns how many tickets received a stake
func (r *WeeklyRun) PlacedCount() int {
	placed := 0
	for _, s := range r.Sized {
		if !s.Skipped {
			placed++
		}
	}
	return placed
}

// GenerateConsoleReport formats a weekly run for terminal output
func GenerateConsoleReport(run *WeeklyRun) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Prop Analysis Report: season %d week %d\n", run.Season, run.Week))
	builder.WriteString("==========================================\n")
	builder.WriteString(fmt.Sprintf("Weights Version: %d\n", run.Batch.WeightsVersion))
	builder.WriteString(fmt.Sprintf("Props Analyzed: %d (%d skipped)\n", len(run.Batch.Analyses), len(run.Batch.Skipped)))
	builder.WriteString(fmt.Sprintf("Duration: %s\n", run.Batch.Duration.Round(time.Millisecond)))

	writePropSection(&builder, run.Batch.Analyses)
	writeParlaySection(&builder, run.Parlays)
	writeStakeSection(&builder, run)

	return builder.String()
}

func writePropSection(builder *strings.Builder, analyses []*models.PropAnalysis) {
	playable := make([]*models.PropAnalysis, 0, len(analyses))
	avoided := 0
	for _, a := range analyses {
		if a.Recommendation.IsPlayable() {
			playable = append(playable, a)
		} else {
			avoided++
		}
	}
	sort.SliceStable(playable, func(i, j int) bool {
		return playable[i].PlayableConfidence() > playable[j].PlayableConfidence()
	})

	builder.WriteString(fmt.Sprintf("\nPlayable Props (%d of %d)\n", len(playable), len(analyses)))
	builder.WriteString("--------------------------\n")
	for i, a := range playable {
		builder.WriteString(fmt.Sprintf("%2d. %-22s %-18s %6.1f %-5s %5.1f  %-14s %s\n",
			i+1, a.Prop.Player, a.Prop.StatType, a.Prop.Line,
			a.Direction, a.PlayableConfidence(), a.Recommendation,
			strings.Join(a.TopDrivers, ",")))
	}
	if avoided > 0 {
		builder.WriteString(fmt.Sprintf("Avoided: %d\n", avoided))
	}
}

func writeParlaySection(builder *strings.Builder, parlays []*models.ParlayCandidate) {
	builder.WriteString(fmt.Sprintf("\nParlay Tickets (%d)\n", len(parlays)))
	builder.WriteString("--------------------------\n")
	for i, p := range parlays {
		builder.WriteString(fmt.Sprintf("#%d  %d legs  confidence %.1f  penalty %.1f  risk %s  odds %.2f\n",
			i+1, p.LegCount(), p.CombinedConfidence, p.CorrelationPenalty, p.RiskLevel, p.DecimalOdds))
		for _, leg := range p.Legs {
			builder.WriteString(fmt.Sprintf("    %-22s %-18s %6.1f %-5s %5.1f\n",
				leg.Prop.Player, leg.Prop.StatType, leg.Prop.Line,
				leg.Direction, leg.PlayableConfidence()))
		}
	}
}

func writeStakeSection(builder *strings.Builder, run *WeeklyRun) {
	builder.WriteString(fmt.Sprintf("\nStakes (%d placed of %d)\n", run.PlacedCount(), len(run.Sized)))
	builder.WriteString("--------------------------\n")
	for i, s := range run.Sized {
		if s.Skipped {
			builder.WriteString(fmt.Sprintf("#%d  skipped: %s\n", i+1, s.SkipReason))
			continue
		}
		builder.WriteString(fmt.Sprintf("#%d  $%s  kelly %.4f\n", i+1, s.Stake.StringFixed(2), s.KellyFraction))
	}
	builder.WriteString(fmt.Sprintf("Total Staked: $%s of $%.2f bankroll\n",
		run.TotalStake().StringFixed(2), run.Bankroll))
}

// ExportToJSON writes the full run result to a JSON file
func ExportToJSON(run *WeeklyRun, outputPath string) error {
	if outputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}
	return os.WriteFile(outputPath, data, 0o644)
}

// GenerateCSVExport exports sized tickets for spreadsheets
func GenerateCSVExport(run *WeeklyRun, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	var builder strings.Builder
	builder.WriteString("ticket,legs,confidence,penalty,risk,decimal_odds,kelly,stake,skipped,reason\n")
	for i, s := range run.Sized {
		builder.WriteString(fmt.Sprintf("%d,%d,%.2f,%.2f,%s,%.4f,%.4f,%s,%t,%s\n",
			i+1, s.Parlay.LegCount(), s.Parlay.CombinedConfidence, s.Parlay.CorrelationPenalty,
			s.Parlay.RiskLevel, s.Parlay.DecimalOdds, s.KellyFraction,
			s.Stake.StringFixed(2), s.Skipped, s.SkipReason))
	}
	return os.WriteFile(outputPath, []byte(builder.String()), 0o644)
}
