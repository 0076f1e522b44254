package analysis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/metrics"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/signal"
)

// SkippedProp records a candidate the batch could not score
type SkippedProp struct {
	Prop   *models.PropCandidate `json:"prop"`
	Reason string                `json:"reason"`
}

// BatchResult is the outcome of one analysis batch. Analyses keep the input
// order of their candidates; skipped props are reported separately.
type BatchResult struct {
	Analyses       []*models.PropAnalysis `json:"analyses"`
	Skipped        []SkippedProp          `json:"skipped,omitempty"`
	WeightsVersion int64                  `json:"weights_version"`
	Duration       time.Duration          `json:"duration"`
}

// AnalyzeBatch scores a slate of candidates concurrently. One weight
// snapshot is taken up front and shared by every prop, so a calibration
// swap mid-batch never splits the slate across table versions.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, props []*models.PropCandidate, week *signal.WeekContext) *BatchResult {
	start := time.Now()
	table := a.weights.Snapshot()

	if len(props) == 0 {
		a.logger.Warn("Analysis batch called with no prop candidates")
		return &BatchResult{WeightsVersion: table.Version, Duration: time.Since(start)}
	}

	type slot struct {
		analysis *models.PropAnalysis
		err      error
	}
	slots := make([]slot, len(props))
	jobs := make(chan int)

	var wg sync.WaitGroup
	workerCount := a.cfg.Workers
	if workerCount > len(props) {
		workerCount = len(props)
	}
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					slots[i] = slot{err: ctx.Err()}
					continue
				}
				analysis, err := a.AnalyzeProp(ctx, props[i], week, table)
				slots[i] = slot{analysis: analysis, err: err}
			}
		}()
	}

	for i := range props {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	result := &BatchResult{
		Analyses:       make([]*models.PropAnalysis, 0, len(props)),
		WeightsVersion: table.Version,
	}
	for i, s := range slots {
		if s.err != nil {
			reason := "error"
			if errors.Is(s.err, models.ErrMalformedContext) {
				reason = "malformed_context"
			} else if errors.Is(s.err, context.Canceled) || errors.Is(s.err, context.DeadlineExceeded) {
				reason = "cancelled"
			}
			metrics.PropsSkippedTotal.WithLabelValues(reason).Inc()
			a.logger.WithError(s.err).WithFields(logrus.Fields{
				"player": props[i].Player,
				"stat":   props[i].StatType,
			}).Warn("Skipped prop candidate")
			result.Skipped = append(result.Skipped, SkippedProp{Prop: props[i], Reason: s.err.Error()})
			continue
		}
		result.Analyses = append(result.Analyses, s.analysis)
	}

	result.Duration = time.Since(start)
	metrics.LastBatchSize.Set(float64(len(props)))
	metrics.BatchDuration.Observe(result.Duration.Seconds())

	a.logger.WithFields(logrus.Fields{
		"props":           len(props),
		"analyzed":        len(result.Analyses),
		"skipped":         len(result.Skipped),
		"weights_version": table.Version,
		"duration":        result.Duration,
	}).Info("Analysis batch complete")

	return result
}
