package calibration

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/logger"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/metrics"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/repository"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/weights"
)

// TxRunner runs a function inside one database transaction
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// Service runs calibration cycles: it loads the graded samples for a settled
// week, computes per-agent adjustments, persists the adjustment history and
// the new weight table in one transaction, and only then swaps the in-memory
// store. Batches already running keep their snapshot.
type Service struct {
	params     Params
	calibrator *Calibrator
	store      *weights.Store
	db         TxRunner
	repos      *repository.Repositories
	calLogger  *logger.CalibrationLogger
	audit      *logger.AuditLogger
	logger     *logrus.Logger
}

// NewService creates a calibration service
func NewService(
	params Params,
	store *weights.Store,
	db TxRunner,
	repos *repository.Repositories,
	auditLogger *logger.AuditLogger,
	baseLogger *logrus.Logger,
) *Service {
	if baseLogger == nil {
		baseLogger = logrus.New()
	}
	calibrator := NewCalibrator(params)
	return &Service{
		params:     calibrator.params,
		calibrator: calibrator,
		store:      store,
		db:         db,
		repos:      repos,
		calLogger:  logger.NewCalibrationLogger(baseLogger),
		audit:      auditLogger,
		logger:     baseLogger,
	}
}

// LoadCurrent seeds the in-memory store from the persisted weight table. A
// missing table is not an error; the store keeps its seeded defaults.
func (s *Service) LoadCurrent(ctx context.Context) error {
	table, err := s.repos.Weight.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("No persisted weight table, keeping seeded defaults")
			return nil
		}
		return fmt.Errorf("failed to load weight table: %w", err)
	}

	s.store.Replace(table)
	metrics.RecordWeightTable(table.Version, table.Weights)
	s.logger.WithFields(logrus.Fields{
		"version": table.Version,
		"agents":  len(table.Weights),
	}).Info("Loaded persisted weight table")
	return nil
}

// Run executes one calibration cycle for a settled week. Agents below the
// sample floor are reported but untouched. An empty week is a cycle-level
// failure; everything per-agent is isolated.
func (s *Service) Run(ctx context.Context, season, week int) (*models.CalibrationReport, error) {
	start := time.Now()

	samples, err := s.repos.Sample.GetByWeek(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to load calibration samples: %w", err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("no graded samples for season %d week %d: %w", season, week, models.ErrInsufficientSamples)
	}

	s.calLogger.LogCycleStart(season, week, len(samples))

	byAgent := make(map[string][]*models.CalibrationSample)
	for _, sample := range samples {
		byAgent[sample.Agent] = append(byAgent[sample.Agent], sample)
	}

	current := s.store.Snapshot()
	agents := agentUnion(byAgent, current)

	now := time.Now().UTC()
	report := &models.CalibrationReport{
		Season: season,
		Week:   week,
		Agents: make([]models.AgentCalibration, 0, len(agents)),
		RanAt:  now,
	}

	next := current.Clone()
	next.UpdatedAt = now

	var adjustments []*models.WeightAdjustment
	skipped := 0
	for _, agent := range agents {
		agentSamples := byAgent[agent]
		cal := s.calibrator.Calibrate(agent, current.Get(agent), agentSamples)
		report.Agents = append(report.Agents, cal)

		if cal.SampleCount < s.params.MinSamples {
			skipped++
			s.calLogger.LogAgentSkipped(agent, cal.SampleCount, s.params.MinSamples)
			continue
		}

		s.calLogger.LogAgentMeasured(agent, cal.SampleCount, cal.Accuracy, cal.MeanConfidence, cal.Overconfidence)
		metrics.AgentAccuracy.WithLabelValues(agent).Set(cal.Accuracy)

		if !cal.Adjusted {
			continue
		}

		next.Weights[agent] = cal.NewWeight
		reason := fmt.Sprintf("accuracy %.3f, overconfidence %+.3f", cal.Accuracy, cal.Overconfidence)
		if cal.Note != "" {
			reason += ", " + cal.Note
		}
		adjustments = append(adjustments, &models.WeightAdjustment{
			ID:             uuid.New(),
			Agent:          agent,
			OldWeight:      cal.OldWeight,
			NewWeight:      cal.NewWeight,
			Accuracy:       cal.Accuracy,
			Overconfidence: cal.Overconfidence,
			SampleCount:    cal.SampleCount,
			Season:         season,
			Week:           week,
			Reason:         reason,
			CreatedAt:      now,
		})
	}

	// Version only moves when weights do; a cycle with nothing to change
	// leaves the table and its readers alone.
	if len(adjustments) == 0 {
		report.NewVersion = current.Version
		s.logger.WithFields(logrus.Fields{
			"season":  season,
			"week":    week,
			"skipped": skipped,
		}).Info("Calibration cycle made no adjustments")
		metrics.CalibrationCyclesTotal.Inc()
		s.calLogger.LogCycleComplete(current.Version, 0, time.Since(start).Seconds()*1000)
		return report, nil
	}

	next.Version = current.Version + 1
	report.NewVersion = next.Version

	err = s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, adj := range adjustments {
			if err := s.repos.Adjustment.InsertWithTx(ctx, tx, adj); err != nil {
				return fmt.Errorf("failed to record adjustment for %s: %w", adj.Agent, err)
			}
		}
		if err := s.repos.Weight.SaveWithTx(ctx, tx, next); err != nil {
			return fmt.Errorf("failed to save weight table: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to persist calibration cycle")
		return nil, fmt.Errorf("failed to persist calibration cycle: %w", err)
	}

	// Audit records land before the in-memory table swap.
	for _, cal := range report.Agents {
		if !cal.Adjusted {
			continue
		}
		s.calLogger.LogAdjustmentApplied(cal.Agent, cal.OldWeight, cal.NewWeight, cal.Note != "")
		if s.audit != nil {
			s.audit.LogWeightAdjustment(cal.Agent, cal.OldWeight, cal.NewWeight, cal.Accuracy, cal.Overconfidence, cal.SampleCount, season, week, cal.Note)
		}
		metrics.WeightAdjustmentsTotal.WithLabelValues(cal.Agent).Inc()
	}

	s.store.Replace(next)
	metrics.CalibrationCyclesTotal.Inc()
	metrics.RecordWeightTable(next.Version, next.Weights)

	durationMs := time.Since(start).Seconds() * 1000
	s.calLogger.LogCycleComplete(next.Version, len(adjustments), durationMs)
	if s.audit != nil {
		s.audit.LogCalibrationCycle(season, week, len(samples), len(adjustments), skipped, next.Version, durationMs)
	}

	return report, nil
}

// RunLatest calibrates the most recent week with graded samples. Scheduled
// cycles use this so the cron job never needs the NFL calendar.
func (s *Service) RunLatest(ctx context.Context) (*models.CalibrationReport, error) {
	season, week, err := s.repos.Sample.LatestWeek(ctx)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("no graded weeks available: %w", models.ErrInsufficientSamples)
		}
		return nil, fmt.Errorf("failed to find latest graded week: %w", err)
	}
	return s.Run(ctx, season, week)
}

// Status returns the active weight table snapshot
func (s *Service) Status() *models.WeightTable {
	return s.store.Snapshot()
}

// History returns recent weight adjustments, optionally for a single agent
func (s *Service) History(ctx context.Context, agent string, limit int) ([]*models.WeightAdjustment, error) {
	if limit <= 0 {
		limit = 20
	}
	if agent != "" {
		adjustments, err := s.repos.Adjustment.GetByAgent(ctx, agent, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to load adjustment history for %s: %w", agent, err)
		}
		return adjustments, nil
	}
	adjustments, err := s.repos.Adjustment.GetRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load adjustment history: %w", err)
	}
	return adjustments, nil
}

// agentUnion lists every agent with samples this week or a row in the current
// table, sorted for deterministic cycle output.
func agentUnion(byAgent map[string][]*models.CalibrationSample, table *models.WeightTable) []string {
	seen := make(map[string]bool, len(byAgent)+len(table.Weights))
	agents := make([]string, 0, len(byAgent)+len(table.Weights))
	for agent := range byAgent {
		if !seen[agent] {
			seen[agent] = true
			agents = append(agents, agent)
		}
	}
	for agent := range table.Weights {
		if !seen[agent] {
			seen[agent] = true
			agents = append(agents, agent)
		}
	}
	sort.Strings(agents)
	return agents
}
