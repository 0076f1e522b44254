package logger

import (
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// AuditConfig controls the rotating audit file
type AuditConfig struct {
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// AuditLogger provides dedicated audit trail logging for money-touching
// events: sized tickets and weight changes. Entries are JSON lines so
// the trail can be replayed or diffed after the fact.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger attaches the audit component to an existing logger.
// Used in tests and anywhere a separate file is not wanted.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// NewRotatingAuditLogger writes the audit trail to its own size-rotated
// file, independent of the process log.
func NewRotatingAuditLogger(cfg AuditConfig) *AuditLogger {
	base := logrus.New()
	base.SetLevel(logrus.InfoLevel)
	base.SetFormatter(&logrus.JSONFormatter{})
	base.SetOutput(&lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	})
	return &AuditLogger{
		Entry: base.WithField("component", "audit"),
	}
}

// LogSizedTicket records the stake decision for one parlay.
func (al *AuditLogger) LogSizedTicket(ticketID string, legs int, combinedConfidence, kellyFraction float64, stake string, skipped bool, skipReason string, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"ticket_id":           ticketID,
		"legs":                legs,
		"combined_confidence": combinedConfidence,
		"kelly_fraction":      kellyFraction,
		"stake":               stake,
		"skipped":             skipped,
		"skip_reason":         skipReason,
		"timestamp":           timestamp.Unix(),
	}).Info("Ticket sizing recorded")
}

// LogWeightAdjustment records one agent weight change from calibration.
func (al *AuditLogger) LogWeightAdjustment(agent string, oldWeight, newWeight, accuracy, overconfidence float64, samples, season, week int, reason string) {
	al.WithFields(logrus.Fields{
		"agent":          agent,
		"old_weight":     oldWeight,
		"new_weight":     newWeight,
		"accuracy":       accuracy,
		"overconfidence": overconfidence,
		"samples":        samples,
		"season":         season,
		"week":           week,
		"reason":         reason,
	}).Info("Weight adjustment recorded")
}

// LogCalibrationCycle records the summary of one completed cycle.
func (al *AuditLogger) LogCalibrationCycle(season, week, samples, adjusted, skipped int, weightsVersion int64, durationMs float64) {
	al.WithFields(logrus.Fields{
		"season":          season,
		"week":            week,
		"samples":         samples,
		"agents_adjusted": adjusted,
		"agents_skipped":  skipped,
		"weights_version": weightsVersion,
		"duration_ms":     durationMs,
	}).Info("Calibration cycle recorded")
}
