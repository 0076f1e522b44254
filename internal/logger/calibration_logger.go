package logger

import (
	"github.com/sirupsen/logrus"
)

// CalibrationLogger provides dedicated logging for calibration cycles.
type CalibrationLogger struct {
	*logrus.Entry
}

// NewCalibrationLogger creates a new calibration logger.
func NewCalibrationLogger(baseLogger *logrus.Logger) *CalibrationLogger {
	return &CalibrationLogger{
		Entry: baseLogger.WithField("component", "calibration"),
	}
}

// LogCycleStart logs the beginning of a calibration cycle.
func (cl *CalibrationLogger) LogCycleStart(season, week, sampleCount int) {
	cl.WithFields(logrus.Fields{
		"season":  season,
		"week":    week,
		"samples": sampleCount,
	}).Info("Calibration cycle started")
}

// LogAgentMeasured logs the per-agent accuracy measurement.
func (cl *CalibrationLogger) LogAgentMeasured(agent string, samples int, accuracy, meanConfidence, overconfidence float64) {
	cl.WithFields(logrus.Fields{
		"agent":           agent,
		"samples":         samples,
		"accuracy":        accuracy,
		"mean_confidence": meanConfidence,
		"overconfidence":  overconfidence,
	}).Info("Agent calibration measured")
}

// LogAgentSkipped logs an agent left untouched for lack of samples.
func (cl *CalibrationLogger) LogAgentSkipped(agent string, samples, required int) {
	cl.WithFields(logrus.Fields{
		"agent":    agent,
		"samples":  samples,
		"required": required,
	}).Info("Agent skipped, insufficient samples")
}

// LogAdjustmentApplied logs one applied weight change.
func (cl *CalibrationLogger) LogAdjustmentApplied(agent string, oldWeight, newWeight float64, clamped bool) {
	cl.WithFields(logrus.Fields{
		"agent":      agent,
		"old_weight": oldWeight,
		"new_weight": newWeight,
		"clamped":    clamped,
	}).Info("Weight adjustment applied")
}

// LogCycleComplete logs the cycle summary after the table swap.
func (cl *CalibrationLogger) LogCycleComplete(weightsVersion int64, adjustments int, durationMs float64) {
	cl.WithFields(logrus.Fields{
		"weights_version": weightsVersion,
		"adjustments":     adjustments,
		"duration_ms":     durationMs,
	}).Info("Calibration cycle completed")
}
