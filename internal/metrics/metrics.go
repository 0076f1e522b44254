// Package metrics provides the centralized Prometheus metrics registry for
// the prop analysis engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PropsAnalyzedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "props",
		Name:      "analyzed_total",
		Help:      "Total number of prop candidates analyzed",
	})
	PropsSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "props",
		Name:      "skipped_total",
		Help:      "Total number of prop candidates skipped, by reason",
	}, []string{"reason"})
	AgentOpinionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "props",
		Name:      "agent_opinions_total",
		Help:      "Total number of agent verdicts emitted",
	}, []string{"agent"})
	AgentAbstentionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "props",
		Name:      "agent_abstentions_total",
		Help:      "Total number of agent no-opinion results",
	}, []string{"agent"})
	AgentFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "props",
		Name:      "agent_failures_total",
		Help:      "Total number of agent errors and recovered panics",
	}, []string{"agent"})
	AnalysisCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "props",
		Name:      "analysis_cache_hits_total",
		Help:      "Total analysis cache hits",
	})
	AnalysisCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "props",
		Name:      "analysis_cache_misses_total",
		Help:      "Total analysis cache misses",
	})
	ParlaysBuiltTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "props",
		Name:      "parlays_built_total",
		Help:      "Total parlay candidates emitted by the constructor",
	})
	ParlaysRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "props",
		Name:      "parlays_rejected_total",
		Help:      "Total parlay combinations rejected, by constraint",
	}, []string{"constraint"})
	TicketsSizedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "props",
		Name:      "tickets_sized_total",
		Help:      "Total parlays given a non-zero stake",
	})
	TicketsSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "props",
		Name:      "tickets_skipped_total",
		Help:      "Total parlays excluded from sizing, by reason",
	}, []string{"reason"})
	CalibrationCyclesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "props",
		Name:      "calibration_cycles_total",
		Help:      "Total calibration cycles completed",
	})
	WeightAdjustmentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "props",
		Name:      "weight_adjustments_total",
		Help:      "Total calibration weight adjustments applied",
	}, []string{"agent"})
)

// Gauge metrics
var (
	AgentWeight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "props",
		Name:      "agent_weight",
		Help:      "Current weight per agent",
	}, []string{"agent"})
	WeightsVersion = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "props",
		Name:      "weights_version",
		Help:      "Version of the active weight table",
	})
	AgentAccuracy = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "props",
		Name:      "agent_accuracy",
		Help:      "Directional accuracy per agent from the last calibration cycle",
	}, []string{"agent"})
	LastBatchSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "props",
		Name:      "last_batch_size",
		Help:      "Prop count of the most recent analysis batch",
	})
)

// Histogram metrics
var (
	BatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "props",
		Name:      "batch_duration_seconds",
		Help:      "Duration of full analysis batches in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
	PropAnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "props",
		Name:      "prop_analysis_duration_seconds",
		Help:      "Duration of single-prop analysis in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(PropsAnalyzedTotal)
		registry.MustRegister(PropsSkippedTotal)
		registry.MustRegister(AgentOpinionsTotal)
		registry.MustRegister(AgentAbstentionsTotal)
		registry.MustRegister(AgentFailuresTotal)
		registry.MustRegister(AnalysisCacheHits)
		registry.MustRegister(AnalysisCacheMisses)
		registry.MustRegister(ParlaysBuiltTotal)
		registry.MustRegister(ParlaysRejectedTotal)
		registry.MustRegister(TicketsSizedTotal)
		registry.MustRegister(TicketsSkippedTotal)
		registry.MustRegister(CalibrationCyclesTotal)
		registry.MustRegister(WeightAdjustmentsTotal)

		// Register gauge metrics
		registry.MustRegister(AgentWeight)
		registry.MustRegister(WeightsVersion)
		registry.MustRegister(AgentAccuracy)
		registry.MustRegister(LastBatchSize)

		// Register histogram metrics
		registry.MustRegister(BatchDuration)
		registry.MustRegister(PropAnalysisDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordWeightTable publishes the active table to the weight gauges.
func RecordWeightTable(version int64, weights map[string]float64) {
	WeightsVersion.Set(float64(version))
	for agent, w := range weights {
		AgentWeight.WithLabelValues(agent).Set(w)
	}
}
