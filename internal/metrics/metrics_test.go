package metrics

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestInitRegistryIsIdempotent(t *testing.T) {
	first := InitRegistry()
	second := InitRegistry()

	assert.Same(t, first, second)
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()

	handler := Handler()
	assert.NotNil(t, handler)
	assert.Implements(t, (*http.Handler)(nil), handler)
}

func TestRecordWeightTable(t *testing.T) {
	InitRegistry()

	RecordWeightTable(7, map[string]float64{
		"efficiency": 1.15,
		"matchup":    0.85,
	})

	assert.Equal(t, 7.0, testutil.ToFloat64(WeightsVersion))
	assert.Equal(t, 1.15, testutil.ToFloat64(AgentWeight.WithLabelValues("efficiency")))
	assert.Equal(t, 0.85, testutil.ToFloat64(AgentWeight.WithLabelValues("matchup")))
}

func TestCounterVecsAcceptLabels(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name   string
		record func()
	}{
		{
			name:   "skipped prop with reason",
			record: func() { PropsSkippedTotal.WithLabelValues("malformed_context").Inc() },
		},
		{
			name:   "agent opinion",
			record: func() { AgentOpinionsTotal.WithLabelValues("efficiency").Inc() },
		},
		{
			name:   "agent failure",
			record: func() { AgentFailuresTotal.WithLabelValues("weather").Inc() },
		},
		{
			name:   "rejected parlay with constraint",
			record: func() { ParlaysRejectedTotal.WithLabelValues("correlation_ceiling").Inc() },
		},
		{
			name:   "skipped ticket with reason",
			record: func() { TicketsSkippedTotal.WithLabelValues("below_confidence_floor").Inc() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, tt.record)
		})
	}
}

func TestBatchObservations(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		PropsAnalyzedTotal.Inc()
		LastBatchSize.Set(48)
		BatchDuration.Observe(2.3)
		PropAnalysisDuration.Observe(0.04)
	})
}

func BenchmarkRecordWeightTable(b *testing.B) {
	InitRegistry()

	weights := map[string]float64{
		"efficiency": 1.15,
		"matchup":    0.85,
		"usage":      1.0,
	}
	for i := 0; i < b.N; i++ {
		RecordWeightTable(int64(i), weights)
	}
}

func BenchmarkAgentOpinionInc(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		AgentOpinionsTotal.WithLabelValues("efficiency").Inc()
	}
}
