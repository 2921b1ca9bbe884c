package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the underwriting engine.
type Metrics struct {
	// Decision outcomes by bank and decision
	DecisionOutcome *prometheus.CounterVec

	// Risk level distribution by bank
	RiskLevel *prometheus.CounterVec

	// Policy lookups that fell back to the static table
	RetrievalFallbacks prometheus.Counter

	// Overall evaluation latency
	EvaluateLatency prometheus.Histogram
}

// New creates a Metrics instance with all underwriting metrics registered on
// the default registry.
func New() *Metrics {
	return &Metrics{
		DecisionOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "creditdesk_decisions_total",
			Help: "Total credit decisions by bank and outcome",
		}, []string{"bank", "decision"}),

		RiskLevel: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "creditdesk_risk_levels_total",
			Help: "Risk level distribution of scored applications by bank",
		}, []string{"bank", "level"}),

		RetrievalFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "creditdesk_policy_retrieval_fallbacks_total",
			Help: "Policy lookups that degraded to static table data",
		}),

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "creditdesk_evaluate_duration_seconds",
			Help:    "Duration of full application evaluation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// IncrementDecision records a final decision outcome.
func (m *Metrics) IncrementDecision(bank, decision string) {
	if m != nil {
		m.DecisionOutcome.WithLabelValues(bank, decision).Inc()
	}
}

// IncrementRiskLevel records a scored risk level.
func (m *Metrics) IncrementRiskLevel(bank, level string) {
	if m != nil {
		m.RiskLevel.WithLabelValues(bank, level).Inc()
	}
}

// IncrementRetrievalFallback records a policy lookup served from static data
// after retrieval failed or timed out.
func (m *Metrics) IncrementRetrievalFallback() {
	if m != nil {
		m.RetrievalFallbacks.Inc()
	}
}

// ObserveEvaluateLatency records the total evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}
