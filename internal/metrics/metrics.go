// Package metrics exposes Prometheus collectors for quote computation.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Quote sources.
const (
	SourceQuote    = "quote"
	SourceEstimate = "estimate"
)

// Quote outcomes.
const (
	StatusOK                    = "ok"
	StatusInvalidArgument       = "invalid_argument"
	StatusInsufficientLiquidity = "insufficient_liquidity"
	StatusPoolRead              = "pool_read"
	StatusComputation           = "computation"
	StatusCanceled              = "canceled"
)

// QuoteMetrics holds the collectors updated by the estimation service.
type QuoteMetrics struct {
	QuotesTotal         *prometheus.CounterVec
	QuoteDuration       *prometheus.HistogramVec
	SolverIterations    *prometheus.HistogramVec
	PoolReadErrorsTotal prometheus.Counter
}

var (
	quoteMetricsOnce sync.Once
	quoteMetrics     *QuoteMetrics
)

// NewQuoteMetrics creates and registers quote metrics (singleton pattern).
func NewQuoteMetrics() *QuoteMetrics {
	quoteMetricsOnce.Do(func() {
		quoteMetrics = &QuoteMetrics{
			QuotesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "stableswap",
					Subsystem: "estimator",
					Name:      "quotes_total",
					Help:      "Total number of quotes computed, by source and outcome",
				},
				[]string{"source", "status"},
			),
			QuoteDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: "stableswap",
					Subsystem: "estimator",
					Name:      "quote_duration_seconds",
					Help:      "Time spent producing a quote, including pool reads",
					Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 10),
				},
				[]string{"source"},
			),
			SolverIterations: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: "stableswap",
					Subsystem: "estimator",
					Name:      "solver_iterations",
					Help:      "Newton steps taken per solve",
					Buckets:   []float64{1, 2, 3, 4, 6, 8, 16, 32, 64, 255},
				},
				[]string{"solver"},
			),
			PoolReadErrorsTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "stableswap",
					Subsystem: "estimator",
					Name:      "pool_read_errors_total",
					Help:      "Total number of failed on-chain pool reads",
				},
			),
		}
	})
	return quoteMetrics
}

// ObserveIterations records the step counts of one D solve and one Y solve.
func (m *QuoteMetrics) ObserveIterations(invariant, reserve int) {
	m.SolverIterations.WithLabelValues("invariant").Observe(float64(invariant))
	m.SolverIterations.WithLabelValues("reserve").Observe(float64(reserve))
}
