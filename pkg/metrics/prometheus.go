package metrics

import (
	"SignalPulse/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	signalsTotal   *prometheus.CounterVec
	providerErrors *prometheus.CounterVec
	lastConfidence *prometheus.GaugeVec
	successRate    prometheus.Gauge
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		signalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalpulse_signals_total",
				Help: "Total number of fused signals produced",
			},
			[]string{"mode", "symbol", "direction"},
		),
		providerErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalpulse_provider_errors_total",
				Help: "Total number of upstream provider failures",
			},
			[]string{"provider"},
		),
		lastConfidence: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "signalpulse_last_confidence",
				Help: "Confidence of the most recent signal for a symbol",
			},
			[]string{"symbol"},
		),
		successRate: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "signalpulse_batch_success_rate",
				Help: "Success rate of the most recent batch run, in percent",
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signalpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordSignal records one produced signal.
func (r *Recorder) RecordSignal(mode, symbol string, direction models.Direction) {
	r.signalsTotal.WithLabelValues(mode, symbol, string(direction)).Inc()
}

// RecordProviderError records an upstream provider failure.
func (r *Recorder) RecordProviderError(provider string) {
	r.providerErrors.WithLabelValues(provider).Inc()
}

// RecordConfidence records the confidence of the latest signal for a symbol.
func (r *Recorder) RecordConfidence(symbol string, confidence float64) {
	r.lastConfidence.WithLabelValues(symbol).Set(confidence)
}

// RecordBatch records the success rate of a completed batch run.
func (r *Recorder) RecordBatch(successRate float64) {
	r.successRate.Set(successRate)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
