package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records calculation and comparison activity.
type EngineMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "engine_operation_duration_seconds",
		Help:    "Duration of engine operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_operation_success",
		Help: "Successful engine operations.",
	}, []string{"operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_operation_failure",
		Help: "Failed engine operations.",
	}, []string{"operation"})
	reg.MustRegister(duration, success, failure)
	return &EngineMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named operation.
func (e *EngineMetrics) ObserveDuration(operation string, duration time.Duration) {
	if e == nil || e.duration == nil {
		return
	}
	e.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named operation.
func (e *EngineMetrics) IncSuccess(operation string) {
	if e == nil || e.success == nil {
		return
	}
	e.success.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncFailure increments the failure counter for the named operation.
func (e *EngineMetrics) IncFailure(operation string) {
	if e == nil || e.failure == nil {
		return
	}
	e.failure.WithLabelValues(normalizeLabel(operation)).Inc()
}

func normalizeLabel(operation string) string {
	if operation == "" {
		return "unknown"
	}
	return operation
}
