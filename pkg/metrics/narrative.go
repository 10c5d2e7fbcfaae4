package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NarrativeMetrics tracks narrative cache behavior and model calls.
type NarrativeMetrics struct {
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	genDuration prometheus.Histogram
	genFailures prometheus.Counter
}

// NewNarrativeMetrics registers the narrative metrics on the provided registerer.
func NewNarrativeMetrics(reg prometheus.Registerer) *NarrativeMetrics {
	if reg == nil {
		return &NarrativeMetrics{}
	}
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "narrative_cache_hits",
		Help: "Narrative responses served from cache.",
	})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "narrative_cache_misses",
		Help: "Narrative requests that required model generation.",
	})
	genDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "narrative_generation_duration_seconds",
		Help:    "Duration of narrative model calls in seconds.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
	})
	genFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "narrative_generation_failures",
		Help: "Narrative model calls that failed or returned unusable output.",
	})
	reg.MustRegister(cacheHits, cacheMisses, genDuration, genFailures)
	return &NarrativeMetrics{
		cacheHits:   cacheHits,
		cacheMisses: cacheMisses,
		genDuration: genDuration,
		genFailures: genFailures,
	}
}

// IncCacheHit counts a narrative served from cache.
func (n *NarrativeMetrics) IncCacheHit() {
	if n == nil || n.cacheHits == nil {
		return
	}
	n.cacheHits.Inc()
}

// IncCacheMiss counts a narrative that had to be generated.
func (n *NarrativeMetrics) IncCacheMiss() {
	if n == nil || n.cacheMisses == nil {
		return
	}
	n.cacheMisses.Inc()
}

// ObserveGeneration records the duration of a model call.
func (n *NarrativeMetrics) ObserveGeneration(duration time.Duration) {
	if n == nil || n.genDuration == nil {
		return
	}
	n.genDuration.Observe(duration.Seconds())
}

// IncGenerationFailure counts a failed model call.
func (n *NarrativeMetrics) IncGenerationFailure() {
	if n == nil || n.genFailures == nil {
		return
	}
	n.genFailures.Inc()
}
