package engine

import "github.com/prometheus/client_golang/prometheus"

var (
	loadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mmserve",
		Subsystem: "engine",
		Name:      "loads_total",
		Help:      "Total number of successful model loads",
	})

	loadFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mmserve",
		Subsystem: "engine",
		Name:      "load_failures_total",
		Help:      "Total number of failed model loads by stage",
	}, []string{"stage"})

	loadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "mmserve",
		Subsystem: "engine",
		Name:      "load_duration_seconds",
		Help:      "Duration of fetch+construct for model loads",
		Buckets:   prometheus.DefBuckets,
	})

	evictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mmserve",
		Subsystem: "engine",
		Name:      "evictions_total",
		Help:      "Total number of model evictions",
	})

	cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mmserve",
		Subsystem: "engine",
		Name:      "cache_hits_total",
		Help:      "Acquires satisfied by an already-resident model",
	})

	cacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mmserve",
		Subsystem: "engine",
		Name:      "cache_misses_total",
		Help:      "Acquires that started a new model load",
	})

	residentBytes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "mmserve",
		Subsystem: "engine",
		Name:      "resident_bytes",
		Help:      "Artifact bytes currently resident",
	})

	residentSlots = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "mmserve",
		Subsystem: "engine",
		Name:      "resident_slots",
		Help:      "Models currently resident",
	})
)

func init() {
	prometheus.MustRegister(loadsTotal, loadFailures, loadDuration,
		evictionsTotal, cacheHits, cacheMisses, residentBytes, residentSlots)
}
