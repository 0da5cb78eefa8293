package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
	CacheErrors     *prometheus.CounterVec
	SearchDuration  *prometheus.HistogramVec
	WarehouseTicks  *prometheus.CounterVec
	TickDuration    prometheus.Histogram
	ScheduleChanges prometheus.Counter
	ErrorsCount     *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics registered on reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "finder_cache_hits_total",
			Help:      "The total number of trip searches served from the result cache",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "finder_cache_misses_total",
			Help:      "The total number of trip searches that queried the trip store",
		}),
		CacheErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "finder_cache_errors_total",
			Help:      "The total number of swallowed result cache failures",
		}, []string{"operation"}),
		SearchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "trip_search_duration_seconds",
			Help:      "Time taken to answer a trip search",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		WarehouseTicks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warehouse_ticks_total",
			Help:      "The total number of data warehouse recomputations",
		}, []string{"result"}),
		TickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "warehouse_tick_duration_seconds",
			Help:      "Time taken to compute and store one indicator",
			Buckets:   prometheus.DefBuckets,
		}),
		ScheduleChanges: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warehouse_schedule_changes_total",
			Help:      "The total number of accepted rebuild period changes",
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
