package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "simulator_"

	resultSuccess = "success"
	resultError   = "error"
	resultEmpty   = "empty"

	cacheHit  = "hit"
	cacheMiss = "miss"
)

var (
	registerOnce sync.Once

	simulationTotal   *prometheus.CounterVec
	simulationLatency *prometheus.HistogramVec
	simulationResults *prometheus.HistogramVec

	catalogReadTotal   *prometheus.CounterVec
	catalogReadLatency *prometheus.HistogramVec
	catalogCacheTotal  *prometheus.CounterVec

	exportTotal   *prometheus.CounterVec
	exportLatency *prometheus.HistogramVec

	leadsTotal *prometheus.CounterVec
)

// Init registers simulator metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		simulationTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "runs_total",
				Help: "Total simulation runs by type and result",
			},
			[]string{"type", "result"},
		)
		simulationLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "run_latency_seconds",
				Help:    "Simulation run latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"type", "result"},
		)
		simulationResults = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "run_candidates",
				Help:    "Providers quoted per simulation run before truncation",
				Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
			},
			[]string{"type"},
		)

		catalogReadTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "catalog_reads_total",
				Help: "Total catalog reads by source and result",
			},
			[]string{"source", "result"},
		)
		catalogReadLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "catalog_read_latency_seconds",
				Help:    "Catalog read latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source", "result"},
		)
		catalogCacheTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "catalog_cache_total",
				Help: "Catalog cache lookups by outcome",
			},
			[]string{"outcome"},
		)

		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total comparison exports by format and result",
			},
			[]string{"format", "result"},
		)
		exportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "export_latency_seconds",
				Help:    "Comparison export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		leadsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "leads_total",
				Help: "Total contact requests by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			simulationTotal,
			simulationLatency,
			simulationResults,
			catalogReadTotal,
			catalogReadLatency,
			catalogCacheTotal,
			exportTotal,
			exportLatency,
			leadsTotal,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveSimulation records a run's latency and result.
func ObserveSimulation(simulationType, result string, duration time.Duration) {
	if simulationType == "" {
		simulationType = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if simulationTotal != nil {
		simulationTotal.WithLabelValues(simulationType, result).Inc()
	}
	if simulationLatency != nil {
		simulationLatency.WithLabelValues(simulationType, result).Observe(duration.Seconds())
	}
}

// ObserveCandidates records how many providers a run could quote.
func ObserveCandidates(simulationType string, count int) {
	if simulationType == "" {
		simulationType = "unknown"
	}
	if simulationResults != nil {
		simulationResults.WithLabelValues(simulationType).Observe(float64(count))
	}
}

// ObserveCatalogRead records catalog read latency and result.
func ObserveCatalogRead(source, result string, duration time.Duration) {
	if source == "" {
		source = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if catalogReadTotal != nil {
		catalogReadTotal.WithLabelValues(source, result).Inc()
	}
	if catalogReadLatency != nil {
		catalogReadLatency.WithLabelValues(source, result).Observe(duration.Seconds())
	}
}

// IncCatalogCache counts a cache hit or miss.
func IncCatalogCache(hit bool) {
	outcome := cacheMiss
	if hit {
		outcome = cacheHit
	}
	if catalogCacheTotal != nil {
		catalogCacheTotal.WithLabelValues(outcome).Inc()
	}
}

// ObserveExport records export latency and result.
func ObserveExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
	if exportLatency != nil {
		exportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// IncLead counts a contact request.
func IncLead(result string) {
	if result == "" {
		result = resultSuccess
	}
	if leadsTotal != nil {
		leadsTotal.WithLabelValues(result).Inc()
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
	ResultEmpty   = resultEmpty
)
