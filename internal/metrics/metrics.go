package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type moduleMetrics struct {
	indexRunsTotal          *prometheus.CounterVec
	indexDuration           prometheus.Histogram
	filesIndexedTotal       prometheus.Counter
	extractionFailuresTotal *prometheus.CounterVec
	memoriesIndexed         prometheus.Gauge

	searchTotal    *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	searchMode     *prometheus.GaugeVec

	embeddingCacheHits   prometheus.Counter
	embeddingCacheMisses prometheus.Counter
}

var (
	metricsOnce sync.Once
	metricsInst *moduleMetrics
)

func getMetrics() *moduleMetrics {
	metricsOnce.Do(func() {
		m := &moduleMetrics{
			indexRunsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "index_runs_total",
					Help: "Total indexing runs by status.",
				},
				[]string{"status"},
			),
			indexDuration: prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "index_run_duration_seconds",
					Help:    "Indexing run duration in seconds.",
					Buckets: prometheus.DefBuckets,
				},
			),
			filesIndexedTotal: prometheus.NewCounter(
				prometheus.CounterOpts{
					Name: "files_indexed_total",
					Help: "Total files turned into memory records.",
				},
			),
			extractionFailuresTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "extraction_failures_total",
					Help: "Total per-file extraction failures by category.",
				},
				[]string{"category"},
			),
			memoriesIndexed: prometheus.NewGauge(
				prometheus.GaugeOpts{
					Name: "memories_indexed",
					Help: "Memory records in the current snapshot.",
				},
			),
			searchTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "search_total",
					Help: "Total searches by ranking mode.",
				},
				[]string{"mode"},
			),
			searchDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "search_duration_seconds",
					Help:    "Search duration in seconds by ranking mode.",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"mode"},
			),
			searchMode: prometheus.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "search_mode_active",
					Help: "Selected ranking mode (1 active, 0 inactive).",
				},
				[]string{"mode"},
			),
			embeddingCacheHits: prometheus.NewCounter(
				prometheus.CounterOpts{
					Name: "embedding_cache_hits_total",
					Help: "Total embedding cache hits.",
				},
			),
			embeddingCacheMisses: prometheus.NewCounter(
				prometheus.CounterOpts{
					Name: "embedding_cache_misses_total",
					Help: "Total embedding cache misses.",
				},
			),
		}

		prometheus.MustRegister(
			m.indexRunsTotal,
			m.indexDuration,
			m.filesIndexedTotal,
			m.extractionFailuresTotal,
			m.memoriesIndexed,
			m.searchTotal,
			m.searchDuration,
			m.searchMode,
			m.embeddingCacheHits,
			m.embeddingCacheMisses,
		)

		metricsInst = m
	})

	return metricsInst
}

// EnsureRegistered initializes and registers metrics the first time it is called.
func EnsureRegistered() {
	_ = getMetrics()
}

func Handler() http.Handler {
	EnsureRegistered()
	return promhttp.Handler()
}

func RecordIndexRun(duration time.Duration, files int, success bool) {
	m := getMetrics()
	status := "error"
	if success {
		status = "success"
	}
	m.indexRunsTotal.WithLabelValues(status).Inc()
	m.indexDuration.Observe(duration.Seconds())
	m.filesIndexedTotal.Add(float64(files))
}

func RecordExtractionFailure(category string) {
	getMetrics().extractionFailuresTotal.WithLabelValues(category).Inc()
}

func SetMemoriesIndexed(count int) {
	getMetrics().memoriesIndexed.Set(float64(count))
}

func RecordSearch(mode string, duration time.Duration) {
	m := getMetrics()
	m.searchTotal.WithLabelValues(mode).Inc()
	m.searchDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// SetSearchMode records which ranking mode the process selected at startup.
func SetSearchMode(mode string) {
	m := getMetrics()
	for _, known := range []string{"semantic", "lexical"} {
		v := 0.0
		if known == mode {
			v = 1.0
		}
		m.searchMode.WithLabelValues(known).Set(v)
	}
}

func RecordEmbeddingCacheHit()  { getMetrics().embeddingCacheHits.Inc() }
func RecordEmbeddingCacheMiss() { getMetrics().embeddingCacheMisses.Inc() }
