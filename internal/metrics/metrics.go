// Package metrics exposes extraction and cache statistics to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	CacheRequests      *prometheus.CounterVec
	Extractions        *prometheus.CounterVec
	ExtractionDuration prometheus.Histogram
	RecordsExtracted   prometheus.Histogram
	CellReadErrors     prometheus.Counter
	Downloads          *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates metrics under namespace and registers them with reg.
func New(namespace string, reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CacheRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Extraction cache lookups by result",
		}, []string{"result"}),
		Extractions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Completed worksheet extractions",
		}, []string{"worksheet"}),
		ExtractionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Worksheet extraction latency in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		RecordsExtracted: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "records_extracted",
			Help:      "Records produced per extraction",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
		CellReadErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cell_read_errors_total",
			Help:      "Cells that could not be read and were left out of records",
		}),
		Downloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloads_total",
			Help:      "Report downloads by outcome",
		}, []string{"outcome"}),
		gatherer: reg,
	}
}

// ObserveCache records a cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	if hit {
		m.CacheRequests.WithLabelValues("hit").Inc()
	} else {
		m.CacheRequests.WithLabelValues("miss").Inc()
	}
}

// ObserveExtraction records a finished extraction.
func (m *Metrics) ObserveExtraction(sheet string, elapsed time.Duration, records, cellErrors int) {
	m.Extractions.WithLabelValues(sheet).Inc()
	m.ExtractionDuration.Observe(elapsed.Seconds())
	m.RecordsExtracted.Observe(float64(records))
	m.CellReadErrors.Add(float64(cellErrors))
}

// ObserveDownload records a download attempt; outcome is "ok" or an error kind.
func (m *Metrics) ObserveDownload(outcome string) {
	m.Downloads.WithLabelValues(outcome).Inc()
}

// Handler returns an HTTP handler serving the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
