package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "labelsplit"

var (
	conversions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Total document conversions by result",
		},
		[]string{"result"},
	)

	sourcePages = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_pages_total",
			Help:      "Total source pages split into halves",
		},
	)

	conversionLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversion_duration_seconds",
			Help:      "Duration of successful document conversions",
			Buckets:   prometheus.DefBuckets,
		},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Document cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	registerOnce sync.Once
)

// Init registers collectors. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(conversions, sourcePages, conversionLatency, cacheLookups)
	})
}

// Handler returns the http.Handler for /metrics
func Handler() http.Handler { return promhttp.Handler() }

// ObserveConversion records one conversion. Pages and duration only count on success.
func ObserveConversion(result string, pages int, dur time.Duration) {
	conversions.WithLabelValues(result).Inc()
	if result == ResultSuccess {
		sourcePages.Add(float64(pages))
		conversionLatency.Observe(dur.Seconds())
	}
}

func IncCacheLookup(result string) { cacheLookups.WithLabelValues(result).Inc() }

const (
	ResultSuccess       = "success"
	ResultNotPDF        = "not_pdf"
	ResultDecodeError   = "decode_error"
	ResultGeometryError = "geometry_error"
	ResultEncodeError   = "encode_error"
	ResultCanceled      = "canceled"

	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)
