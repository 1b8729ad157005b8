package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	llmCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_calls_total",
			Help: "Total number of model calls by purpose and outcome",
		},
		[]string{"purpose", "status"},
	)

	usageEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usage_events_total",
			Help: "Total number of recorded word usage events",
		},
		[]string{"correct"},
	)

	dictLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dict_lookups_total",
			Help: "Total number of dictionary lookups by source",
		},
		[]string{"source"},
	)
)

// Metrics records request counts, latency and in-flight gauge per route
// template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpRequestsInFlight.Inc()

		c.Next()

		httpRequestsInFlight.Dec()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// ObserveLLMCall counts one model call. Purpose is one of the pipeline
// stages (prime, first_reply, correctness, reply).
func ObserveLLMCall(purpose string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	llmCallsTotal.WithLabelValues(purpose, status).Inc()
}

// ObserveUsageEvent counts one recorded usage event.
func ObserveUsageEvent(correct bool) {
	usageEventsTotal.WithLabelValues(strconv.FormatBool(correct)).Inc()
}

// ObserveDictLookup counts one dictionary lookup by serving source
// (local, redis, db, remote, miss).
func ObserveDictLookup(source string) {
	dictLookupsTotal.WithLabelValues(source).Inc()
}
