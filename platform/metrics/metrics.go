// Package metrics exposes Prometheus instrumentation for the proxy.
// This is part of the platform layer and contains no business logic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upstream call outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeZeroResults = "zero_results"
	OutcomeStatus      = "provider_status"
	OutcomeFailure     = "failure"
)

var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "county_lookup_upstream_requests_total",
		Help: "Mapping provider requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})
	UpstreamDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "county_lookup_upstream_duration_ms",
		Help:    "Mapping provider call duration in milliseconds",
		Buckets: []float64{10, 25, 50, 100, 200, 500, 1000, 2500, 5000},
	}, []string{"endpoint"})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "county_lookup_http_requests_total",
		Help: "Proxy HTTP requests by route and status",
	}, []string{"route", "status"})
)

func init() {
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamDurationMs)
	prometheus.MustRegister(HTTPRequestsTotal)
}

// ObserveUpstream records one provider call.
func ObserveUpstream(endpoint, outcome string, started time.Time) {
	UpstreamRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	UpstreamDurationMs.WithLabelValues(endpoint).Observe(float64(time.Since(started).Milliseconds()))
}

// Middleware counts requests per matched route. Unmatched paths share one
// label so scanners cannot blow up cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Handler serves the registered metrics in the Prometheus text format.
func Handler() http.Handler { return promhttp.Handler() }
