package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Protocol metrics
	protocolRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auction_protocol_requests_total",
			Help: "Total number of protocol requests",
		},
		[]string{"transport", "kind", "status"},
	)

	protocolRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auction_protocol_request_duration_seconds",
			Help:    "Protocol request duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
		[]string{"transport", "kind"},
	)

	fileBytesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auction_file_bytes_total",
			Help: "Total number of asset bytes transferred",
		},
		[]string{"direction"}, // upload or download
	)

	// Lifecycle metrics
	auctionEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auction_events_total",
			Help: "Total number of auction lifecycle events",
		},
		[]string{"event"}, // opened/closed/expired/bid_accepted/bid_refused
	)

	// Admin HTTP metrics
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auction_http_requests_total",
			Help: "Total number of admin HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	registerOnce sync.Once
)

// Lifecycle event labels
const (
	EventOpened      = "opened"
	EventClosed      = "closed"
	EventExpired     = "expired"
	EventBidAccepted = "bid_accepted"
	EventBidRefused  = "bid_refused"
)

// Init registers the metrics with the default registry. Later calls are no-ops.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			protocolRequestsTotal,
			protocolRequestDuration,
			fileBytesTotal,
			auctionEventsTotal,
			httpRequestsTotal,
		)
	})
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest records one handled protocol request
func RecordRequest(transport, kind, status string, duration time.Duration) {
	protocolRequestsTotal.WithLabelValues(transport, kind, status).Inc()
	protocolRequestDuration.WithLabelValues(transport, kind).Observe(duration.Seconds())
}

// RecordFileBytes records asset bytes moved in direction
func RecordFileBytes(direction string, n int64) {
	fileBytesTotal.WithLabelValues(direction).Add(float64(n))
}

// RecordAuctionEvent records a lifecycle transition
func RecordAuctionEvent(event string) {
	auctionEventsTotal.WithLabelValues(event).Inc()
}

// HTTPMetricsMiddleware records admin HTTP metrics
func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
