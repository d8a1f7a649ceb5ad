package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collaborator names used as label values.
const (
	CollaboratorDirectory  = "user_directory"
	CollaboratorMailer     = "mailer"
	CollaboratorCompletion = "completion"
	CollaboratorStorage    = "storage"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests by route, method and status."},
		[]string{"path", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request latency in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"path", "method"},
	)
	CollaboratorCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "collaborator_calls_total", Help: "Calls to external collaborators by outcome."},
		[]string{"collaborator", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, CollaboratorCalls)
}

// ObserveCall counts one collaborator call as success or failure.
func ObserveCall(collaborator string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	CollaboratorCalls.WithLabelValues(collaborator, outcome).Inc()
}

// Handler records request count and latency per route template. Requests
// that matched no route share a single label.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPLatency.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
		HTTPRequests.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Exposer serves the default registry in Prometheus text format.
func Exposer() gin.HandlerFunc { return gin.WrapH(promhttp.Handler()) }
