// Package metrics exposes Prometheus collectors for the API and the worker.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "business_management"

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	meetingBookings = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "meeting_bookings_total",
		Help:      "Meeting create and update attempts by result",
	}, []string{"result"})

	meetingConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "meeting_conflicting_attendees_total",
		Help:      "Candidate attendees dropped because of an overlapping meeting",
	})

	invitations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invitations_total",
		Help:      "Invitation lifecycle events",
	}, []string{"event"})

	taskTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_status_transitions_total",
		Help:      "Task status changes by target status",
	}, []string{"status"})
)

// Invitation lifecycle events.
const (
	InvitationCreated  = "created"
	InvitationQueued   = "queued"
	InvitationSent     = "sent"
	InvitationFailed   = "failed"
	InvitationAccepted = "accepted"
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveMeetingBooking records a booking result and how many candidates
// were excluded for being busy.
func ObserveMeetingBooking(result string, occupied int) {
	meetingBookings.WithLabelValues(result).Inc()
	if occupied > 0 {
		meetingConflicts.Add(float64(occupied))
	}
}

func ObserveInvitation(event string) {
	invitations.WithLabelValues(event).Inc()
}

func ObserveTaskTransition(status string) {
	taskTransitions.WithLabelValues(status).Inc()
}

// Middleware records count and latency per matched route. Unmatched routes
// share one label to keep cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		ObserveHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// Handler serves the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
