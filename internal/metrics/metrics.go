package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes.
const (
	OutcomeSucceeded       = "succeeded"
	OutcomeValidationError = "validation_error"
	OutcomeSubmissionError = "submission_error"
)

// Notification results.
const (
	ResultSent    = "sent"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

type Metrics struct {
	registry *prometheus.Registry

	Submissions   *prometheus.CounterVec
	Notifications *prometheus.CounterVec
	Pipeline      prometheus.Histogram
	RelayRequests *prometheus.CounterVec
}

// New registers every collector on a fresh registry, so tests and
// multiple binaries in one process never collide on the global one.
func New() *Metrics {
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "preorder",
		Name:      "submissions_total",
		Help:      "Pre-order pipeline invocations by outcome.",
	}, []string{"outcome"})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "preorder",
		Name:      "notifications_total",
		Help:      "Best-effort notifications by result.",
	}, []string{"result"})
	pipeline := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "preorder",
		Name:      "pipeline_duration_seconds",
		Help:      "Wall time of one pipeline invocation.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	})
	relay := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "preorder",
		Name:      "relay_requests_total",
		Help:      "Relay requests by response status.",
	}, []string{"status"})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		submissions, notifications, pipeline, relay,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Metrics{
		registry:      reg,
		Submissions:   submissions,
		Notifications: notifications,
		Pipeline:      pipeline,
		RelayRequests: relay,
	}
}

func (m *Metrics) ObserveSubmission(outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(outcome).Inc()
	m.Pipeline.Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveNotification(result string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRelay(status string) {
	if m == nil {
		return
	}
	m.RelayRequests.WithLabelValues(status).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
