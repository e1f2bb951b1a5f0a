package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := New()
	m.ObserveSubmission(OutcomeSucceeded, time.Now())
	m.ObserveSubmission(OutcomeSucceeded, time.Now())
	m.ObserveSubmission(OutcomeSubmissionError, time.Now())
	m.ObserveNotification(ResultFailed)
	m.ObserveRelay("405")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Submissions.WithLabelValues(OutcomeSucceeded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues(OutcomeSubmissionError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues(ResultFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RelayRequests.WithLabelValues("405")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSubmission(OutcomeSucceeded, time.Now())
		m.ObserveNotification(ResultSent)
		m.ObserveRelay("200")
	})
}

func TestHandlerServesRegistry(t *testing.T) {
	m := New()
	m.ObserveNotification(ResultSent)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `preorder_notifications_total{result="sent"} 1`)
	assert.Contains(t, string(body), "preorder_pipeline_duration_seconds")
}
