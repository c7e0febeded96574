package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	c := NewCollector()

	c.ObserveSweep(200*time.Millisecond, nil)
	c.ObserveSweep(time.Second, errors.New("db down"))
	c.AlertFired("warning")
	c.AlertFired("warning")
	c.AlertFired("overdue")
	c.Dispatch(ResultSent)
	c.Dispatch(ResultDuplicate)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.sweeps.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.sweeps.WithLabelValues("error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.alertsFired.WithLabelValues("warning")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.dispatches.WithLabelValues(ResultDuplicate)))
	assert.Equal(t, 1, testutil.CollectAndCount(c.sweepDuration))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := NewCollector()
	c.Dispatch(ResultSent)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `maintenance_alert_dispatches_total{result="sent"} 1`)
}
