package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestReconcileRunCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ReconcileRun("startup", 3, nil, time.Millisecond)
	m.ReconcileRun("hourly", 0, errors.New("db down"), time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.reconcileRuns.WithLabelValues("startup", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reconcileRuns.WithLabelValues("hourly", "error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.reconcileLapsed))
}

func TestTransitionAndHTTPCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Transition("pendiente", "cancelada", "client")
	m.ObserveHTTP("GET", "/api/appointments", 200, 5*time.Millisecond)
	m.SlotRejected("non-working day")
	m.AppointmentCreated("pendiente")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("pendiente", "cancelada", "client")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/appointments", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.slotRejections.WithLabelValues("non-working day")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.appointmentsCreated.WithLabelValues("pendiente")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/", 200, time.Second)
		m.Transition("a", "b", "c")
		m.SlotRejected("x")
		m.AppointmentCreated("pendiente")
		m.ReconcileRun("manual", 1, nil, time.Second)
	})
}
