package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mascotico"

// Metrics groups the service collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	appointmentsCreated *prometheus.CounterVec
	transitions         *prometheus.CounterVec
	slotRejections      *prometheus.CounterVec

	reconcileRuns     *prometheus.CounterVec
	reconcileLapsed   prometheus.Counter
	reconcileDuration prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		appointmentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_created_total",
			Help:      "Appointments created, by initial status.",
		}, []string{"estado"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_transitions_total",
			Help:      "Appointment status changes applied through the state machine.",
		}, []string{"from", "to", "actor"}),
		slotRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_rejections_total",
			Help:      "Bookings refused by the availability check, by reason.",
		}, []string{"reason"}),

		reconcileRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_runs_total",
			Help:      "Reconciliation runs by trigger and result.",
		}, []string{"trigger", "result"}),
		reconcileLapsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_lapsed_total",
			Help:      "Appointments moved to completed by reconciliation.",
		}),
		reconcileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reconcile_duration_seconds",
			Help:      "Duration of reconciliation runs.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.appointmentsCreated,
		m.transitions,
		m.slotRejections,
		m.reconcileRuns,
		m.reconcileLapsed,
		m.reconcileDuration,
	)
	return m
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) AppointmentCreated(status string) {
	if m == nil {
		return
	}
	m.appointmentsCreated.WithLabelValues(status).Inc()
}

func (m *Metrics) Transition(from, to, actor string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to, actor).Inc()
}

func (m *Metrics) SlotRejected(reason string) {
	if m == nil {
		return
	}
	m.slotRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) ReconcileRun(trigger string, lapsed int64, err error, d time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.reconcileRuns.WithLabelValues(trigger, result).Inc()
	m.reconcileDuration.Observe(d.Seconds())
	if lapsed > 0 {
		m.reconcileLapsed.Add(float64(lapsed))
	}
}
