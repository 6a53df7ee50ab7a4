package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics — счётчики Prometheus для трекера, напоминаний и HTTP.
// Каждый экземпляр держит свой реестр.
type Metrics struct {
	registry *prometheus.Registry

	EventsTotal       *prometheus.CounterVec
	PersistFailures   *prometheus.CounterVec
	RolloversTotal    prometheus.Counter
	RemindersFired    *prometheus.CounterVec
	HTTPRequestsTotal *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		EventsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vitalis_tracker_events_total",
			Help: "Total number of tracker mutations by operation",
		}, []string{"op"}),

		PersistFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vitalis_persist_failures_total",
			Help: "Total number of failed saves by operation",
		}, []string{"op"}),

		RolloversTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "vitalis_day_rollovers_total",
			Help: "Total number of daily stats resets",
		}),

		RemindersFired: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vitalis_reminders_fired_total",
			Help: "Total number of delivered reminders by type",
		}, []string{"type"}),

		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "vitalis_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "code"}),

		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vitalis_http_request_duration_seconds",
			Help:    "Duration of HTTP request handling",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// EventRecorded, PersistFailed and RolledOver implement tracker.Observer.
func (m *Metrics) EventRecorded(op string) {
	m.EventsTotal.WithLabelValues(op).Inc()
}

func (m *Metrics) PersistFailed(op string) {
	m.PersistFailures.WithLabelValues(op).Inc()
}

func (m *Metrics) RolledOver() {
	m.RolloversTotal.Inc()
}

func (m *Metrics) ReminderFired(reminderType string) {
	m.RemindersFired.WithLabelValues(reminderType).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records request counts and latency by route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
