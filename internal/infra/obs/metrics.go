package obs

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"guesthouse/internal/app/middleware"
)

// Metrics records bus and HTTP traffic. It implements middleware.Recorder.
type Metrics struct {
	messages *prometheus.CounterVec
	duration *prometheus.HistogramVec
	http     *prometheus.HistogramVec
	outbox   *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guesthouse",
			Name:      "bus_messages_total",
			Help:      "Commands and queries handled, by outcome.",
		}, []string{"kind", "key", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "guesthouse",
			Name:      "bus_duration_seconds",
			Help:      "Command and query handling time.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind", "key"}),
		http: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "guesthouse",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		outbox: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guesthouse",
			Name:      "outbox_events_total",
			Help:      "Outbox deliveries, by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.messages, m.duration, m.http, m.outbox)
	return m
}

func (m *Metrics) ObserveCommand(key string, took time.Duration, err error) {
	m.observe("command", key, took, err)
}

func (m *Metrics) ObserveQuery(key string, took time.Duration, err error) {
	m.observe("query", key, took, err)
}

func (m *Metrics) observe(kind, key string, took time.Duration, err error) {
	m.messages.WithLabelValues(kind, key, outcome(err)).Inc()
	m.duration.WithLabelValues(kind, key).Observe(took.Seconds())
}

func (m *Metrics) ObserveHTTP(method, route string, status int, took time.Duration) {
	m.http.WithLabelValues(method, route, strconv.Itoa(status)).Observe(took.Seconds())
}

func (m *Metrics) ObserveOutbox(err error) {
	if err != nil {
		m.outbox.WithLabelValues("failed").Inc()
		return
	}
	m.outbox.WithLabelValues("sent").Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, middleware.ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}

var _ middleware.Recorder = (*Metrics)(nil)
