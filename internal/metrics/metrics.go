package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dm_chat"

// Metrics is safe to use through a nil pointer; every method is then a
// no-op, which keeps tests free of registry setup.
type Metrics struct {
	transportRequests *prometheus.CounterVec
	transportDuration *prometheus.HistogramVec
	submits           *prometheus.CounterVec
	staleResolutions  prometheus.Counter
	clears            *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transportRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "requests_total",
			Help:      "Calls to the DM service by operation and outcome.",
		}, []string{"op", "outcome"}),
		transportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "request_duration_seconds",
			Help:      "Latency of calls to the DM service.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"op"}),
		submits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "submits_total",
			Help:      "Submit intents by result.",
		}, []string{"result"}),
		staleResolutions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "stale_resolutions_total",
			Help:      "Replies dropped because the transcript was cleared while they were in flight.",
		}),
		clears: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "clears_total",
			Help:      "Clear intents by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.transportRequests, m.transportDuration, m.submits, m.staleResolutions, m.clears)
	}
	return m
}

func (m *Metrics) ObserveTransport(op, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.transportRequests.WithLabelValues(op, outcome).Inc()
	m.transportDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (m *Metrics) Submit(result string) {
	if m == nil {
		return
	}
	m.submits.WithLabelValues(result).Inc()
}

func (m *Metrics) Clear(result string) {
	if m == nil {
		return
	}
	m.clears.WithLabelValues(result).Inc()
}

func (m *Metrics) StaleResolution() {
	if m == nil {
		return
	}
	m.staleResolutions.Inc()
}
