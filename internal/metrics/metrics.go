package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "travel_guide"

// Metrics owns a private registry so tests and multiple instances never
// collide on the global one. A nil *Metrics is a valid no-op recorder.
type Metrics struct {
	registry *prometheus.Registry

	chatReplies      *prometheus.CounterVec
	savedToggles     *prometheus.CounterVec
	snapshotFailures prometheus.Counter
	savedPlaces      prometheus.Gauge
}

// New registers the service collectors plus Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		chatReplies: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "chat",
				Name:      "replies_total",
				Help:      "Assistant replies by the rule that produced them.",
			},
			[]string{"rule"},
		),
		savedToggles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "saved",
				Name:      "toggles_total",
				Help:      "Saved-place toggles by resulting action.",
			},
			[]string{"action"},
		),
		snapshotFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "saved",
				Name:      "snapshot_failures_total",
				Help:      "Snapshot reads or writes that failed.",
			},
		),
		savedPlaces: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "saved",
				Name:      "places",
				Help:      "Places currently in the saved collection.",
			},
		),
	}
}

// ObserveReply counts one assistant reply.
func (m *Metrics) ObserveReply(rule string) {
	if m == nil {
		return
	}
	m.chatReplies.WithLabelValues(rule).Inc()
}

// ObserveToggle counts one toggle; saved reports the new membership.
func (m *Metrics) ObserveToggle(saved bool) {
	if m == nil {
		return
	}
	action := "removed"
	if saved {
		action = "added"
	}
	m.savedToggles.WithLabelValues(action).Inc()
}

// ObserveSnapshotFailure counts one failed snapshot operation.
func (m *Metrics) ObserveSnapshotFailure() {
	if m == nil {
		return
	}
	m.snapshotFailures.Inc()
}

// SetSavedPlaces records the current size of the saved collection.
func (m *Metrics) SetSavedPlaces(n int) {
	if m == nil {
		return
	}
	m.savedPlaces.Set(float64(n))
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
