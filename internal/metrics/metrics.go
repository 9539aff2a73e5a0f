// Package metrics defines the Prometheus collectors for the submission workflow.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "formrelay"

// Submission outcomes as seen by the caller.
const (
	OutcomeRejected       = "rejected"
	OutcomeConfigError    = "config_error"
	OutcomeDeliveryFailed = "delivery_failed"
	OutcomeDelivered      = "delivered"
)

// Persistence results.
const (
	PersistSaved  = "saved"
	PersistFailed = "failed"
)

// Metrics bundles the workflow collectors.
type Metrics struct {
	submissions  *prometheus.CounterVec
	persistence  *prometheus.CounterVec
	sendDuration prometheus.Histogram
}

// New registers the workflow collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		submissions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Contact form submissions by outcome.",
		}, []string{"outcome"}),
		persistence: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_total",
			Help:      "Store writes after a delivered notification, by result.",
		}, []string{"result"}),
		sendDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "notification_send_seconds",
			Help:      "Time spent on a single notification send attempt.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Submission counts one finished submission.
func (m *Metrics) Submission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

// Persist counts one store write.
func (m *Metrics) Persist(result string) {
	if m == nil {
		return
	}
	m.persistence.WithLabelValues(result).Inc()
}

// ObserveSend records how long a send attempt took.
func (m *Metrics) ObserveSend(d time.Duration) {
	if m == nil {
		return
	}
	m.sendDuration.Observe(d.Seconds())
}
