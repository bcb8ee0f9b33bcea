package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"cwl2slack/internal/constants"
)

// PrometheusMetrics keeps its collectors on a private registry so several
// instances can live in one process (tests, dev server restarts).
type PrometheusMetrics struct {
	Registry *prometheus.Registry

	invocations          prometheus.Counter
	messagesReceived     prometheus.Counter
	messagesExcluded     prometheus.Counter
	notificationsSent    prometheus.Counter
	notificationsSkipped prometheus.Counter
	failures             *prometheus.CounterVec
}

func NewPrometheusMetrics() *PrometheusMetrics {
	p := &PrometheusMetrics{
		Registry: prometheus.NewRegistry(),
		invocations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "invocations_total",
			Help:      "Subscription events handled.",
		}),
		messagesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "messages_received_total",
			Help:      "Log messages extracted from decoded batches.",
		}),
		messagesExcluded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "messages_excluded_total",
			Help:      "Log messages dropped by the exclusion pattern.",
		}),
		notificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "notifications_sent_total",
			Help:      "Notifications delivered to the webhook.",
		}),
		notificationsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "notifications_skipped_total",
			Help:      "Invocations that ended with nothing to report.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "failures_total",
			Help:      "Failed invocations by error kind.",
		}, []string{"kind"}),
	}
	p.Registry.MustRegister(
		p.invocations,
		p.messagesReceived,
		p.messagesExcluded,
		p.notificationsSent,
		p.notificationsSkipped,
		p.failures,
	)
	return p
}

func (p *PrometheusMetrics) MarkInvocation() {
	p.invocations.Inc()
}

func (p *PrometheusMetrics) MarkMessagesReceived(count int) {
	p.messagesReceived.Add(float64(count))
}

func (p *PrometheusMetrics) MarkMessagesExcluded(count int) {
	p.messagesExcluded.Add(float64(count))
}

func (p *PrometheusMetrics) MarkNotificationSent() {
	p.notificationsSent.Inc()
}

func (p *PrometheusMetrics) MarkNotificationSkipped() {
	p.notificationsSkipped.Inc()
}

func (p *PrometheusMetrics) MarkFailure(kind string) {
	p.failures.WithLabelValues(kind).Inc()
}
