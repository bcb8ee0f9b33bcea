package metrics

// MetricsInterface is what the pipeline reports into. Lambda runs use
// NoOpMetrics; the dev server wires PrometheusMetrics.
type MetricsInterface interface {
	MarkInvocation()
	MarkMessagesReceived(count int)
	MarkMessagesExcluded(count int)
	MarkNotificationSent()
	MarkNotificationSkipped()
	MarkFailure(kind string)
}

type NoOpMetrics struct {
}

func (n NoOpMetrics) MarkInvocation() {
	return
}

func (n NoOpMetrics) MarkMessagesReceived(count int) {
	return
}

func (n NoOpMetrics) MarkMessagesExcluded(count int) {
	return
}

func (n NoOpMetrics) MarkNotificationSent() {
	return
}

func (n NoOpMetrics) MarkNotificationSkipped() {
	return
}

func (n NoOpMetrics) MarkFailure(kind string) {
	return
}
