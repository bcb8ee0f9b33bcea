package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler provides HTTP handlers for exposing Prometheus metrics
type MetricsHandler struct {
	metrics *PrometheusMetrics
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(metrics *PrometheusMetrics) *MetricsHandler {
	return &MetricsHandler{
		metrics: metrics,
	}
}

// PrometheusHandler serves the text exposition format for the handler's registry.
func (mh *MetricsHandler) PrometheusHandler() http.Handler {
	return promhttp.HandlerFor(mh.metrics.Registry, promhttp.HandlerOpts{})
}
