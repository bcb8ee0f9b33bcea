package internal

import (
	"context"
	"sync/atomic"

	"cwl2slack/internal/config"
	"cwl2slack/internal/metrics"
	"cwl2slack/internal/pipeline"
	"cwl2slack/internal/webhooks"
)

// Server hosts the pipeline behind HTTP for local development, outside Lambda.
type Server struct {
	config            *config.Config
	Pipeline          *pipeline.Pipeline
	PrometheusMetrics *metrics.PrometheusMetrics
	Closing           atomic.Bool
}

func NewServer(ctx context.Context, conf *config.Config) (*Server, error) {
	webhookSender, err := webhooks.NewWebhookSender(ctx, conf)
	if err != nil {
		return nil, err
	}
	return NewServerWithNotifier(conf, webhookSender), nil
}

// NewServerWithNotifier lets tests and the dry-run mode swap the delivery side.
func NewServerWithNotifier(conf *config.Config, notifier pipeline.Notifier) *Server {
	metricsManager := metrics.NewPrometheusMetrics()
	return &Server{
		config:            conf,
		Pipeline:          pipeline.New(conf, notifier, metricsManager),
		PrometheusMetrics: metricsManager,
	}
}
