// Package pipeline turns one CloudWatch Logs subscription event into at most
// one chat notification: decode -> extract -> filter -> format -> notify.
package pipeline

import (
	"context"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"cwl2slack/internal/config"
	"cwl2slack/internal/metrics"
	"cwl2slack/internal/payloads"
	"cwl2slack/internal/util"
	"cwl2slack/log"
)

// Notifier delivers a formatted alert and returns the webhook's response body.
type Notifier interface {
	Notify(ctx context.Context, group, stream, formattedMessage string) (string, error)
}

// Result describes how an invocation ended.
type Result struct {
	RequestID    string `json:"request_id"`
	LogGroup     string `json:"log_group"`
	LogStream    string `json:"log_stream"`
	Received     int    `json:"received"`
	Excluded     int    `json:"excluded"`
	Notified     bool   `json:"notified"`
	ResponseBody string `json:"response_body,omitempty"`
}

type Pipeline struct {
	excludePattern string
	notifier       Notifier
	metrics        metrics.MetricsInterface
}

func New(conf *config.Config, notifier Notifier, m metrics.MetricsInterface) *Pipeline {
	if m == nil {
		m = metrics.NoOpMetrics{}
	}
	return &Pipeline{
		excludePattern: conf.ExcludePattern,
		notifier:       notifier,
		metrics:        m,
	}
}

// Handle is the Lambda entry point. It only reports success or failure.
func (p *Pipeline) Handle(ctx context.Context, event payloads.SubscriptionEvent) error {
	_, err := p.Run(ctx, event.AWSLogs.Data)
	return err
}

// Run processes one awslogs.data blob. Every failure is logged at error
// level and returned; nothing is sent unless every stage before delivery
// succeeded.
func (p *Pipeline) Run(ctx context.Context, raw string) (*Result, error) {
	result := &Result{RequestID: requestID(ctx)}
	entry := log.Logger().WithField("request_id", result.RequestID)
	p.metrics.MarkInvocation()

	entry.Info("Start function.")
	err := p.run(ctx, raw, result, entry)
	if err != nil {
		code := util.CodeOf(err)
		p.metrics.MarkFailure(code.Kind())
		entry.WithFields(logrus.Fields{
			"logGroup":  result.LogGroup,
			"logStream": result.LogStream,
			"kind":      code.Kind(),
		}).Error(err)
		return result, err
	}
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, raw string, result *Result, entry *logrus.Entry) error {
	batch, err := Decode(raw)
	if err != nil {
		return err
	}

	group, stream, messages, err := Extract(batch)
	if err != nil {
		return err
	}
	result.LogGroup, result.LogStream, result.Received = group, stream, len(messages)
	entry = entry.WithFields(logrus.Fields{"logGroup": group, "logStream": stream})
	entry.WithField("messages", messages).Debug("Extracted log messages")
	p.metrics.MarkMessagesReceived(len(messages))

	if p.excludePattern != "" {
		kept, fErr := Filter(messages, p.excludePattern)
		if fErr != nil {
			return fErr
		}
		result.Excluded = len(messages) - len(kept)
		p.metrics.MarkMessagesExcluded(result.Excluded)
		messages = kept
	}

	if len(messages) == 0 {
		entry.Info(`No notification. Because "log_messages" is empty.`)
		p.metrics.MarkNotificationSkipped()
		return nil
	}

	body, err := p.notifier.Notify(ctx, group, stream, Format(messages))
	if err != nil {
		return err
	}
	result.Notified = true
	result.ResponseBody = body
	p.metrics.MarkNotificationSent()
	entry.WithField("response", body).Info("Notification delivered")
	return nil
}

// requestID prefers the Lambda request id so log lines join up with the
// platform's START/END records.
func requestID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return uuid.NewString()
}
