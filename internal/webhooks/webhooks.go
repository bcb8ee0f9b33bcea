package webhooks

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"cwl2slack/internal/config"
	"cwl2slack/internal/payloads"
	"cwl2slack/log"
)

// WebhookSender builds the alert payload once and hands it to the chat
// webhook, then mirrors it to SNS when a topic is configured. Only the chat
// delivery decides the outcome; a mirror failure is logged at warn level.
type WebhookSender struct {
	Channel      string
	FunctionName string
	HttpSender   *HttpWebhook
	SNSSender    *SnsWebhook
}

// NewWebhookSender wires the senders the config asks for.
func NewWebhookSender(ctx context.Context, conf *config.Config) (*WebhookSender, error) {
	whs := &WebhookSender{
		Channel:      conf.Channel,
		FunctionName: conf.FunctionName,
		HttpSender:   NewHttpWebhook(conf.WebhookURL, conf.WebhookTimeout),
	}
	if conf.SnsTopicArn != "" {
		snsSender, err := NewSnsWebhook(ctx, conf.SnsRegion, conf.SnsTopicArn)
		if err != nil {
			return nil, err
		}
		whs.SNSSender = snsSender
	}
	return whs, nil
}

func (whs *WebhookSender) Notify(ctx context.Context, group, stream, formattedMessage string) (string, error) {
	payload := payloads.NewNotificationPayload(whs.Channel, whs.FunctionName, group, stream, formattedMessage)

	body, err := whs.HttpSender.Send(ctx, payload)
	if err != nil {
		return body, err
	}

	if whs.SNSSender != nil {
		log.Logger().Debugf("Sending notification to %s", whs.SNSSender.TopicArn)
		if err = whs.SNSSender.Send(ctx, payload); err != nil {
			log.Logger().WithFields(logrus.Fields{
				"logGroup":  group,
				"logStream": stream,
				"topicArn":  whs.SNSSender.TopicArn,
			}).Warn(err)
		}
	}
	return body, nil
}

// DryRunSender logs the payload instead of delivering it. Used by the replay tool.
type DryRunSender struct {
	Channel      string
	FunctionName string
}

func (d *DryRunSender) Notify(_ context.Context, group, stream, formattedMessage string) (string, error) {
	payload := payloads.NewNotificationPayload(d.Channel, d.FunctionName, group, stream, formattedMessage)
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	log.Logger().WithFields(logrus.Fields{
		"logGroup":  group,
		"logStream": stream,
	}).Infof("Dry run, notification not sent:\n%s", data)
	return "dry-run", nil
}
