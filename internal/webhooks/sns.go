package webhooks

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"cwl2slack/internal/constants"
	"cwl2slack/internal/payloads"
	"cwl2slack/internal/util"
	"cwl2slack/log"
)

type SnsClientInterface interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SnsWebhook mirrors each delivered notification onto an SNS topic so other
// subscribers (email, paging) see the same alert.
type SnsWebhook struct {
	SnsClient                SnsClientInterface
	TopicArn                 string
	SnsMessageEventNameKey   string
	SnsMessageEventNameValue string
}

func NewSnsWebhook(ctx context.Context, region, topicArn string) (*SnsWebhook, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}

	return &SnsWebhook{
		SnsClient:                sns.NewFromConfig(cfg),
		TopicArn:                 topicArn,
		SnsMessageEventNameKey:   constants.SnsEventKeyName,
		SnsMessageEventNameValue: constants.SnsEventKeyValue,
	}, nil
}

func (s *SnsWebhook) Send(ctx context.Context, payload payloads.NotificationPayload) error {
	if s.SnsClient == nil {
		return util.NewDeliveryError(errors.New("SNS client not initialized"), "publish")
	}
	if s.TopicArn == "" {
		return util.NewDeliveryError(errors.New("SNS Topic ARN not specified"), "publish")
	}

	if s.SnsMessageEventNameKey == "" {
		s.SnsMessageEventNameKey = constants.SnsEventKeyName
	}
	if s.SnsMessageEventNameValue == "" {
		s.SnsMessageEventNameValue = constants.SnsEventKeyValue
	}

	message, mErr := json.Marshal(payload)
	if mErr != nil {
		return util.NewDeliveryError(mErr, "marshal payload")
	}

	input := &sns.PublishInput{
		Message:  aws.String(string(message)),
		TopicArn: aws.String(s.TopicArn),
		MessageAttributes: map[string]types.MessageAttributeValue{
			s.SnsMessageEventNameKey: {
				DataType:    aws.String("String"),
				StringValue: aws.String(s.SnsMessageEventNameValue),
			},
		},
	}

	log.Logger().Debugf("Publishing message to SNS: %s", string(message))

	out, err := s.SnsClient.Publish(ctx, input)
	if err != nil {
		return util.NewDeliveryError(err, "publish to SNS")
	}

	log.Logger().Tracef("Published message to SNS: %s", aws.ToString(out.MessageId))
	return nil
}
