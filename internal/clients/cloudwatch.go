package clients

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/sirupsen/logrus"

	"cwl2slack/internal/payloads"
	"cwl2slack/log"
)

// LogsClient is the subset of the CloudWatch Logs API the replay source uses.
type LogsClient interface {
	FilterLogEvents(ctx context.Context, params *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error)
}

// ReplayQuery selects past log events to push through the pipeline again.
// FilterPattern uses CloudWatch Logs filter syntax, not a Go regexp.
type ReplayQuery struct {
	LogGroup      string
	StreamPrefix  string
	FilterPattern string
	Start         time.Time
	End           time.Time
	Limit         int
}

// NewCloudWatchClient loads the default AWS config, optionally pinned to a
// region and shared profile.
func NewCloudWatchClient(ctx context.Context, region, profile string) (*cloudwatchlogs.Client, error) {
	var cfgOpts []func(*config.LoadOptions) error
	if region != "" {
		cfgOpts = append(cfgOpts, config.WithRegion(region))
	}
	if profile != "" {
		cfgOpts = append(cfgOpts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, err
	}
	return cloudwatchlogs.NewFromConfig(cfg), nil
}

// FetchBatches pages through FilterLogEvents and groups the hits by stream,
// one LogBatch per stream in first-seen order, the way a subscription
// would have delivered them.
func FetchBatches(ctx context.Context, client LogsClient, q ReplayQuery) ([]*payloads.LogBatch, error) {
	if q.LogGroup == "" {
		return nil, errors.New("log group required")
	}
	if !q.Start.IsZero() && !q.End.IsZero() && q.Start.After(q.End) {
		return nil, errors.New("start is after end")
	}

	input := &cloudwatchlogs.FilterLogEventsInput{
		LogGroupName: aws.String(q.LogGroup),
	}
	if q.StreamPrefix != "" {
		input.LogStreamNamePrefix = aws.String(q.StreamPrefix)
	}
	if q.FilterPattern != "" {
		input.FilterPattern = aws.String(q.FilterPattern)
	}
	if !q.Start.IsZero() {
		input.StartTime = aws.Int64(q.Start.UnixMilli())
	}
	if !q.End.IsZero() {
		input.EndTime = aws.Int64(q.End.UnixMilli())
	}

	byStream := map[string]*payloads.LogBatch{}
	var batches []*payloads.LogBatch
	total := 0
	var next *string
	for {
		input.NextToken = next
		out, err := client.FilterLogEvents(ctx, input)
		if err != nil {
			return nil, err
		}
		for _, e := range out.Events {
			stream := aws.ToString(e.LogStreamName)
			batch, ok := byStream[stream]
			if !ok {
				batch = payloads.NewLogBatch(q.LogGroup, stream)
				byStream[stream] = batch
				batches = append(batches, batch)
			}
			batch.LogEvents = append(batch.LogEvents, payloads.LogEvent{
				ID:        aws.ToString(e.EventId),
				Timestamp: aws.ToInt64(e.Timestamp),
				Message:   e.Message,
			})
			total++
			if q.Limit > 0 && total >= q.Limit {
				return batches, nil
			}
		}
		if out.NextToken == nil || (next != nil && aws.ToString(out.NextToken) == aws.ToString(next)) {
			break
		}
		next = out.NextToken
	}

	log.Logger().WithFields(logrus.Fields{
		"logGroup": q.LogGroup,
		"events":   total,
		"streams":  len(batches),
	}).Debug("Fetched events for replay")
	return batches, nil
}
