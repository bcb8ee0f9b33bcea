package payloads

import (
	"github.com/aws/aws-lambda-go/events"
)

// SubscriptionEvent is what Lambda hands us for a CloudWatch Logs subscription:
//
//	{"awslogs": {"data": "<base64(gzip(json))>"}}
type SubscriptionEvent = events.CloudwatchLogsEvent

// LogBatch is the decoded body of a subscription event. The three fields the
// pipeline consumes are pointers/nil-able so that an absent key can be told
// apart from an empty value.
type LogBatch struct {
	MessageType         string     `json:"messageType,omitempty"`
	Owner               string     `json:"owner,omitempty"`
	LogGroup            *string    `json:"logGroup"`
	LogStream           *string    `json:"logStream"`
	SubscriptionFilters []string   `json:"subscriptionFilters,omitempty"`
	LogEvents           []LogEvent `json:"logEvents"`
}

// LogEvent is one record of a batch. Only Message is read by the pipeline.
type LogEvent struct {
	ID        string  `json:"id,omitempty"`
	Timestamp int64   `json:"timestamp,omitempty"`
	Message   *string `json:"message"`
}

// MessageList is the ordered list of log lines that may end up in a notification.
type MessageList []string

// NewLogBatch builds a batch with every required field set, mainly for tests
// and the replay tool.
func NewLogBatch(group, stream string, messages ...string) *LogBatch {
	batch := &LogBatch{
		MessageType: "DATA_MESSAGE",
		LogGroup:    &group,
		LogStream:   &stream,
		LogEvents:   make([]LogEvent, 0, len(messages)),
	}
	for i := range messages {
		msg := messages[i]
		batch.LogEvents = append(batch.LogEvents, LogEvent{Message: &msg})
	}
	return batch
}
