package pipeline

import (
	"fmt"

	"cwl2slack/internal/payloads"
	"cwl2slack/internal/util"
)

// Extract pulls the group, stream and ordered messages out of a decoded batch.
// An empty logEvents list is valid and yields an empty MessageList.
func Extract(batch *payloads.LogBatch) (string, string, payloads.MessageList, error) {
	if batch == nil {
		return "", "", nil, util.NewSchemaError("batch", "is nil")
	}
	if batch.LogGroup == nil {
		return "", "", nil, util.NewSchemaError("logGroup", "is required")
	}
	if batch.LogStream == nil {
		return "", "", nil, util.NewSchemaError("logStream", "is required")
	}
	if batch.LogEvents == nil {
		return "", "", nil, util.NewSchemaError("logEvents", "is required")
	}

	messages := make(payloads.MessageList, 0, len(batch.LogEvents))
	for i, event := range batch.LogEvents {
		if event.Message == nil {
			return "", "", nil, util.NewSchemaError(fmt.Sprintf("logEvents[%d].message", i), "is required")
		}
		messages = append(messages, *event.Message)
	}
	return *batch.LogGroup, *batch.LogStream, messages, nil
}
