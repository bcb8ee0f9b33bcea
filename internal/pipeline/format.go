package pipeline

import (
	"strings"

	"cwl2slack/internal/constants"
	"cwl2slack/internal/payloads"
)

// Format joins the messages with newlines and fences them for monospace
// rendering. Callers never pass an empty list.
func Format(messages payloads.MessageList) string {
	var b strings.Builder
	b.WriteString(constants.CodeFence)
	b.WriteString("\n")
	b.WriteString(strings.Join(messages, "\n"))
	b.WriteString("\n")
	b.WriteString(constants.CodeFence)
	return b.String()
}
