package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"cwl2slack/internal/payloads"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "```\nERROR boom\n```", Format(payloads.MessageList{"ERROR boom"}))
	assert.Equal(t, "```\na\nb\nc\n```", Format(payloads.MessageList{"a", "b", "c"}))
}

func TestFormat_FencesAndOrder(t *testing.T) {
	inputs := []payloads.MessageList{
		{"single"},
		{"line one", "line two", "line three"},
		{"", "blank first"},
		{"contains ``` fence", "multi\nline"},
	}

	for _, in := range inputs {
		out := Format(in)
		lines := strings.Split(out, "\n")

		assert.Equal(t, "```", lines[0])
		assert.Equal(t, "```", lines[len(lines)-1])
		assert.Equal(t, strings.Join(in, "\n"), strings.Join(lines[1:len(lines)-1], "\n"))
	}
}
