package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDecisionToolCall(t *testing.T) {
	d := parseDecision(`{"tool": "set_customer_info", "args": {"name": "Jane", "phone": "+442012345678"}}`)
	assert.Equal(t, "set_customer_info", d.Tool)
	assert.Equal(t, "Jane", d.Args["name"])
	assert.Empty(t, d.Reply)
}

func TestParseDecisionReply(t *testing.T) {
	d := parseDecision(`{"reply": "We open at nine."}`)
	assert.Empty(t, d.Tool)
	assert.Equal(t, "We open at nine.", d.Reply)
}

func TestParseDecisionMarkdownFences(t *testing.T) {
	raw := "```json\n{\"tool\": \"book_services\", \"args\": {\"services\": \"Haircut\"}}\n```"
	d := parseDecision(raw)
	assert.Equal(t, "book_services", d.Tool)
	assert.Equal(t, "Haircut", d.Args["services"])
}

func TestParseDecisionPlainTextFallsBackToReply(t *testing.T) {
	d := parseDecision("Sure, we open at 9am on Mondays.")
	assert.Empty(t, d.Tool)
	assert.Equal(t, "Sure, we open at 9am on Mondays.", d.Reply)
}

func TestParseDecisionGarbageJSONFallsBackToReply(t *testing.T) {
	raw := `{"unexpected": true}`
	d := parseDecision(raw)
	assert.Empty(t, d.Tool)
	assert.Equal(t, raw, d.Reply)
}
