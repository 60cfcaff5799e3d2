package models

import "time"

// ToolCall is one tool invocation requested by the language model (or posted
// directly on the text-mode endpoint).
type ToolCall struct {
	Name string            `json:"tool" binding:"required"`
	Args map[string]string `json:"args"`
}

// ToolResult is the conversational outcome of a tool call. Mutated reports
// whether the call changed booking state, for observability.
type ToolResult struct {
	Text    string `json:"text"`
	Mutated bool   `json:"mutated"`
}

// TurnResult is the outcome of one full audio turn through the pipeline.
type TurnResult struct {
	Transcript   string `json:"transcript"`
	ResponseText string `json:"response_text"`
	Audio        []byte `json:"-"`
	// Degraded is set when a pipeline stage exhausted all of its providers
	// and the turn fell back to an apology or a text-only response.
	Degraded bool `json:"degraded,omitempty"`
}

// SessionInfo is the session record mirrored into Redis so operators can
// inspect live conversations. Drafts themselves stay in process memory.
type SessionInfo struct {
	SessionID string    `json:"session_id"`
	OrderType OrderType `json:"order_type"`
	CreatedAt time.Time `json:"created_at"`
}
