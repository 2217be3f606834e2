// Package response parses and validates the structured turns a model
// produces during an agent loop. Models are inconsistent about whether a
// tool call carries its payload under "arguments" or "parameters"; this
// package reconciles that before any shape checking so the rest of the
// system only ever sees the canonical form.
package response

// ToolCall is a single requested tool invocation. Arguments is always
// populated on a valid ToolCall, even when the model supplied the payload
// under "parameters".
type ToolCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// AgentResponse is one full agent turn: narrative text, pass-through
// references, zero or more tool calls in the order the model emitted them,
// and a flag marking the turn as the final answer.
type AgentResponse struct {
	Answer      string           `json:"answer"`
	References  []map[string]any `json:"references"`
	FinalAnswer bool             `json:"final_answer"`
	ToolCalls   []ToolCall       `json:"tool_calls"`
}
