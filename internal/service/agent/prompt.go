package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const outputContract = `Respond with a single JSON object and nothing else:
{
  "answer": "<your reply so far>",
  "references": [{"id": "<item id>", "description": "<item title>"}],
  "final_answer": <true when the answer is complete and no more tool calls are needed>,
  "tool_calls": [{"name": "<tool name>", "arguments": {<tool arguments>}}]
}
Use "arguments" for each tool call's payload. Leave "tool_calls" empty when "final_answer" is true.`

func (s *Service) buildPrompt(ctx context.Context, sessionId string, input string) string {
	var sb bytes.Buffer
	sb.WriteString(s.systemPrompt)

	if len(s.specs) > 0 {
		sb.WriteString("\n\nAvailable tools:\n")
		for _, spec := range s.specs {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", spec.Name, spec.Description))
			if len(spec.InputSchema) > 0 {
				schemaJSON, _ := json.MarshalIndent(spec.InputSchema, "  ", "  ")
				sb.WriteString("  Input schema: ")
				sb.Write(schemaJSON)
				sb.WriteString("\n")
			}
			if len(spec.Examples) > 0 {
				sb.WriteString("  Examples:\n")
				for _, ex := range spec.Examples {
					exJSON, _ := json.MarshalIndent(ex, "    ", "  ")
					sb.Write(exJSON)
					sb.WriteString("\n")
				}
			}
		}
	}

	sb.WriteString("\n")
	sb.WriteString(outputContract)
	sb.WriteString("\n")

	history := s.sessions.History(ctx, sessionId)
	if len(history) > 0 {
		sb.WriteString("\nConversation so far:\n")
		for _, msg := range history {
			sb.WriteString(fmt.Sprintf("[%s]: %s\n", msg.Role, msg.Content))
		}
	}

	sb.WriteString("\nCurrent user message:\n")
	sb.WriteString(strings.TrimSpace(input))
	sb.WriteString("\n\nCompose the next agent turn.\n")

	return sb.String()
}

// stripCodeFences unwraps a response the model wrapped in a Markdown code
// block, e.g. ```json ... ```.
func stripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	trimmed = strings.TrimSpace(trimmed)

	// Drop a language tag like "json", whether or not a newline separates
	// it from the payload.
	tag := 0
	for tag < len(trimmed) && isTagChar(trimmed[tag]) {
		tag++
	}
	if rest := strings.TrimSpace(trimmed[tag:]); tag > 0 && (strings.HasPrefix(rest, "{") || strings.HasPrefix(rest, "[")) {
		return rest
	}

	return trimmed
}

func isTagChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
