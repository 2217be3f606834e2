package response

import "encoding/json"

// ValidateToolCall builds a ToolCall from one decoded mapping. The payload
// key is normalized before shape checks: a present, non-null "arguments"
// wins unconditionally (an explicit empty object counts as present);
// otherwise "parameters" is used; if neither is supplied validation fails.
func ValidateToolCall(payload map[string]any) (ToolCall, error) {
	name, ok := payload["name"]
	if !ok || name == nil {
		return ToolCall{}, missingField("name")
	}

	nameStr, ok := name.(string)
	if !ok {
		return ToolCall{}, wrongType("name", "string")
	}
	if len(nameStr) == 0 {
		return ToolCall{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	args, err := normalizeArguments(payload)
	if err != nil {
		return ToolCall{}, err
	}

	return ToolCall{Name: nameStr, Arguments: args}, nil
}

// normalizeArguments resolves the arguments/parameters ambiguity. The
// presence check is on the key, not the value: "arguments": {} is present
// and wins over any "parameters". A JSON null decodes to an untyped nil and
// is treated the same as an absent key.
func normalizeArguments(payload map[string]any) (map[string]any, error) {
	if v, ok := payload["arguments"]; ok && v != nil {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, wrongType("arguments", "object")
		}
		return m, nil
	}

	if v, ok := payload["parameters"]; ok && v != nil {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, wrongType("parameters", "object")
		}
		return m, nil
	}

	return nil, &ValidationError{Field: "arguments", Reason: `neither "arguments" nor "parameters" was supplied`}
}

// ValidateAgentResponse builds an AgentResponse from one decoded turn.
// Every tool call must validate; a single invalid element fails the whole
// turn with an error naming the failing index.
func ValidateAgentResponse(payload map[string]any) (AgentResponse, error) {
	var rsp AgentResponse

	answer, ok := payload["answer"]
	if !ok || answer == nil {
		return AgentResponse{}, missingField("answer")
	}
	rsp.Answer, ok = answer.(string)
	if !ok {
		return AgentResponse{}, wrongType("answer", "string")
	}

	final, ok := payload["final_answer"]
	if !ok || final == nil {
		return AgentResponse{}, missingField("final_answer")
	}
	rsp.FinalAnswer, ok = final.(bool)
	if !ok {
		return AgentResponse{}, wrongType("final_answer", "boolean")
	}

	refs, err := validateReferences(payload)
	if err != nil {
		return AgentResponse{}, err
	}
	rsp.References = refs

	calls, err := validateToolCalls(payload)
	if err != nil {
		return AgentResponse{}, err
	}
	rsp.ToolCalls = calls

	return rsp, nil
}

func validateReferences(payload map[string]any) ([]map[string]any, error) {
	raw, ok := payload["references"]
	if !ok || raw == nil {
		return nil, missingField("references")
	}

	seq, ok := raw.([]any)
	if !ok {
		return nil, wrongType("references", "array")
	}

	// Reference shape is owned by the caller; elements pass through as-is.
	refs := make([]map[string]any, 0, len(seq))
	for i, elem := range seq {
		m, ok := elem.(map[string]any)
		if !ok {
			return nil, wrongType(indexed("references", i), "object")
		}
		refs = append(refs, m)
	}

	return refs, nil
}

func validateToolCalls(payload map[string]any) ([]ToolCall, error) {
	raw, ok := payload["tool_calls"]
	if !ok || raw == nil {
		return nil, missingField("tool_calls")
	}

	seq, ok := raw.([]any)
	if !ok {
		return nil, wrongType("tool_calls", "array")
	}

	calls := make([]ToolCall, 0, len(seq))
	for i, elem := range seq {
		m, ok := elem.(map[string]any)
		if !ok {
			return nil, wrongType(indexed("tool_calls", i), "object")
		}
		tc, err := ValidateToolCall(m)
		if err != nil {
			return nil, prefixField(indexed("tool_calls", i), err)
		}
		calls = append(calls, tc)
	}

	return calls, nil
}

// ParseToolCall decodes raw JSON once and validates the result.
func ParseToolCall(data []byte) (ToolCall, error) {
	payload, err := decode(data)
	if err != nil {
		return ToolCall{}, err
	}
	return ValidateToolCall(payload)
}

// ParseAgentResponse decodes raw JSON once and validates the result.
func ParseAgentResponse(data []byte) (AgentResponse, error) {
	payload, err := decode(data)
	if err != nil {
		return AgentResponse{}, err
	}
	return ValidateAgentResponse(payload)
}

func decode(data []byte) (map[string]any, error) {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &ValidationError{Field: ".", Reason: "input is not a JSON object: " + err.Error()}
	}
	return payload, nil
}
