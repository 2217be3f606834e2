// Package getsafe provides typed access into loosely decoded JSON payloads,
// e.g. the normalized arguments of a tool call.
package getsafe

func String(payload map[string]any, key string) string {
	if v, ok := payload[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Int tolerates the float64 that encoding/json produces for JSON numbers.
func Int(payload map[string]any, key string, fallback int) int {
	v, ok := payload[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return fallback
}

func StringSlice(payload map[string]any, key string) []string {
	v, ok := payload[key]
	if !ok {
		return nil
	}

	switch seq := v.(type) {
	case []string:
		return seq
	case []any:
		out := make([]string, 0, len(seq))
		for _, elem := range seq {
			if s, ok := elem.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}

	return nil
}

func Metadata(payload map[string]any, key string) map[string]any {
	if v, ok := payload[key]; ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return nil
}
