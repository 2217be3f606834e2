package response

import "fmt"

// ValidationError reports that a decoded turn did not satisfy the required
// shape. Field is the path of the offending field, e.g. "name" or
// "tool_calls[1].arguments".
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed at %s: %s", e.Field, e.Reason)
}

func missingField(field string) error {
	return &ValidationError{Field: field, Reason: "required field is missing"}
}

func wrongType(field string, expected string) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf("expected %s", expected)}
}

func indexed(field string, i int) string {
	return fmt.Sprintf("%s[%d]", field, i)
}

// prefixField rebases a nested ValidationError under an outer field path so
// callers can tell which element of a sequence failed.
func prefixField(prefix string, err error) error {
	if ve, ok := err.(*ValidationError); ok {
		return &ValidationError{Field: prefix + "." + ve.Field, Reason: ve.Reason}
	}
	return fmt.Errorf("%s: %w", prefix, err)
}
