package domain

import "fmt"

// Validation error kinds reported at the model boundary.
const (
	KindInvalidValue = "invalid-value"
)

// ValidationError reports rejected input at graph construction time.
// Nothing past the model boundary returns errors during normal operation.
type ValidationError struct {
	Kind  string
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Msg)
}

func invalidValue(field, msg string) *ValidationError {
	return &ValidationError{Kind: KindInvalidValue, Field: field, Msg: msg}
}
