// Package validate carries field-level validation failures from services to
// the HTTP layer, where they render as a 400 with a list of messages.
package validate

import "strings"

// FieldError is a single human-readable validation failure.
type FieldError struct {
	Msg string `json:"msg"`
}

// Errors aggregates validation failures into one error value.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Msg)
	}
	return strings.Join(msgs, "; ")
}

// Add appends a failure message and returns the updated list.
func (e Errors) Add(msg string) Errors {
	return append(e, FieldError{Msg: msg})
}

// OrNil returns the list as an error, or nil when no failure was recorded.
func (e Errors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
