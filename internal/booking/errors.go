package booking

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSubmitInFlight is returned when a draft is submitted while an
// identical submission has not completed yet.
var ErrSubmitInFlight = errors.New("submission already in flight for this draft")

// ValidationError is a caller-correctable problem with a single draft
// field. It is surfaced inline and never sent over the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationFailedError aggregates every rule the draft violated.
type ValidationFailedError struct {
	Errors []ValidationError
}

func (e *ValidationFailedError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		msgs[i] = ve.Error()
	}
	return "invalid booking draft: " + strings.Join(msgs, "; ")
}

// AsValidationFailed extracts a ValidationFailedError when err is one.
func AsValidationFailed(err error) (*ValidationFailedError, bool) {
	var vf *ValidationFailedError
	if errors.As(err, &vf) {
		return vf, true
	}
	return nil, false
}
