package fallback

import (
	"errors"
	"fmt"
	"strings"
)

// AttemptError records one failed provider attempt.
type AttemptError struct {
	Provider string
	Err      error
}

// ExhaustedError is returned when every provider in a pool failed for one
// invocation. It is a hard failure for that capability for that call only.
type ExhaustedError struct {
	Capability Capability
	Attempts   []AttemptError
}

func (e *ExhaustedError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "all %s providers failed", e.Capability)
	for _, a := range e.Attempts {
		fmt.Fprintf(&sb, "; %s: %v", a.Provider, a.Err)
	}
	return sb.String()
}

// IsExhausted reports whether err wraps an ExhaustedError.
func IsExhausted(err error) bool {
	var exhausted *ExhaustedError
	return errors.As(err, &exhausted)
}
