package source

import (
	"errors"
	"fmt"
)

// AuthorizationError indicates the source rejected our credentials (401/404
// during the token exchange, or an empty privileged listing). It is terminal:
// the remainder of the sync run must not proceed and the integration should
// be suspended until credentials are rotated.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("source authorization failed: %s", e.Message)
}

// Terminal marks this error as one that aborts the run.
func (e *AuthorizationError) Terminal() bool { return true }

// APIError indicates a single listing or lookup call failed. It is
// recoverable at the call site: the failure is recorded against the current
// phase and processing continues.
type APIError struct {
	Op     string
	Status int
	Err    error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unable to query %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("unable to query %s: status %d", e.Op, e.Status)
}

func (e *APIError) Unwrap() error { return e.Err }

// IsAuthorization reports whether err is a source authorization failure.
func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

type terminal interface {
	Terminal() bool
}

// IsTerminal reports whether err carries terminal semantics, regardless of
// which collaborator raised it. Terminal errors unwind to the orchestrator
// boundary; everything else becomes a phase error entry.
func IsTerminal(err error) bool {
	var t terminal
	return errors.As(err, &t) && t.Terminal()
}
