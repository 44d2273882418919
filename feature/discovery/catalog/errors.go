package catalog

import (
	"errors"
	"fmt"
)

// AuthorizationError indicates the catalog rejected our session. It is
// terminal, with a remediation distinct from a source failure: the account
// token must be rotated before the integration is resumed.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("catalog authorization failed: %s", e.Message)
}

// Terminal marks this error as one that aborts the run.
func (e *AuthorizationError) Terminal() bool { return true }

// IsAuthorization reports whether err is a catalog authorization failure.
func IsAuthorization(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

// ErrPollTimeout is returned when an async batch result does not complete
// within the configured timeout. It is recoverable per page: other pages'
// results are still collected.
var ErrPollTimeout = errors.New("async result poll timed out")
