package identity

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the identity service rejects the
// presented credential with status 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidCredentials is returned when a login attempt is rejected.
var ErrInvalidCredentials = errors.New("invalid credentials")

// StatusError reports a non-2xx identity service response that does not map
// to a sentinel.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("identity service status %d", e.Code)
	}
	return fmt.Sprintf("identity service status %d: %s", e.Code, e.Body)
}
