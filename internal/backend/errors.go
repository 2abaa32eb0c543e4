package backend

import (
	"errors"
	"fmt"
)

// ErrAuthRequired is returned before any request is sent when the session
// holds no credential. Handlers surface it as a sign-in prompt.
var ErrAuthRequired = errors.New("authentication required")

// StatusError represents a request the backend rejected with a non-2xx status
type StatusError struct {
	Code int
	Body string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("backend rejected request: status %d: %s", e.Code, e.Body)
}

// IsRejected reports whether err is a backend rejection (non-2xx response)
func IsRejected(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}
