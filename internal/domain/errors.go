package domain

import (
	"errors"
	"fmt"
)

// ErrUserNotFound is returned when an operation references an account that
// does not exist. It is fatal to the calling operation.
var ErrUserNotFound = errors.New("user not found")

// ValidationError rejects malformed input to a mutating operation before
// any side effect happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
