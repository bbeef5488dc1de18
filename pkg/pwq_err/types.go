// pkg/pwq_err/types.go

package pwq_err

import (
	cerr "github.com/cockroachdb/errors"
)

var (
	// ErrFallbackUsed is reported when the file logger could not be opened.
	ErrFallbackUsed = cerr.New("fallback logger used")

	// ErrPasswordTooLong is returned when input exceeds the accepted length.
	ErrPasswordTooLong = cerr.New("password exceeds maximum length")

	// ErrNoInput is returned when no password was supplied and no terminal is available to ask for one.
	ErrNoInput = cerr.New("no password supplied")
)

// UserError marks an error as expected and recoverable by the user.
type UserError struct {
	cause error
}

func (e *UserError) Error() string {
	return e.cause.Error()
}

func (e *UserError) Unwrap() error {
	return e.cause
}

// NewExpectedError wraps an error for softer UX handling.
func NewExpectedError(err error) error {
	if err == nil {
		return nil
	}
	return &UserError{cause: err}
}

// IsExpectedUserError checks if the error is marked as expected.
func IsExpectedUserError(err error) bool {
	var e *UserError
	return cerr.As(err, &e)
}
