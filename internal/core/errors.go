package core

import "errors"

var (
	// ErrNotFound is returned by lookups and writes that matched no record.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned by Register when the email is taken.
	ErrDuplicateEmail = errors.New("user already exists")

	// ErrInvalidCredentials is returned by Authenticate for an unknown email
	// or a wrong password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError marks a rejected entity payload. The message is safe to
// surface to API callers.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validationf builds a *ValidationError from a plain message.
func Validationf(msg string) error { return &ValidationError{Message: msg} }

// IsValidation reports whether err is a payload validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
