package board

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that a referenced identifier has no matching record.
var ErrNotFound = errors.New("not found")

// ErrConflict signals a state transition that is no longer permitted, such as
// deciding a space request twice.
var ErrConflict = errors.New("conflict")

// ValidationError reports malformed or missing input rejected at the write
// boundary before any store call.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
