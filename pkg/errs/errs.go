package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors for the operation taxonomy. Services wrap these with
// context via Wrap; handlers map them to HTTP statuses.
var (
	ErrValidation        = errors.New("validation failed")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotFound          = errors.New("not found")
	ErrExternalService   = errors.New("external service error")
)

func Wrap(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)
}

func IsValidation(err error) bool        { return errors.Is(err, ErrValidation) }
func IsForbidden(err error) bool         { return errors.Is(err, ErrForbidden) }
func IsInvalidTransition(err error) bool { return errors.Is(err, ErrInvalidTransition) }
func IsNotFound(err error) bool          { return errors.Is(err, ErrNotFound) }
func IsExternalService(err error) bool   { return errors.Is(err, ErrExternalService) }
