package ledger

import (
	"errors"
	"fmt"
)

// ValidationError rejects an operation before any state change is attempted.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a rejection with no state change.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
