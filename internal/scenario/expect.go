package scenario

import (
	"errors"
	"fmt"
)

// ErrAssertionMismatch is matched by every *MismatchError.
var ErrAssertionMismatch = errors.New("assertion mismatch")

// MismatchError reports a value read from the page that differs from the
// expected literal.
type MismatchError struct {
	What     string
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: expected %q, got %q", e.What, e.Expected, e.Actual)
}

// Is makes errors.Is(err, ErrAssertionMismatch) hold.
func (e *MismatchError) Is(target error) bool {
	return target == ErrAssertionMismatch
}

// Expect compares actual against expected exactly.
func Expect(what, actual, expected string) error {
	if actual != expected {
		return &MismatchError{What: what, Expected: expected, Actual: actual}
	}
	return nil
}
