package scenario

import (
	"errors"

	"github.com/cpjust/shopcheck/internal/browser"
	"github.com/cpjust/shopcheck/internal/locator"
)

// Error kinds reported for failed scenarios.
const (
	KindNone              = ""
	KindResourceNotFound  = "ResourceNotFound"
	KindMissingLocator    = "MissingLocator"
	KindElementNotFound   = "ElementNotFound"
	KindSessionNotReady   = "SessionNotReady"
	KindAssertionMismatch = "AssertionMismatch"
	KindError             = "Error"
)

// Kind classifies err into one of the Kind constants.
func Kind(err error) string {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrAssertionMismatch):
		return KindAssertionMismatch
	case errors.Is(err, locator.ErrMissingLocator):
		return KindMissingLocator
	case errors.Is(err, locator.ErrResourceNotFound):
		return KindResourceNotFound
	case errors.Is(err, browser.ErrElementNotFound):
		return KindElementNotFound
	case errors.Is(err, browser.ErrSessionNotReady):
		return KindSessionNotReady
	default:
		return KindError
	}
}
