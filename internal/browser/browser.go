// Package browser defines the capability set shared by the browser-automation
// drivers and the session lifecycle built on top of it.
package browser

import (
	"errors"

	"github.com/cpjust/shopcheck/internal/throttle"
)

var (
	// ErrElementNotFound is returned when a selector matched no element within
	// the driver's wait budget.
	ErrElementNotFound = errors.New("element not found")
	// ErrSessionNotReady is returned when a session is used before Create.
	ErrSessionNotReady = throttle.ErrSessionNotReady
)

// Driver is the set of page operations every backend provides. All calls
// block until the browser reports completion or the implicit wait expires.
type Driver interface {
	Navigate(url string) error
	// Text returns the text content of the first element matching selector.
	Text(selector string) (string, error)
	// Attribute returns an attribute of the first element matching selector.
	Attribute(selector, name string) (string, error)
	Click(selector string) error
	FindAll(selector string) Elements
}

// Elements is a lazy selection in document order. Nothing is queried until a
// method that needs the DOM is called.
type Elements interface {
	Count() (int, error)
	First() Element
	Nth(i int) Element
}

// Element is a single entry of an Elements selection.
type Element interface {
	Click() error
	Text() (string, error)
	Attribute(name string) (string, error)
}

// Session is one isolated browser context with a single page, owned by a
// single scenario.
type Session interface {
	Driver

	// Create opens the context and page. Every other method fails with
	// ErrSessionNotReady until Create succeeds.
	Create() error
	// Throttle applies network conditions to the page.
	Throttle(c throttle.Conditions) error
	// Close releases the page and context. It is safe to call more than once.
	Close() error
}

// Launcher owns the browser process shared by the sessions of one run.
type Launcher interface {
	Name() string
	Start() error
	NewSession() Session
	Stop() error
}
