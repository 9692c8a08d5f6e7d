package throttle

import (
	"errors"
	"fmt"
)

// ErrSessionNotReady is returned when conditions are applied before the
// browser session and its protocol channel exist.
var ErrSessionNotReady = errors.New("session not ready")

// Transport delivers a full set of conditions to the browser.
type Transport interface {
	EmulateNetworkConditions(c Conditions) error
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(c Conditions) error

// EmulateNetworkConditions calls f(c).
func (f TransportFunc) EmulateNetworkConditions(c Conditions) error {
	return f(c)
}

// Controller applies sparse condition updates to one session. It keeps the
// conditions already sent so that an update only changes the fields it sets.
type Controller struct {
	transport Transport
	current   Conditions
}

// NewController returns a controller bound to t. A nil transport yields a
// controller whose Apply always fails with ErrSessionNotReady.
func NewController(t Transport) *Controller {
	return &Controller{transport: t}
}

// Apply merges update onto the current conditions and sends the result.
// The current state only changes when the transport accepts it.
func (c *Controller) Apply(update Conditions) error {
	if c == nil || c.transport == nil {
		return ErrSessionNotReady
	}
	merged := c.current.Merge(update)
	if err := c.transport.EmulateNetworkConditions(merged); err != nil {
		return fmt.Errorf("emulating network conditions: %w", err)
	}
	c.current = merged
	return nil
}

// Current returns the conditions last applied.
func (c *Controller) Current() Conditions {
	if c == nil {
		return Conditions{}
	}
	return c.current
}
