package browser

import "time"

// DefaultImplicitWait bounds every element lookup and navigation.
const DefaultImplicitWait = 30 * time.Second

// Options configures how a Launcher starts the browser and how its sessions
// wait for elements.
type Options struct {
	Headless       bool
	StartMaximized bool
	// ImplicitWait is how long element operations wait before failing with
	// ErrElementNotFound.
	ImplicitWait time.Duration
	// SlowMo delays every driver operation. Zero disables it.
	SlowMo time.Duration
}

// Wait returns the implicit wait, falling back to DefaultImplicitWait.
func (o Options) Wait() time.Duration {
	if o.ImplicitWait <= 0 {
		return DefaultImplicitWait
	}
	return o.ImplicitWait
}
