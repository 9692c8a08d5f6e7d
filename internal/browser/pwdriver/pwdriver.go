// Package pwdriver implements the browser capability set on top of
// playwright-go. Network throttling goes through a raw DevTools session.
package pwdriver

import (
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"github.com/cpjust/shopcheck/internal/browser"
	"github.com/cpjust/shopcheck/internal/throttle"
)

// Name identifies this driver in configuration.
const Name = "playwright"

// Launcher starts one Playwright-controlled Chromium shared by all sessions.
type Launcher struct {
	opts browser.Options
	log  logrus.FieldLogger

	pw      *playwright.Playwright
	browser playwright.Browser
}

// NewLauncher returns a launcher that has not started a browser yet.
func NewLauncher(opts browser.Options, log logrus.FieldLogger) *Launcher {
	return &Launcher{
		opts: opts,
		log:  log.WithField("driver", Name),
	}
}

// Name returns the driver name.
func (l *Launcher) Name() string {
	return Name
}

// Start runs the Playwright driver and launches Chromium.
func (l *Launcher) Start() error {
	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(launchOptions(l.opts))
	if err != nil {
		_ = pw.Stop()
		return fmt.Errorf("failed to launch chromium: %w", err)
	}

	l.pw = pw
	l.browser = b
	l.log.WithField("version", b.Version()).Info("Browser launched")
	return nil
}

// NewSession returns an unopened session on the shared browser.
func (l *Launcher) NewSession() browser.Session {
	return &Session{
		browser: l.browser,
		opts:    l.opts,
		log:     l.log,
	}
}

// Stop closes the browser and the Playwright driver.
func (l *Launcher) Stop() error {
	var errs []error
	if l.browser != nil {
		errs = append(errs, l.browser.Close())
		l.browser = nil
	}
	if l.pw != nil {
		errs = append(errs, l.pw.Stop())
		l.pw = nil
	}
	return errors.Join(errs...)
}

func launchOptions(opts browser.Options) playwright.BrowserTypeLaunchOptions {
	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	}
	if opts.StartMaximized {
		launch.Args = []string{"--start-maximized"}
	}
	if opts.SlowMo > 0 {
		launch.SlowMo = playwright.Float(float64(opts.SlowMo.Milliseconds()))
	}
	return launch
}

// mapError translates Playwright timeouts into ErrElementNotFound.
func mapError(selector string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %s: %v", browser.ErrElementNotFound, selector, err)
	}
	return fmt.Errorf("%s: %w", selector, err)
}

var _ browser.Launcher = (*Launcher)(nil)
var _ throttle.Transport = (*Session)(nil)
