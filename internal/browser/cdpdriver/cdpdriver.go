// Package cdpdriver implements the browser capability set on top of chromedp.
// Network throttling uses the typed cdproto network command.
package cdpdriver

import (
	"context"
	"errors"
	"fmt"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/cpjust/shopcheck/internal/browser"
)

// Name identifies this driver in configuration.
const Name = "chromedp"

// Launcher owns the Chrome process shared by all sessions.
type Launcher struct {
	opts browser.Options
	log  logrus.FieldLogger

	cancelAlloc   context.CancelFunc
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
}

// NewLauncher returns a launcher that has not started Chrome yet.
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

// Start launches Chrome and waits for the first target to attach.
func (l *Launcher) Start() error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:], allocatorOptions(l.opts)...)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// An empty Run starts the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return fmt.Errorf("failed to launch chrome: %w", err)
	}

	if l.opts.SlowMo > 0 {
		l.log.Warn("SlowMo is not supported by chromedp, ignoring")
	}

	l.cancelAlloc = cancelAlloc
	l.browserCtx = browserCtx
	l.cancelBrowser = cancelBrowser
	l.log.Info("Browser launched")
	return nil
}

// NewSession returns an unopened session on the shared browser.
func (l *Launcher) NewSession() browser.Session {
	return &Session{
		parent: l.browserCtx,
		opts:   l.opts,
		log:    l.log,
	}
}

// Stop closes Chrome.
func (l *Launcher) Stop() error {
	if l.browserCtx == nil {
		return nil
	}
	err := chromedp.Cancel(l.browserCtx)
	l.cancelBrowser()
	l.cancelAlloc()
	l.browserCtx = nil
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to close chrome: %w", err)
	}
	return nil
}

func allocatorOptions(opts browser.Options) []chromedp.ExecAllocatorOption {
	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.Flag("headless", opts.Headless),
		chromedp.DisableGPU,
		chromedp.Flag("remote-allow-origins", "*"),
	}
	if opts.StartMaximized {
		allocOpts = append(allocOpts, chromedp.Flag("start-maximized", true))
	}
	return allocOpts
}

var _ browser.Launcher = (*Launcher)(nil)
