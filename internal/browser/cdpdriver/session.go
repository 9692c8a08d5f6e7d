package cdpdriver

import (
	"context"
	"errors"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/cpjust/shopcheck/internal/browser"
	"github.com/cpjust/shopcheck/internal/throttle"
)

// Session is one tab in its own browser context.
type Session struct {
	parent context.Context
	opts   browser.Options
	log    logrus.FieldLogger

	ctx      context.Context
	cancel   context.CancelFunc
	throttle *throttle.Controller
}

// Create opens a tab in a new browser context, so cookies and storage are not
// shared with other sessions.
func (s *Session) Create() error {
	if s.parent == nil {
		return fmt.Errorf("%w: browser not launched", browser.ErrSessionNotReady)
	}
	if s.ctx != nil {
		return errors.New("session already created")
	}

	ctx, cancel := chromedp.NewContext(s.parent, chromedp.WithNewBrowserContext())
	if err := chromedp.Run(ctx, network.Enable()); err != nil {
		cancel()
		return fmt.Errorf("failed to open tab: %w", err)
	}

	s.ctx = ctx
	s.cancel = cancel
	s.throttle = throttle.NewController(s)
	s.log.Debug("Session created")
	return nil
}

// EmulateNetworkConditions sends the typed network command. The command needs
// every field, so unset ones carry the protocol's no-throttling values.
func (s *Session) EmulateNetworkConditions(c throttle.Conditions) error {
	if s.ctx == nil {
		return browser.ErrSessionNotReady
	}
	offline, latency, download, upload := protocolValues(c)
	ctx, cancel := context.WithTimeout(s.ctx, s.opts.Wait())
	defer cancel()
	return chromedp.Run(ctx, network.EmulateNetworkConditions(offline, latency, download, upload))
}

// Throttle applies network conditions to the tab.
func (s *Session) Throttle(c throttle.Conditions) error {
	if err := s.throttle.Apply(c); err != nil {
		return err
	}
	s.log.WithField("conditions", s.throttle.Current().String()).Debug("Network conditions applied")
	return nil
}

// Navigate loads url and waits for the load event.
func (s *Session) Navigate(url string) error {
	if s.ctx == nil {
		return browser.ErrSessionNotReady
	}
	ctx, cancel := context.WithTimeout(s.ctx, s.opts.Wait())
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// Text returns the text content of the first match.
func (s *Session) Text(selector string) (string, error) {
	var text string
	err := s.run(selector, chromedp.TextContent(selector, &text, chromedp.ByQuery))
	return text, err
}

// Attribute returns the named attribute of the first match.
func (s *Session) Attribute(selector, name string) (string, error) {
	var value string
	var ok bool
	err := s.run(selector, chromedp.AttributeValue(selector, name, &value, &ok, chromedp.ByQuery))
	return value, err
}

// Click clicks the first match once it is visible.
func (s *Session) Click(selector string) error {
	return s.run(selector, chromedp.Click(selector, chromedp.ByQuery))
}

// FindAll returns a lazy selection of every match.
func (s *Session) FindAll(selector string) browser.Elements {
	return elements{s: s, selector: selector}
}

// Close closes the tab and disposes of its browser context. Calling it again
// is a no-op.
func (s *Session) Close() error {
	if s.ctx == nil {
		return nil
	}
	err := chromedp.Cancel(s.ctx)
	s.cancel()
	s.ctx = nil
	s.cancel = nil
	s.throttle = nil
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to close tab: %w", err)
	}
	return nil
}

// run executes actions under the implicit wait. Running out of time means the
// selector never matched.
func (s *Session) run(selector string, actions ...chromedp.Action) error {
	if s.ctx == nil {
		return browser.ErrSessionNotReady
	}
	ctx, cancel := context.WithTimeout(s.ctx, s.opts.Wait())
	defer cancel()
	return mapError(selector, chromedp.Run(ctx, actions...))
}

func mapError(selector string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", browser.ErrElementNotFound, selector, err)
	}
	return fmt.Errorf("%s: %w", selector, err)
}

// protocolValues fills unset fields with offline=false, latency=0 and
// throughput=-1, which the protocol treats as "no throttling".
func protocolValues(c throttle.Conditions) (offline bool, latency, download, upload float64) {
	download, upload = -1, -1
	if c.Offline != nil {
		offline = *c.Offline
	}
	if c.Latency != nil {
		latency = float64(c.Latency.Milliseconds())
	}
	if c.DownloadThroughput != nil {
		download = float64(*c.DownloadThroughput)
	}
	if c.UploadThroughput != nil {
		upload = float64(*c.UploadThroughput)
	}
	return offline, latency, download, upload
}

type elements struct {
	s        *Session
	selector string
}

func (e elements) Count() (int, error) {
	var nodes []*cdp.Node
	err := e.s.run(e.selector, chromedp.Nodes(e.selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	return len(nodes), err
}

func (e elements) First() browser.Element {
	return e.Nth(0)
}

func (e elements) Nth(i int) browser.Element {
	return element{s: e.s, selector: e.selector, index: i}
}

// element resolves its node when an action runs, waiting until at least
// index+1 nodes match.
type element struct {
	s        *Session
	selector string
	index    int
}

func (e element) do(fn func(ctx context.Context, node *cdp.Node) error) error {
	return e.s.run(e.selector, chromedp.ActionFunc(func(ctx context.Context) error {
		var nodes []*cdp.Node
		if err := chromedp.Nodes(e.selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(e.index+1)).Do(ctx); err != nil {
			return err
		}
		return fn(ctx, nodes[e.index])
	}))
}

func (e element) Click() error {
	return e.do(func(ctx context.Context, node *cdp.Node) error {
		return chromedp.Click([]cdp.NodeID{node.NodeID}, chromedp.ByNodeID).Do(ctx)
	})
}

func (e element) Text() (string, error) {
	var text string
	err := e.do(func(ctx context.Context, node *cdp.Node) error {
		return chromedp.TextContent([]cdp.NodeID{node.NodeID}, &text, chromedp.ByNodeID).Do(ctx)
	})
	return text, err
}

func (e element) Attribute(name string) (string, error) {
	var value string
	var ok bool
	err := e.do(func(ctx context.Context, node *cdp.Node) error {
		return chromedp.AttributeValue([]cdp.NodeID{node.NodeID}, name, &value, &ok, chromedp.ByNodeID).Do(ctx)
	})
	return value, err
}

var _ throttle.Transport = (*Session)(nil)
