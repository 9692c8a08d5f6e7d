package pwdriver

import (
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"github.com/cpjust/shopcheck/internal/browser"
	"github.com/cpjust/shopcheck/internal/throttle"
)

// Session is one browser context with a single page.
type Session struct {
	browser playwright.Browser
	opts    browser.Options
	log     logrus.FieldLogger

	context  playwright.BrowserContext
	page     playwright.Page
	cdp      playwright.CDPSession
	throttle *throttle.Controller
}

// Create opens a fresh context and page and attaches a DevTools session to it.
func (s *Session) Create() error {
	if s.browser == nil {
		return fmt.Errorf("%w: browser not launched", browser.ErrSessionNotReady)
	}
	if s.page != nil {
		return errors.New("session already created")
	}

	// A nil viewport lets --start-maximized take effect.
	ctx, err := s.browser.NewContext(playwright.BrowserNewContextOptions{
		NoViewport: playwright.Bool(s.opts.StartMaximized),
	})
	if err != nil {
		return fmt.Errorf("failed to create browser context: %w", err)
	}
	s.context = ctx

	page, err := ctx.NewPage()
	if err != nil {
		_ = s.Close()
		return fmt.Errorf("failed to open page: %w", err)
	}
	s.page = page

	wait := float64(s.opts.Wait().Milliseconds())
	page.SetDefaultTimeout(wait)
	page.SetDefaultNavigationTimeout(wait)

	cdp, err := ctx.NewCDPSession(page)
	if err != nil {
		_ = s.Close()
		return fmt.Errorf("failed to open devtools session: %w", err)
	}
	s.cdp = cdp
	s.throttle = throttle.NewController(s)

	s.log.Debug("Session created")
	return nil
}

// EmulateNetworkConditions sends the conditions as a raw DevTools command.
// Unset fields are left out of the payload.
func (s *Session) EmulateNetworkConditions(c throttle.Conditions) error {
	if s.cdp == nil {
		return browser.ErrSessionNotReady
	}
	if _, err := s.cdp.Send(throttle.EmulateNetworkConditionsMethod, c.Payload()); err != nil {
		return err
	}
	return nil
}

// Throttle applies network conditions to the page.
func (s *Session) Throttle(c throttle.Conditions) error {
	if err := s.throttle.Apply(c); err != nil {
		return err
	}
	s.log.WithField("conditions", s.throttle.Current().String()).Debug("Network conditions applied")
	return nil
}

// Navigate loads url and waits for the load event.
func (s *Session) Navigate(url string) error {
	if s.page == nil {
		return browser.ErrSessionNotReady
	}
	if _, err := s.page.Goto(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// Text returns the text content of the first match.
func (s *Session) Text(selector string) (string, error) {
	if s.page == nil {
		return "", browser.ErrSessionNotReady
	}
	return s.FindAll(selector).First().Text()
}

// Attribute returns the named attribute of the first match.
func (s *Session) Attribute(selector, name string) (string, error) {
	if s.page == nil {
		return "", browser.ErrSessionNotReady
	}
	return s.FindAll(selector).First().Attribute(name)
}

// Click clicks the first match once it is actionable.
func (s *Session) Click(selector string) error {
	if s.page == nil {
		return browser.ErrSessionNotReady
	}
	return s.FindAll(selector).First().Click()
}

// FindAll returns a lazy selection of every match.
func (s *Session) FindAll(selector string) browser.Elements {
	if s.page == nil {
		return notReady{}
	}
	return elements{selector: selector, loc: s.page.Locator(selector)}
}

// Close detaches the DevTools session and closes the page and context. Each
// resource is closed at most once.
func (s *Session) Close() error {
	var errs []error
	if s.cdp != nil {
		if err := s.cdp.Detach(); err != nil && !errors.Is(err, playwright.ErrTargetClosed) {
			errs = append(errs, err)
		}
		s.cdp = nil
	}
	if s.page != nil {
		errs = append(errs, s.page.Close())
		s.page = nil
	}
	if s.context != nil {
		errs = append(errs, s.context.Close())
		s.context = nil
	}
	s.throttle = nil
	return errors.Join(errs...)
}

type elements struct {
	selector string
	loc      playwright.Locator
}

func (e elements) Count() (int, error) {
	n, err := e.loc.Count()
	return n, mapError(e.selector, err)
}

func (e elements) First() browser.Element {
	return element{selector: e.selector, loc: e.loc.First()}
}

func (e elements) Nth(i int) browser.Element {
	return element{selector: e.selector, loc: e.loc.Nth(i)}
}

type element struct {
	selector string
	loc      playwright.Locator
}

func (e element) Click() error {
	return mapError(e.selector, e.loc.Click())
}

func (e element) Text() (string, error) {
	text, err := e.loc.TextContent()
	return text, mapError(e.selector, err)
}

func (e element) Attribute(name string) (string, error) {
	value, err := e.loc.GetAttribute(name)
	return value, mapError(e.selector, err)
}

// notReady is handed out by FindAll before Create.
type notReady struct{}

func (notReady) Count() (int, error) { return 0, browser.ErrSessionNotReady }

func (notReady) First() browser.Element { return notReady{} }

func (notReady) Nth(int) browser.Element { return notReady{} }

func (notReady) Click() error { return browser.ErrSessionNotReady }

func (notReady) Text() (string, error) { return "", browser.ErrSessionNotReady }

func (notReady) Attribute(string) (string, error) { return "", browser.ErrSessionNotReady }
