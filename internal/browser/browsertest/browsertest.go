// Package browsertest provides an in-memory browser driver for tests that
// exercise the page facade and scenario runner without launching Chrome.
package browsertest

import (
	"fmt"

	"github.com/cpjust/shopcheck/internal/browser"
	"github.com/cpjust/shopcheck/internal/throttle"
)

// Node is a fake element.
type Node struct {
	Text    string
	Attrs   map[string]string
	OnClick func()
}

// Driver answers selector queries from a fixed table of nodes.
type Driver struct {
	Nodes       map[string][]*Node
	NavigateErr error
	URL         string
	Calls       []string
}

// NewDriver returns an empty driver.
func NewDriver() *Driver {
	return &Driver{Nodes: make(map[string][]*Node)}
}

// Add registers nodes under selector, appending to any already present.
func (d *Driver) Add(selector string, nodes ...*Node) {
	d.Nodes[selector] = append(d.Nodes[selector], nodes...)
}

// Set replaces the nodes under selector.
func (d *Driver) Set(selector string, nodes ...*Node) {
	d.Nodes[selector] = nodes
}

func (d *Driver) Navigate(url string) error {
	d.Calls = append(d.Calls, "navigate "+url)
	if d.NavigateErr != nil {
		return d.NavigateErr
	}
	d.URL = url
	return nil
}

func (d *Driver) Text(selector string) (string, error) {
	d.Calls = append(d.Calls, "text "+selector)
	return d.FindAll(selector).First().Text()
}

func (d *Driver) Attribute(selector, name string) (string, error) {
	d.Calls = append(d.Calls, "attribute "+selector+" "+name)
	return d.FindAll(selector).First().Attribute(name)
}

func (d *Driver) Click(selector string) error {
	d.Calls = append(d.Calls, "click "+selector)
	return d.FindAll(selector).First().Click()
}

func (d *Driver) FindAll(selector string) browser.Elements {
	return elements{d: d, selector: selector}
}

type elements struct {
	d        *Driver
	selector string
}

func (e elements) Count() (int, error) {
	return len(e.d.Nodes[e.selector]), nil
}

func (e elements) First() browser.Element {
	return e.Nth(0)
}

func (e elements) Nth(i int) browser.Element {
	return element{elements: e, index: i}
}

// element looks its node up on every call, like a real lazy locator.
type element struct {
	elements
	index int
}

func (e element) node() (*Node, error) {
	nodes := e.d.Nodes[e.selector]
	if e.index >= len(nodes) {
		return nil, fmt.Errorf("%w: %s[%d]", browser.ErrElementNotFound, e.selector, e.index)
	}
	return nodes[e.index], nil
}

func (e element) Click() error {
	n, err := e.node()
	if err != nil {
		return err
	}
	if n.OnClick != nil {
		n.OnClick()
	}
	return nil
}

func (e element) Text() (string, error) {
	n, err := e.node()
	if err != nil {
		return "", err
	}
	return n.Text, nil
}

func (e element) Attribute(name string) (string, error) {
	n, err := e.node()
	if err != nil {
		return "", err
	}
	return n.Attrs[name], nil
}

// Session is a fake browser.Session that counts its lifecycle calls.
type Session struct {
	*Driver

	CreateErr error
	Created   int
	Closed    int
	Applied   []throttle.Conditions

	throttle *throttle.Controller
}

func (s *Session) Create() error {
	s.Created++
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.throttle = throttle.NewController(throttle.TransportFunc(func(c throttle.Conditions) error {
		s.Applied = append(s.Applied, c)
		return nil
	}))
	return nil
}

func (s *Session) Navigate(url string) error {
	if s.throttle == nil {
		return browser.ErrSessionNotReady
	}
	return s.Driver.Navigate(url)
}

func (s *Session) Throttle(c throttle.Conditions) error {
	return s.throttle.Apply(c)
}

func (s *Session) Close() error {
	s.Closed++
	s.throttle = nil
	return nil
}

// Launcher hands out fake sessions. Setup, when set, prepares the page of
// every new session.
type Launcher struct {
	Setup    func(s *Session)
	Sessions []*Session
	Started  bool
	Stopped  bool
}

func (l *Launcher) Name() string { return "fake" }

func (l *Launcher) Start() error {
	l.Started = true
	return nil
}

func (l *Launcher) NewSession() browser.Session {
	s := &Session{Driver: NewDriver()}
	if l.Setup != nil {
		l.Setup(s)
	}
	l.Sessions = append(l.Sessions, s)
	return s
}

func (l *Launcher) Stop() error {
	l.Stopped = true
	return nil
}

var (
	_ browser.Driver   = (*Driver)(nil)
	_ browser.Session  = (*Session)(nil)
	_ browser.Launcher = (*Launcher)(nil)
)
