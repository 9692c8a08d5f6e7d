// Package page resolves locator keys through a catalog and delegates the
// resulting selectors to a browser driver.
package page

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cpjust/shopcheck/internal/browser"
	"github.com/cpjust/shopcheck/internal/locator"
)

// Page is the interaction facade used by scenarios.
type Page struct {
	driver  browser.Driver
	catalog *locator.Catalog
	log     logrus.FieldLogger
}

// New returns a facade over d that resolves keys with c.
func New(d browser.Driver, c *locator.Catalog, log logrus.FieldLogger) *Page {
	return &Page{driver: d, catalog: c, log: log}
}

// Open navigates to the page's own URL from the catalog.
func (p *Page) Open() error {
	url, err := p.catalog.Resolve(locator.URL)
	if err != nil {
		return err
	}
	return p.Navigate(url)
}

// Navigate loads url.
func (p *Page) Navigate(url string) error {
	p.log.WithField("url", url).Debug("Navigate")
	return p.driver.Navigate(url)
}

// Text returns the trimmed text content of the element for key.
func (p *Page) Text(key locator.Key) (string, error) {
	selector, err := p.resolve(key, "Text")
	if err != nil {
		return "", err
	}
	text, err := p.driver.Text(selector)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Attribute returns the trimmed value of the named attribute of the element for key.
func (p *Page) Attribute(key locator.Key, name string) (string, error) {
	selector, err := p.resolve(key, "Attribute")
	if err != nil {
		return "", err
	}
	value, err := p.driver.Attribute(selector, name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// Click clicks the element for key. Waiting is left to the driver.
func (p *Page) Click(key locator.Key) error {
	selector, err := p.resolve(key, "Click")
	if err != nil {
		return err
	}
	return p.driver.Click(selector)
}

// FindAll returns every element matching key, in document order.
func (p *Page) FindAll(key locator.Key) (*Elements, error) {
	selector, err := p.resolve(key, "FindAll")
	if err != nil {
		return nil, err
	}
	return &Elements{elems: p.driver.FindAll(selector)}, nil
}

func (p *Page) resolve(key locator.Key, op string) (string, error) {
	selector, err := p.catalog.Resolve(key)
	if err != nil {
		return "", err
	}
	p.log.WithFields(logrus.Fields{"key": key, "selector": selector}).Debug(op)
	return selector, nil
}

// Elements is a lazy selection. Callers usually act on First.
type Elements struct {
	elems browser.Elements
}

// Count queries how many elements currently match.
func (e *Elements) Count() (int, error) {
	return e.elems.Count()
}

// First returns the first match.
func (e *Elements) First() *Element {
	return &Element{elem: e.elems.First()}
}

// Nth returns the match at index i.
func (e *Elements) Nth(i int) *Element {
	return &Element{elem: e.elems.Nth(i)}
}

// Element is one match of a selection, with the same trimming as Page.
type Element struct {
	elem browser.Element
}

// Click clicks the element.
func (e *Element) Click() error {
	return e.elem.Click()
}

// Text returns the trimmed text content.
func (e *Element) Text() (string, error) {
	text, err := e.elem.Text()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Attribute returns the trimmed attribute value.
func (e *Element) Attribute(name string) (string, error) {
	value, err := e.elem.Attribute(name)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}
