package locator

import (
	"github.com/PuerkitoBio/goquery"
)

// Match reports how many elements a catalog selector matched in a document.
type Match struct {
	Key      Key
	Selector string
	Count    int
	Err      error
}

// Found reports whether the selector resolved and matched at least one element.
func (m Match) Found() bool {
	return m.Err == nil && m.Count > 0
}

// Verify runs each key's selector against doc. Keys absent from the catalog are
// reported with ErrMissingLocator rather than skipped.
func Verify(doc *goquery.Document, c *Catalog, keys ...Key) []Match {
	matches := make([]Match, 0, len(keys))
	for _, key := range keys {
		selector, err := c.Resolve(key)
		if err != nil {
			matches = append(matches, Match{Key: key, Err: err})
			continue
		}
		matches = append(matches, Match{
			Key:      key,
			Selector: selector,
			Count:    doc.Find(selector).Length(),
		})
	}
	return matches
}
