// Package locator loads the selector catalogs that map element roles on a
// page to CSS selectors.
package locator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/magiconair/properties"
	"github.com/spf13/afero"
)

var (
	// ErrResourceNotFound is returned when a locator resource is missing or unreadable.
	ErrResourceNotFound = errors.New("locator resource not found")
	// ErrMissingLocator is returned when a key is absent from a loaded catalog.
	ErrMissingLocator = errors.New("missing locator")
)

// Catalog is a read-only mapping from Key to selector, loaded from a
// key=selector resource file.
type Catalog struct {
	path      string
	selectors map[Key]string
}

// Load reads the properties resource at path from fsys.
func Load(fsys afero.Fs, path string) (*Catalog, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrResourceNotFound, path, err)
	}

	// Selectors may legitimately contain "${", so expansion stays off.
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	props, err := loader.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse locator resource %s: %w", path, err)
	}

	selectors := make(map[Key]string, props.Len())
	for k, v := range props.Map() {
		selectors[Key(k)] = v
	}

	return &Catalog{path: path, selectors: selectors}, nil
}

// LoadFile reads a locator resource from the local filesystem.
func LoadFile(path string) (*Catalog, error) {
	return Load(afero.NewOsFs(), path)
}

// LoadEmbedded reads one of the locator resources bundled with the binary.
func LoadEmbedded(path string) (*Catalog, error) {
	return Load(Resources(), path)
}

// Resolve returns the selector recorded for key.
func (c *Catalog) Resolve(key Key) (string, error) {
	selector, ok := c.selectors[key]
	if !ok {
		return "", fmt.Errorf("%w: %q in %s", ErrMissingLocator, key, c.path)
	}
	return selector, nil
}

// Require checks that every key is present and reports all absent keys at once.
func (c *Catalog) Require(keys ...Key) error {
	var errs []error
	for _, key := range keys {
		if _, err := c.Resolve(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Keys returns the catalog keys in lexical order.
func (c *Catalog) Keys() []Key {
	keys := make([]Key, 0, len(c.selectors))
	for k := range c.selectors {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.selectors)
}

// Path returns the resource path the catalog was loaded from.
func (c *Catalog) Path() string {
	return c.path
}
