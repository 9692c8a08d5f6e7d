package scenario

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cpjust/shopcheck/internal/browser/browsertest"
	"github.com/cpjust/shopcheck/internal/locator"
)

// productPage wires a fake session so that it behaves like the product page
// described by catalog: swatches can be selected and add-to-cart either shows
// validation errors or a success message and bumps the mini cart.
func productPage(t *testing.T, catalog *locator.Catalog, price string) func(s *browsertest.Session) {
	t.Helper()
	sel := func(k locator.Key) string {
		s, err := catalog.Resolve(k)
		require.NoError(t, err)
		return s
	}

	return func(s *browsertest.Session) {
		d := s.Driver
		d.Add(sel(locator.PageTitle), &browsertest.Node{Text: "\n  Echo Fit Compression Short  "})
		d.Add(sel(locator.ProductAvailability), &browsertest.Node{Text: " In stock \n"})
		d.Add(sel(locator.ProductPrice), &browsertest.Node{Text: price})
		counter := &browsertest.Node{Text: ""}
		d.Add(sel(locator.PageMiniCartCounter), counter)

		var size, color bool
		for _, v := range []string{"28", "29", "30"} {
			d.Add(sel(locator.ProductSizes), &browsertest.Node{Text: v, OnClick: func() { size = true }})
		}
		for _, v := range []string{"Black", "Blue", "Red"} {
			d.Add(sel(locator.ProductColors), &browsertest.Node{Attrs: map[string]string{"option-label": v}, OnClick: func() { color = true }})
		}

		d.Add(sel(locator.ProductAddToCartButton), &browsertest.Node{OnClick: func() {
			if !size {
				d.Set(sel(locator.ProductSizeValidationError), &browsertest.Node{Text: "This is a required field."})
			}
			if !color {
				d.Set(sel(locator.ProductColorValidationError), &browsertest.Node{Text: "This is a required field."})
			}
			if size && color {
				counter.Text = "1"
				d.Add(sel(locator.PageSuccessMessage), &browsertest.Node{
					Text: "\n You added Echo Fit Compression Short to your shopping cart.\n",
				})
			}
		}})
	}
}

func embeddedCatalog(t *testing.T) *locator.Catalog {
	t.Helper()
	c, err := locator.LoadEmbedded(locator.EchoFitCompressionShort)
	require.NoError(t, err)
	return c
}
