package page

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpjust/shopcheck/internal/browser"
	"github.com/cpjust/shopcheck/internal/browser/browsertest"
	"github.com/cpjust/shopcheck/internal/locator"
	"github.com/cpjust/shopcheck/internal/logging"
)

func testCatalog(t *testing.T) *locator.Catalog {
	t.Helper()
	fsys := afero.NewMemMapFs()
	content := strings.Join([]string{
		"url=http://shop.test/echo-fit-compression-short.html",
		"product.availability=.stock span",
		"product.price=.price",
		"product.sizes=.swatch-option.size",
		"product.add.to.cart.button=#product-addtocart-button",
	}, "\n")
	require.NoError(t, afero.WriteFile(fsys, "p.properties", []byte(content), 0o644))
	c, err := locator.Load(fsys, "p.properties")
	require.NoError(t, err)
	return c
}

func TestPage_TextIsTrimmed(t *testing.T) {
	// GIVEN a driver whose raw text carries surrounding whitespace
	d := browsertest.NewDriver()
	d.Add(".stock span", &browsertest.Node{Text: "  In stock \n"})
	p := New(d, testCatalog(t), logging.Null())

	// WHEN
	text, err := p.Text(locator.ProductAvailability)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "In stock", text)
	assert.Equal(t, []string{"text .stock span"}, d.Calls)
}

func TestPage_AttributeIsTrimmed(t *testing.T) {
	d := browsertest.NewDriver()
	d.Add(".price", &browsertest.Node{Attrs: map[string]string{"data-price-amount": "\t24 "}})
	p := New(d, testCatalog(t), logging.Null())

	value, err := p.Attribute(locator.ProductPrice, "data-price-amount")

	require.NoError(t, err)
	assert.Equal(t, "24", value)
}

func TestPage_MissingLocatorNeverReachesDriver(t *testing.T) {
	d := browsertest.NewDriver()
	p := New(d, testCatalog(t), logging.Null())

	_, err := p.Text(locator.PageTitle)
	assert.ErrorIs(t, err, locator.ErrMissingLocator)

	_, err = p.Attribute(locator.PageTitle, "class")
	assert.ErrorIs(t, err, locator.ErrMissingLocator)

	assert.ErrorIs(t, p.Click(locator.PageSuccessMessage), locator.ErrMissingLocator)

	elems, err := p.FindAll(locator.ProductColors)
	assert.Nil(t, elems)
	assert.ErrorIs(t, err, locator.ErrMissingLocator)

	assert.Empty(t, d.Calls)
}

func TestPage_ClickWithoutMatchIsElementNotFound(t *testing.T) {
	d := browsertest.NewDriver()
	p := New(d, testCatalog(t), logging.Null())

	err := p.Click(locator.ProductAddToCartButton)

	assert.ErrorIs(t, err, browser.ErrElementNotFound)
}

func TestPage_Click(t *testing.T) {
	clicked := 0
	d := browsertest.NewDriver()
	d.Add("#product-addtocart-button", &browsertest.Node{OnClick: func() { clicked++ }})
	p := New(d, testCatalog(t), logging.Null())

	require.NoError(t, p.Click(locator.ProductAddToCartButton))
	assert.Equal(t, 1, clicked)
}

func TestPage_FindAllIsLazyAndOrdered(t *testing.T) {
	// GIVEN no sizes rendered yet
	d := browsertest.NewDriver()
	p := New(d, testCatalog(t), logging.Null())

	elems, err := p.FindAll(locator.ProductSizes)
	require.NoError(t, err)

	// WHEN the sizes appear after the selection was made
	var clicked []string
	for _, size := range []string{"28", "29", "30"} {
		size := size
		d.Add(".swatch-option.size", &browsertest.Node{
			Text:    " " + size + " ",
			OnClick: func() { clicked = append(clicked, size) },
		})
	}

	// THEN the selection sees them in document order
	n, err := elems.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	first, err := elems.First().Text()
	require.NoError(t, err)
	assert.Equal(t, "28", first)

	require.NoError(t, elems.Nth(2).Click())
	require.NoError(t, elems.First().Click())
	assert.Equal(t, []string{"30", "28"}, clicked)

	_, err = elems.Nth(3).Text()
	assert.ErrorIs(t, err, browser.ErrElementNotFound)
}

func TestPage_Open(t *testing.T) {
	d := browsertest.NewDriver()
	p := New(d, testCatalog(t), logging.Null())

	require.NoError(t, p.Open())
	assert.Equal(t, "http://shop.test/echo-fit-compression-short.html", d.URL)
}
