package fixture

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpjust/shopcheck/internal/locator"
	"github.com/cpjust/shopcheck/internal/logging"
)

func renderProductPage(t *testing.T) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()
	handler, err := NewProductHandler(EchoFitCompressionShort(), logging.Null())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, ProductPath, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	return w, doc
}

func TestProductHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		expectedStatus int
	}{
		{"successful GET request", http.MethodGet, http.StatusOK},
		{"method not allowed - POST", http.MethodPost, http.StatusMethodNotAllowed},
		{"method not allowed - PUT", http.MethodPut, http.StatusMethodNotAllowed},
		{"method not allowed - DELETE", http.MethodDelete, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, err := NewProductHandler(EchoFitCompressionShort(), logging.Null())
			require.NoError(t, err)

			req := httptest.NewRequest(tt.method, ProductPath, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestProductHandler_IssuesVisitorCookie(t *testing.T) {
	w, _ := renderProductPage(t)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, VisitorCookie, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestProductHandler_KeepsExistingVisitor(t *testing.T) {
	handler, err := NewProductHandler(EchoFitCompressionShort(), logging.Null())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, ProductPath, nil)
	req.AddCookie(&http.Cookie{Name: VisitorCookie, Value: "known"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Empty(t, w.Result().Cookies())
}

func TestProductPage_MatchesBundledLocators(t *testing.T) {
	// GIVEN the rendered page and the catalog written for the live store
	_, doc := renderProductPage(t)
	catalog, err := locator.LoadEmbedded(locator.EchoFitCompressionShort)
	require.NoError(t, err)

	// WHEN every static selector is checked
	matches := locator.Verify(doc, catalog, locator.StaticKeys()...)

	// THEN each one finds the element the scenarios rely on
	for _, m := range matches {
		assert.True(t, m.Found(), "%s (%s) matched nothing", m.Key, m.Selector)
	}

	text := func(k locator.Key) string {
		sel, err := catalog.Resolve(k)
		require.NoError(t, err)
		return strings.TrimSpace(doc.Find(sel).First().Text())
	}
	assert.Equal(t, "Echo Fit Compression Short", text(locator.PageTitle))
	assert.Equal(t, "In stock", text(locator.ProductAvailability))
	assert.Equal(t, "$24.00", text(locator.ProductPrice))
	assert.Equal(t, "", text(locator.PageMiniCartCounter))

	sizes, err := catalog.Resolve(locator.ProductSizes)
	require.NoError(t, err)
	assert.Equal(t, 5, doc.Find(sizes).Length())
	assert.Equal(t, "28", strings.TrimSpace(doc.Find(sizes).First().Text()))

	colors, err := catalog.Resolve(locator.ProductColors)
	require.NoError(t, err)
	label, ok := doc.Find(colors).First().Attr("option-label")
	assert.True(t, ok)
	assert.Equal(t, "Black", label)
}

func TestProductPage_DynamicElementsAbsentInitially(t *testing.T) {
	_, doc := renderProductPage(t)
	catalog, err := locator.LoadEmbedded(locator.EchoFitCompressionShort)
	require.NoError(t, err)

	matches := locator.Verify(doc, catalog,
		locator.PageSuccessMessage,
		locator.ProductSizeValidationError,
		locator.ProductColorValidationError,
	)

	for _, m := range matches {
		require.NoError(t, m.Err)
		assert.Zero(t, m.Count, "%s should only appear after add-to-cart", m.Key)
	}
}
