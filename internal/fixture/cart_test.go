package fixture

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpjust/shopcheck/internal/logging"
)

func postAdd(t *testing.T, h http.Handler, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/cart/add", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCartHandler_AddValidOptions(t *testing.T) {
	// GIVEN
	cart := NewCart()
	h := NewCartHandler(cart, EchoFitCompressionShort(), logging.Null())

	// WHEN
	w := postAdd(t, h, `{"sku":"WSH12","size":"28","color":"Black"}`, nil)

	// THEN
	require.Equal(t, http.StatusOK, w.Code)
	var resp AddResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Qty)
	assert.Equal(t, "You added Echo Fit Compression Short to your shopping cart.", resp.Message)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, 1, cart.Count(cookies[0].Value))
}

func TestCartHandler_SameVisitorAccumulates(t *testing.T) {
	cart := NewCart()
	h := NewCartHandler(cart, EchoFitCompressionShort(), logging.Null())
	visitor := &http.Cookie{Name: VisitorCookie, Value: "visitor-1"}

	postAdd(t, h, `{"sku":"WSH12","size":"29","color":"Blue"}`, visitor)
	w := postAdd(t, h, `{"sku":"WSH12","size":"30","color":"Red","qty":2}`, visitor)

	var resp AddResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 3, resp.Qty)
	assert.Equal(t, 0, cart.Count("visitor-2"))
}

func TestCartHandler_Validation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		fields map[string]string
	}{
		{
			name:   "nothing selected",
			body:   `{"sku":"WSH12"}`,
			status: http.StatusUnprocessableEntity,
			fields: map[string]string{"size": "This is a required field.", "color": "This is a required field."},
		},
		{
			name:   "unknown options",
			body:   `{"sku":"WSH12","size":"40","color":"Green"}`,
			status: http.StatusUnprocessableEntity,
			fields: map[string]string{"size": "Please select a valid size.", "color": "Please select a valid color."},
		},
		{
			name:   "unknown product",
			body:   `{"sku":"XXX","size":"28","color":"Black"}`,
			status: http.StatusUnprocessableEntity,
			fields: map[string]string{"sku": "Unknown product."},
		},
		{
			name:   "malformed body",
			body:   `{`,
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCartHandler(NewCart(), EchoFitCompressionShort(), logging.Null())

			w := postAdd(t, h, tt.body, nil)

			require.Equal(t, tt.status, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.fields, resp.Fields)
		})
	}
}

func TestCartHandler_MethodNotAllowed(t *testing.T) {
	h := NewCartHandler(NewCart(), EchoFitCompressionShort(), logging.Null())

	req := httptest.NewRequest(http.MethodGet, "/cart/add", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCart_ConcurrentAdds(t *testing.T) {
	cart := NewCart()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cart.Add("v", 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, cart.Count("v"))
}
