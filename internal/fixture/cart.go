package fixture

import (
	"encoding/json"
	"net/http"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// VisitorCookie identifies a browser to the cart store.
const VisitorCookie = "shopcheck_visitor"

// Cart keeps item counts per visitor.
type Cart struct {
	mu    sync.Mutex
	items map[string]int
}

// NewCart returns an empty cart store.
func NewCart() *Cart {
	return &Cart{items: make(map[string]int)}
}

// Add adds qty items for visitor and returns the visitor's new total.
func (c *Cart) Add(visitor string, qty int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[visitor] += qty
	return c.items[visitor]
}

// Count returns the visitor's item count.
func (c *Cart) Count(visitor string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items[visitor]
}

// AddRequest is the body of POST /cart/add.
type AddRequest struct {
	SKU   string `json:"sku"`
	Size  string `json:"size"`
	Color string `json:"color"`
	Qty   int    `json:"qty"`
}

// AddResponse is returned when the item was added.
type AddResponse struct {
	Qty     int    `json:"qty"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// CartHandler handles add-to-cart requests.
type CartHandler struct {
	cart    *Cart
	product Product
	log     logrus.FieldLogger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cart *Cart, product Product, log logrus.FieldLogger) *CartHandler {
	return &CartHandler{cart: cart, product: product, log: log}
}

// ServeHTTP handles POST /cart/add.
func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Qty <= 0 {
		req.Qty = 1
	}

	if fields := h.validate(req); len(fields) > 0 {
		sendError(w, http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Fields: fields})
		return
	}

	visitor := visitorID(w, r)
	total := h.cart.Add(visitor, req.Qty)
	h.log.WithFields(logrus.Fields{
		"visitor": visitor,
		"size":    req.Size,
		"color":   req.Color,
		"qty":     total,
	}).Info("Item added to cart")

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(AddResponse{
		Qty:     total,
		Message: "You added " + h.product.Name + " to your shopping cart.",
	}); err != nil {
		h.log.WithError(err).Error("Failed to encode response")
	}
}

// validate returns a message per invalid field, mirroring the page's own
// required-field checks.
func (h *CartHandler) validate(req AddRequest) map[string]string {
	fields := make(map[string]string)
	if req.SKU != h.product.SKU {
		fields["sku"] = "Unknown product."
	}
	if req.Size == "" {
		fields["size"] = "This is a required field."
	} else if !slices.Contains(h.product.Sizes, req.Size) {
		fields["size"] = "Please select a valid size."
	}
	if req.Color == "" {
		fields["color"] = "This is a required field."
	} else if !slices.Contains(h.product.Colors, req.Color) {
		fields["color"] = "Please select a valid color."
	}
	return fields
}

// visitorID returns the visitor cookie value, issuing a new one if needed.
func visitorID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(VisitorCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func sendError(w http.ResponseWriter, status int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
