// Package fixture serves a local replica of the Echo Fit Compression Short
// product page, so the scenarios can run without the public demo store.
package fixture

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templates embed.FS

// ProductPath is where the product page is served.
const ProductPath = "/echo-fit-compression-short.html"

// Product represents the configurable product on the page.
type Product struct {
	Name         string
	SKU          string
	Price        string
	Availability string
	Sizes        []string
	Colors       []string
}

// EchoFitCompressionShort returns the product the scenarios expect.
func EchoFitCompressionShort() Product {
	return Product{
		Name:         "Echo Fit Compression Short",
		SKU:          "WSH12",
		Price:        "$24.00",
		Availability: "In stock",
		Sizes:        []string{"28", "29", "30", "31", "32"},
		Colors:       []string{"Black", "Blue", "Red"},
	}
}

// ProductHandler handles the product page requests.
type ProductHandler struct {
	template *template.Template
	product  Product
	log      logrus.FieldLogger
}

// NewProductHandler creates a new ProductHandler from the embedded template.
func NewProductHandler(product Product, log logrus.FieldLogger) (*ProductHandler, error) {
	tmpl, err := template.ParseFS(templates, "templates/product.html")
	if err != nil {
		return nil, err
	}

	return &ProductHandler{
		template: tmpl,
		product:  product,
		log:      log,
	}, nil
}

// ServeHTTP renders the product page for GET requests.
func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Hand out the visitor cookie up front so the first add-to-cart is
	// attributed to this browser context.
	visitorID(w, r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.template.Execute(w, h.product); err != nil {
		h.log.WithError(err).Error("Failed to render product page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}
