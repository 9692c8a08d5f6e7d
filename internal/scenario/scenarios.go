// Package scenario holds the product page checks and the runner that gives
// each of them its own browser session.
package scenario

import (
	"fmt"

	"github.com/cpjust/shopcheck/internal/locator"
	"github.com/cpjust/shopcheck/internal/page"
)

// Scenario is an ordered, non-branching sequence of page interactions and
// assertions. The runner has already navigated to the product page when
// Steps is called.
type Scenario struct {
	Name  string
	Keys  []locator.Key
	Steps func(p *page.Page) error
}

// Expected values on the Echo Fit Compression Short page.
const (
	ProductName          = "Echo Fit Compression Short"
	ProductAvailability  = "In stock"
	ProductPrice         = "$24.00"
	RequiredFieldError   = "This is a required field."
	AddedToCartMessage   = "You added " + ProductName + " to your shopping cart."
	MiniCartAfterOneItem = "1"
)

// CheckProductInfo verifies the title, availability and price.
var CheckProductInfo = Scenario{
	Name:  "checkProductInfo_verifyTitleAndPrice",
	Keys:  []locator.Key{locator.PageTitle, locator.ProductAvailability, locator.ProductPrice},
	Steps: checkProductInfo,
}

// RequiredFieldValidation clicks add-to-cart without choosing a size or color.
var RequiredFieldValidation = Scenario{
	Name: "addToCart_verifyRequiredFieldValidationErrors",
	Keys: []locator.Key{
		locator.ProductAddToCartButton,
		locator.ProductSizeValidationError,
		locator.ProductColorValidationError,
	},
	Steps: requiredFieldValidation,
}

// AddToCart picks the first size and color and adds the product to the cart.
var AddToCart = Scenario{
	Name: "addToCart_selectValidOptions_verifyAddedToCart",
	Keys: []locator.Key{
		locator.ProductSizes,
		locator.ProductColors,
		locator.ProductAddToCartButton,
		locator.PageSuccessMessage,
		locator.PageMiniCartCounter,
	},
	Steps: addToCart,
}

// All returns the built-in scenarios in their canonical order.
func All() []Scenario {
	return []Scenario{CheckProductInfo, RequiredFieldValidation, AddToCart}
}

// ByName looks up built-in scenarios by name.
func ByName(names ...string) ([]Scenario, error) {
	index := make(map[string]Scenario)
	for _, s := range All() {
		index[s.Name] = s
	}
	selected := make([]Scenario, 0, len(names))
	for _, name := range names {
		s, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q", name)
		}
		selected = append(selected, s)
	}
	return selected, nil
}

func checkProductInfo(p *page.Page) error {
	title, err := p.Text(locator.PageTitle)
	if err != nil {
		return err
	}
	availability, err := p.Text(locator.ProductAvailability)
	if err != nil {
		return err
	}
	price, err := p.Text(locator.ProductPrice)
	if err != nil {
		return err
	}

	if err := Expect("title", title, ProductName); err != nil {
		return err
	}
	if err := Expect("availability", availability, ProductAvailability); err != nil {
		return err
	}
	return Expect("price", price, ProductPrice)
}

func requiredFieldValidation(p *page.Page) error {
	if err := p.Click(locator.ProductAddToCartButton); err != nil {
		return err
	}
	sizeError, err := p.Text(locator.ProductSizeValidationError)
	if err != nil {
		return err
	}
	colorError, err := p.Text(locator.ProductColorValidationError)
	if err != nil {
		return err
	}

	if err := Expect("size error", sizeError, RequiredFieldError); err != nil {
		return err
	}
	return Expect("color error", colorError, RequiredFieldError)
}

func addToCart(p *page.Page) error {
	sizes, err := p.FindAll(locator.ProductSizes)
	if err != nil {
		return err
	}
	colors, err := p.FindAll(locator.ProductColors)
	if err != nil {
		return err
	}
	if err := sizes.First().Click(); err != nil {
		return err
	}
	if err := colors.First().Click(); err != nil {
		return err
	}
	if err := p.Click(locator.ProductAddToCartButton); err != nil {
		return err
	}

	messages, err := p.FindAll(locator.PageSuccessMessage)
	if err != nil {
		return err
	}
	message, err := messages.First().Text()
	if err != nil {
		return err
	}
	cartItems, err := p.Text(locator.PageMiniCartCounter)
	if err != nil {
		return err
	}

	if err := Expect("success message", message, AddedToCartMessage); err != nil {
		return err
	}
	return Expect("cart size", cartItems, MiniCartAfterOneItem)
}
