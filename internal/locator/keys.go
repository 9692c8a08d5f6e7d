package locator

// Key identifies the role of an element on the product page. The string value
// is the property name used in the locator resource files.
type Key string

// Keys for the Echo Fit Compression Short product page.
const (
	URL Key = "url"

	PageTitle           Key = "page.title"
	PageSuccessMessage  Key = "page.success.message"
	PageMiniCartCounter Key = "page.minicart.counter"

	ProductAvailability         Key = "product.availability"
	ProductPrice                Key = "product.price"
	ProductSizes                Key = "product.sizes"
	ProductColors               Key = "product.colors"
	ProductSizeValidationError  Key = "product.size.validation.error"
	ProductColorValidationError Key = "product.color.validation.error"
	ProductAddToCartButton      Key = "product.add.to.cart.button"
)

// StaticKeys are the element keys present in the page markup as served,
// before any script has run.
func StaticKeys() []Key {
	return []Key{
		PageTitle,
		PageMiniCartCounter,
		ProductAvailability,
		ProductPrice,
		ProductSizes,
		ProductColors,
		ProductAddToCartButton,
	}
}

func (k Key) String() string {
	return string(k)
}
