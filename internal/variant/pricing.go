package variant

import (
	"math"

	"storefront/internal/domain"
)

const (
	// PlaceholderImage is shown when neither variant nor product has an image
	PlaceholderImage = "/placeholder.svg?height=600&width=600"

	InStock    = "In Stock"
	OutOfStock = "Out of Stock"

	// almostSoldOutBelow is the exclusive stock threshold for the "almost sold out" badge
	almostSoldOutBelow = 10
)

// EffectivePrice returns the resolved variant's price, else the product's
// final price, else its list price. A zero final price counts as absent.
// The result is never negative.
func EffectivePrice(p domain.Product, v *domain.Variant) float64 {
	price := p.Price
	switch {
	case v != nil:
		price = v.Price
	case p.FinalPrice != nil && *p.FinalPrice > 0:
		price = *p.FinalPrice
	}

	if math.IsNaN(price) || price < 0 {
		return 0
	}
	return price
}

// DiscountPercentage is the rounded percentage the effective price sits
// below the product's list price, in [0,100]. A variant price is measured
// against the product list price too.
func DiscountPercentage(p domain.Product, v *domain.Variant) int {
	base := p.Price
	if math.IsNaN(base) || base <= 0 {
		return 0
	}

	effective := EffectivePrice(p, v)
	if effective >= base {
		return 0
	}

	pct := math.Round((base - effective) / base * 100)
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return int(pct)
}

// EffectiveStock returns the resolved variant's stock, else the product's, else 0
func EffectiveStock(p domain.Product, v *domain.Variant) int {
	if v != nil {
		return v.Stock
	}
	if p.Stock != nil {
		return *p.Stock
	}
	return 0
}

// Availability renders a stock count as the storefront label
func Availability(stock int) string {
	if stock > 0 {
		return InStock
	}
	return OutOfStock
}

// AlmostSoldOut reports a positive stock under the low-stock threshold
func AlmostSoldOut(stock int) bool {
	return stock > 0 && stock < almostSoldOutBelow
}

// EffectiveImage picks the image to display: an explicitly clicked
// thumbnail, then the resolved variant's image, then the product's primary
// image, then the placeholder.
func EffectiveImage(p domain.Product, v *domain.Variant, thumbnail string) string {
	switch {
	case thumbnail != "":
		return thumbnail
	case v != nil && v.Image != "":
		return v.Image
	case p.Image != "":
		return p.Image
	}
	return PlaceholderImage
}
