// Package catalog provides the domain types for the product catalog and a
// typed HTTP client for the remote catalog API, which owns all persistence
// and validation.
package catalog

import (
	"github.com/shopspring/decimal"
)

// PlaceholderImage is served in place of a missing product image.
const PlaceholderImage = "https://placehold.co/300x200?text=No+Image"

// Product is a catalog entry. Copies held by this process are transient and
// read-mostly; the backend remains the source of truth.
type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	// OriginalPrice is the pre-discount price. Zero means no discount is
	// recorded; it is only meaningful when strictly greater than Price.
	OriginalPrice decimal.Decimal `json:"original_price"`
	Quantity      int             `json:"quantity"`
	Category      string          `json:"category"`
	SubCategory   string          `json:"subcategory"`
	Image         string          `json:"image"`
	Specs         []string        `json:"specs"`
}

// HasDiscount reports whether a discount is active: the original price is
// present and strictly greater than the current price.
func (p Product) HasDiscount() bool {
	return p.OriginalPrice.IsPositive() && p.OriginalPrice.GreaterThan(p.Price)
}

// DiscountPercent returns the rounded discount percentage for p, or 0 when
// no discount is active.
func (p Product) DiscountPercent() int {
	return DiscountPercent(p.Price, p.OriginalPrice)
}

// ImageURL returns the product image URL, falling back to PlaceholderImage
// when none is set.
func (p Product) ImageURL() string {
	if p.Image == "" {
		return PlaceholderImage
	}
	return p.Image
}

// DiscountPercent computes round(100*(original-price)/original) clamped to
// [0, 100]. It returns 0 when original is absent or not greater than price.
func DiscountPercent(price, original decimal.Decimal) int {
	if !original.IsPositive() || original.LessThanOrEqual(price) {
		return 0
	}
	pct := original.Sub(price).
		Div(original).
		Mul(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return int(pct)
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Items      []Product
	Page       int
	TotalPages int
	TotalCount int
}

// Fields holds the writable attributes of a product for create and update
// calls. Prices are sent as decimal strings; Specs is JSON-encoded on the
// wire.
type Fields struct {
	Name        string
	Description string
	Price       decimal.Decimal
	// OriginalPrice is optional; zero omits the field.
	OriginalPrice decimal.Decimal
	Quantity      int
	Category      string
	SubCategory   string
	Specs         []string
	// ImageURL carries forward the previously stored image URL on updates
	// that do not upload a new file, so the backend keeps the field intact.
	ImageURL string
}

// Credentials is the token and role pair returned by a successful login.
type Credentials struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}
