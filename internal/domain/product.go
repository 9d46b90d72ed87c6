package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Currency is the only currency the catalog trades in.
const Currency = "INR"

// AllowedSellerDomains lists the email domains sellers may register with.
var AllowedSellerDomains = []string{"mistore.in", "hpworld.in"}

// Seller identifies the party offering a product.
type Seller struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Website string    `json:"website"`
}

// Dimensions holds the physical size of a product in centimeters.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Volume returns length x width x height rounded to two decimals.
func (d Dimensions) Volume() float64 {
	return round2(d.Length * d.Width * d.Height)
}

// Product represents a single catalog record as persisted in the data file.
// Derived values (final price, dimension volume) are computed on read and
// never stored.
type Product struct {
	ID              uuid.UUID  `json:"id"`
	SKU             string     `json:"sku"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Category        string     `json:"category"`
	Brand           string     `json:"brand"`
	Price           float64    `json:"price"`
	Currency        string     `json:"currency"`
	DiscountPercent int        `json:"discount_percent"`
	Stock           int        `json:"stock"`
	IsActive        bool       `json:"is_active"`
	Rating          float64    `json:"rating"`
	Tags            []string   `json:"tags,omitempty"`
	ImageURLs       []string   `json:"image_urls,omitempty"`
	Seller          Seller     `json:"seller"`
	Dimensions      Dimensions `json:"dimensions"`
	CreatedAt       time.Time  `json:"created_at"`
}

// FinalPrice returns the price after discount, rounded to two decimals.
func (p Product) FinalPrice() float64 {
	return round2(p.Price * (1 - float64(p.DiscountPercent)/100))
}

// Validate checks the record's invariants. The HTTP boundary validates
// request shapes before the core is reached; this is the defensive check
// the engines run on records they are about to persist.
func (p Product) Validate() error {
	if err := ValidateSKU(p.SKU); err != nil {
		return err
	}
	if p.Price <= 0 {
		return &ValidationError{Field: "price", Reason: "must be greater than zero"}
	}
	if p.Currency != Currency {
		return &ValidationError{Field: "currency", Reason: "must be " + Currency}
	}
	if p.DiscountPercent < 0 || p.DiscountPercent > 90 {
		return &ValidationError{Field: "discount_percent", Reason: "must be between 0 and 90"}
	}
	if p.Stock < 0 {
		return &ValidationError{Field: "stock", Reason: "must not be negative"}
	}
	if p.Rating < 0 || p.Rating > 5 {
		return &ValidationError{Field: "rating", Reason: "must be between 0 and 5"}
	}
	if p.Stock == 0 && p.IsActive {
		return &ValidationError{Field: "is_active", Reason: "must be false when stock is 0"}
	}
	if p.DiscountPercent > 0 && p.Rating == 0 {
		return &ValidationError{Field: "rating", Reason: "discounted product must have a rating"}
	}
	if !SellerDomainAllowed(p.Seller.Email) {
		return &ValidationError{Field: "seller.email", Reason: "email domain not allowed"}
	}
	if p.Dimensions.Length <= 0 || p.Dimensions.Width <= 0 || p.Dimensions.Height <= 0 {
		return &ValidationError{Field: "dimensions", Reason: "length, width and height must be greater than zero"}
	}
	return nil
}

// ValidateSKU enforces the SKU format: at least one hyphen, with the last
// segment being exactly three digits (e.g. "mobile-456").
func ValidateSKU(sku string) error {
	if len(sku) < 6 || len(sku) > 36 {
		return &ValidationError{Field: "sku", Reason: "must be between 6 and 36 characters"}
	}
	if !strings.Contains(sku, "-") {
		return &ValidationError{Field: "sku", Reason: "must contain '-'"}
	}
	parts := strings.Split(sku, "-")
	last := parts[len(parts)-1]
	if len(last) != 3 {
		return &ValidationError{Field: "sku", Reason: "must end with a 3-digit number like -123"}
	}
	for _, r := range last {
		if r < '0' || r > '9' {
			return &ValidationError{Field: "sku", Reason: "must end with a 3-digit number like -123"}
		}
	}
	return nil
}

// SellerDomainAllowed reports whether the email's domain is on the seller
// allow-list. The domain comparison is case-insensitive.
func SellerDomainAllowed(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	for _, allowed := range AllowedSellerDomains {
		if domain == allowed {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
