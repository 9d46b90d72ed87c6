package domain

// SellerUpdate carries a sparse set of seller fields. Nil pointers mean
// "not supplied" and leave the stored value untouched; an explicit JSON
// null decodes to nil and behaves the same way, so update cannot clear a
// field to empty.
type SellerUpdate struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Website *string `json:"website"`
}

// DimensionsUpdate carries a sparse set of dimension fields.
type DimensionsUpdate struct {
	Length *float64 `json:"length"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
}

// ProductUpdate carries a sparse set of product fields for a partial
// update. Scalar fields replace the stored value wholesale; the nested
// seller and dimensions objects are merged field-by-field.
type ProductUpdate struct {
	Name            *string           `json:"name"`
	Description     *string           `json:"description"`
	Category        *string           `json:"category"`
	Brand           *string           `json:"brand"`
	Price           *float64          `json:"price"`
	Currency        *string           `json:"currency"`
	DiscountPercent *int              `json:"discount_percent"`
	Stock           *int              `json:"stock"`
	IsActive        *bool             `json:"is_active"`
	Rating          *float64          `json:"rating"`
	Tags            []string          `json:"tags"`
	ImageURLs       []string          `json:"image_urls"`
	Seller          *SellerUpdate     `json:"seller"`
	Dimensions      *DimensionsUpdate `json:"dimensions"`
}

// ApplyTo merges the supplied fields into p. Absent fields are skipped,
// nested objects merge shallowly.
func (u ProductUpdate) ApplyTo(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Brand != nil {
		p.Brand = *u.Brand
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Currency != nil {
		p.Currency = *u.Currency
	}
	if u.DiscountPercent != nil {
		p.DiscountPercent = *u.DiscountPercent
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.IsActive != nil {
		p.IsActive = *u.IsActive
	}
	if u.Rating != nil {
		p.Rating = *u.Rating
	}
	if u.Tags != nil {
		p.Tags = u.Tags
	}
	if u.ImageURLs != nil {
		p.ImageURLs = u.ImageURLs
	}
	if u.Seller != nil {
		if u.Seller.Name != nil {
			p.Seller.Name = *u.Seller.Name
		}
		if u.Seller.Email != nil {
			p.Seller.Email = *u.Seller.Email
		}
		if u.Seller.Website != nil {
			p.Seller.Website = *u.Seller.Website
		}
	}
	if u.Dimensions != nil {
		if u.Dimensions.Length != nil {
			p.Dimensions.Length = *u.Dimensions.Length
		}
		if u.Dimensions.Width != nil {
			p.Dimensions.Width = *u.Dimensions.Width
		}
		if u.Dimensions.Height != nil {
			p.Dimensions.Height = *u.Dimensions.Height
		}
	}
}

// Empty reports whether the update supplies no fields at all.
func (u ProductUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Category == nil &&
		u.Brand == nil && u.Price == nil && u.Currency == nil &&
		u.DiscountPercent == nil && u.Stock == nil && u.IsActive == nil &&
		u.Rating == nil && u.Tags == nil && u.ImageURLs == nil &&
		u.Seller == nil && u.Dimensions == nil
}
