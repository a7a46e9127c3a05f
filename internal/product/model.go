package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description,omitempty"`
	Price         decimal.Decimal     `json:"price"`
	OriginalPrice decimal.NullDecimal `json:"originalPrice"`
	Stock         int                 `json:"stock"`
	Category      string              `json:"category"`
	Gender        *string             `json:"gender"`
	Sizes         []string            `json:"sizes"`
	Colors        []string            `json:"colors"`
	Tags          []string            `json:"tags"`
	Images        []string            `json:"images"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// Error message
	// example: not found
	Error string `json:"error"`
}

// Page is one page of a catalog listing.
// swagger:model
type Page struct {
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
	Products   []Product `json:"products"`
}

// Input is the admin create/update payload.
// swagger:model ProductInput
type Input struct {
	Name          string           `json:"name"          validate:"required,max=200" example:"Raawr Classic Tee - Beige"`
	Description   string           `json:"description"   validate:"max=5000"`
	Price         decimal.Decimal  `json:"price"         swaggertype:"string" example:"45.00"`
	OriginalPrice *decimal.Decimal `json:"originalPrice" swaggertype:"string" example:"55.00"`
	Stock         int              `json:"stock"         validate:"gte=0" example:"50"`
	Category      string           `json:"category"      validate:"required" example:"Tops"`
	Gender        *string          `json:"gender"        validate:"omitempty,oneof=Men Women Unisex Kids"`
	Sizes         []string         `json:"sizes"         validate:"dive,required"`
	Colors        []string         `json:"colors"        validate:"dive,required"`
	Tags          []string         `json:"tags"          validate:"dive,required"`
	Images        []string         `json:"images"        validate:"dive,url"`
}

func (in Input) apply(p *Product) {
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.OriginalPrice = decimal.NullDecimal{}
	if in.OriginalPrice != nil {
		p.OriginalPrice = decimal.NewNullDecimal(*in.OriginalPrice)
	}
	p.Stock = in.Stock
	p.Category = in.Category
	p.Gender = in.Gender
	p.Sizes = nonNil(in.Sizes)
	p.Colors = nonNil(in.Colors)
	p.Tags = nonNil(in.Tags)
	p.Images = nonNil(in.Images)
}

// UpdateInput is the admin edit payload. Only fields present in the request are applied.
// swagger:model ProductUpdate
type UpdateInput struct {
	Name          *string          `json:"name"          validate:"omitempty,min=1,max=200"`
	Description   *string          `json:"description"   validate:"omitempty,max=5000"`
	Price         *decimal.Decimal `json:"price"         swaggertype:"string" example:"40.00"`
	OriginalPrice *decimal.Decimal `json:"originalPrice" swaggertype:"string"`
	Stock         *int             `json:"stock"         validate:"omitempty,gte=0" example:"7"`
	Category      *string          `json:"category"      validate:"omitempty,min=1"`
	Gender        *string          `json:"gender"        validate:"omitempty,oneof=Men Women Unisex Kids"`
	Sizes         *[]string        `json:"sizes"         validate:"omitempty,dive,required"`
	Colors        *[]string        `json:"colors"        validate:"omitempty,dive,required"`
	Tags          *[]string        `json:"tags"          validate:"omitempty,dive,required"`
	Images        *[]string        `json:"images"        validate:"omitempty,dive,url"`
}

func (in UpdateInput) apply(p *Product) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.OriginalPrice != nil {
		p.OriginalPrice = decimal.NewNullDecimal(*in.OriginalPrice)
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Gender != nil {
		p.Gender = in.Gender
	}
	if in.Sizes != nil {
		p.Sizes = nonNil(*in.Sizes)
	}
	if in.Colors != nil {
		p.Colors = nonNil(*in.Colors)
	}
	if in.Tags != nil {
		p.Tags = nonNil(*in.Tags)
	}
	if in.Images != nil {
		p.Images = nonNil(*in.Images)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
