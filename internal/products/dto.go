package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/vendemais/vendemais-backend/internal/stock"
	"github.com/vendemais/vendemais-backend/pkg/db/models"
)

// VariationView is the API shape of a product variation.
type VariationView struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	PriceDeltaCents int             `json:"price_delta_cents"`
	Stock           stock.Indicator `json:"stock"`
}

// DetailView is the API shape of a single product page.
type DetailView struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	PriceCents  int             `json:"price_cents"`
	ImageURLs   []string        `json:"image_urls"`
	Active      bool            `json:"active"`
	Stock       stock.Indicator `json:"stock"`
	Variations  []VariationView `json:"variations,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SummaryView is the API shape of a catalog listing row.
type SummaryView struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	PriceCents int             `json:"price_cents"`
	ImageURL   *string         `json:"image_url,omitempty"`
	Stock      stock.Indicator `json:"stock"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ListResult is one catalog page plus the cursor for the next one.
type ListResult struct {
	Products   []SummaryView `json:"products"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// CreateRequest is the admin payload for a new product.
type CreateRequest struct {
	Name               string   `json:"name" validate:"required"`
	Description        *string  `json:"description,omitempty"`
	PriceCents         int      `json:"price_cents" validate:"gte=0"`
	ImageURLs          []string `json:"image_urls,omitempty"`
	Active             *bool    `json:"active,omitempty"`
	Stock              int      `json:"stock" validate:"gte=0"`
	AllowNegativeStock bool     `json:"allow_negative_stock"`
	LowStockThreshold  *int     `json:"low_stock_threshold,omitempty"`

	Variations []VariationRequest `json:"variations,omitempty" validate:"dive"`
}

// VariationRequest is one variation in a create or update payload.
type VariationRequest struct {
	Name            string `json:"name" validate:"required"`
	PriceDeltaCents int    `json:"price_delta_cents"`
	Stock           *int   `json:"stock,omitempty"`
}

// UpdateRequest carries partial admin edits; nil fields stay untouched.
type UpdateRequest struct {
	Name               *string  `json:"name,omitempty"`
	Description        *string  `json:"description,omitempty"`
	PriceCents         *int     `json:"price_cents,omitempty" validate:"omitempty,gte=0"`
	ImageURLs          []string `json:"image_urls,omitempty"`
	Active             *bool    `json:"active,omitempty"`
	Stock              *int     `json:"stock,omitempty" validate:"omitempty,gte=0"`
	AllowNegativeStock *bool    `json:"allow_negative_stock,omitempty"`
	LowStockThreshold  *int     `json:"low_stock_threshold,omitempty"`

	Variations []VariationRequest `json:"variations,omitempty" validate:"dive"`
}

func detailFrom(product *models.Product) DetailView {
	view := DetailView{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		PriceCents:  product.PriceCents,
		ImageURLs:   product.ImageURLs,
		Active:      product.Active,
		Stock:       indicatorFor(product, nil),
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	for i := range product.Variations {
		variation := &product.Variations[i]
		view.Variations = append(view.Variations, VariationView{
			ID:              variation.ID,
			Name:            variation.Name,
			PriceDeltaCents: variation.PriceDeltaCents,
			Stock:           indicatorFor(product, variation),
		})
	}
	return view
}

func summaryFrom(product *models.Product) SummaryView {
	view := SummaryView{
		ID:         product.ID,
		Name:       product.Name,
		PriceCents: product.PriceCents,
		Stock:      indicatorFor(product, nil),
		CreatedAt:  product.CreatedAt,
	}
	if len(product.ImageURLs) > 0 {
		first := product.ImageURLs[0]
		view.ImageURL = &first
	}
	return view
}

// indicatorFor computes the stock badge. A variation without its own counters
// falls back to the parent product's.
func indicatorFor(product *models.Product, variation *models.ProductVariation) stock.Indicator {
	total := product.Stock
	reserved := product.ReservedStock
	if variation != nil && variation.Stock != nil {
		total = *variation.Stock
		reserved = 0
		if variation.ReservedStock != nil {
			reserved = *variation.ReservedStock
		}
	}
	return stock.Indicate(total, reserved, product.LowStockThreshold, product.AllowNegativeStock)
}
