package products

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/vendemais/vendemais-backend/internal/cart"
	"github.com/vendemais/vendemais-backend/internal/stock"
	"github.com/vendemais/vendemais-backend/pkg/db"
	"github.com/vendemais/vendemais-backend/pkg/db/models"
	pkgerrors "github.com/vendemais/vendemais-backend/pkg/errors"
	"github.com/vendemais/vendemais-backend/pkg/pagination"
)

// Service owns the catalog: admin CRUD, public listing and the snapshot the
// cart uses at add-time.
type Service struct {
	db *db.Client
}

func NewService(client *db.Client) (*Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &Service{db: client}, nil
}

// Create inserts a new product for the store.
func (s *Service) Create(ctx context.Context, storeID uuid.UUID, req CreateRequest) (DetailView, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	threshold := 5
	if req.LowStockThreshold != nil {
		if *req.LowStockThreshold < 0 {
			return DetailView{}, pkgerrors.New(pkgerrors.CodeValidation, "limite de estoque baixo não pode ser negativo")
		}
		threshold = *req.LowStockThreshold
	}

	product := &models.Product{
		ID:                 uuid.New(),
		StoreID:            storeID,
		Name:               req.Name,
		Description:        req.Description,
		PriceCents:         req.PriceCents,
		ImageURLs:          pq.StringArray(req.ImageURLs),
		Active:             active,
		Stock:              req.Stock,
		AllowNegativeStock: req.AllowNegativeStock,
		LowStockThreshold:  threshold,
	}
	for _, v := range req.Variations {
		product.Variations = append(product.Variations, models.ProductVariation{
			ID:              uuid.New(),
			ProductID:       product.ID,
			Name:            v.Name,
			PriceDeltaCents: v.PriceDeltaCents,
			Stock:           v.Stock,
		})
	}

	var created *models.Product
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		created, err = NewRepository(tx).Create(ctx, product)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
		}
		return nil
	})
	if txErr != nil {
		return DetailView{}, txErr
	}
	return detailFrom(created), nil
}

// Update applies partial edits to a product the store owns.
func (s *Service) Update(ctx context.Context, storeID, productID uuid.UUID, req UpdateRequest) (DetailView, error) {
	var updated *models.Product
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		product, err := repo.FindByID(ctx, storeID, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "produto não encontrado")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
		}

		if req.Name != nil {
			product.Name = *req.Name
		}
		if req.Description != nil {
			product.Description = req.Description
		}
		if req.PriceCents != nil {
			product.PriceCents = *req.PriceCents
		}
		if req.ImageURLs != nil {
			product.ImageURLs = pq.StringArray(req.ImageURLs)
		}
		if req.Active != nil {
			product.Active = *req.Active
		}
		if req.Stock != nil {
			product.Stock = *req.Stock
		}
		if req.AllowNegativeStock != nil {
			product.AllowNegativeStock = *req.AllowNegativeStock
		}
		if req.LowStockThreshold != nil {
			if *req.LowStockThreshold < 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "limite de estoque baixo não pode ser negativo")
			}
			product.LowStockThreshold = *req.LowStockThreshold
		}

		if req.Variations != nil {
			variations := make([]models.ProductVariation, 0, len(req.Variations))
			for _, v := range req.Variations {
				variations = append(variations, models.ProductVariation{
					ID:              uuid.New(),
					ProductID:       product.ID,
					Name:            v.Name,
					PriceDeltaCents: v.PriceDeltaCents,
					Stock:           v.Stock,
				})
			}
			if err := repo.ReplaceVariations(ctx, product.ID, variations); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace variations")
			}
			product.Variations = variations
		}

		keep := product.Variations
		product.Variations = nil
		if _, err := repo.Save(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save product")
		}
		product.Variations = keep
		updated = product
		return nil
	})
	if txErr != nil {
		return DetailView{}, txErr
	}
	return detailFrom(updated), nil
}

// Delete removes a product the store owns.
func (s *Service) Delete(ctx context.Context, storeID, productID uuid.UUID) error {
	err := NewRepository(s.db.DB()).Delete(ctx, storeID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "produto não encontrado")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

// ListByStore returns the admin view of the store's full catalog.
func (s *Service) ListByStore(ctx context.Context, storeID uuid.UUID) ([]DetailView, error) {
	rows, err := NewRepository(s.db.DB()).ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	views := make([]DetailView, 0, len(rows))
	for i := range rows {
		views = append(views, detailFrom(&rows[i]))
	}
	return views, nil
}

// ListPublic returns one page of the storefront catalog.
func (s *Service) ListPublic(ctx context.Context, storeID uuid.UUID, params pagination.Params) (ListResult, error) {
	rows, next, err := NewRepository(s.db.DB()).ListActive(ctx, storeID, params)
	if err != nil {
		return ListResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list catalog")
	}
	summaries := make([]SummaryView, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, summaryFrom(&rows[i]))
	}
	return ListResult{Products: summaries, NextCursor: next}, nil
}

// GetPublic returns the storefront detail page for an active product.
func (s *Service) GetPublic(ctx context.Context, storeID, productID uuid.UUID) (DetailView, error) {
	product, err := NewRepository(s.db.DB()).FindByID(ctx, storeID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DetailView{}, pkgerrors.New(pkgerrors.CodeNotFound, "produto não encontrado")
		}
		return DetailView{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !product.Active {
		return DetailView{}, pkgerrors.New(pkgerrors.CodeNotFound, "produto não encontrado")
	}
	return detailFrom(product), nil
}

// FindForSale resolves the sellable snapshot of a product line for the cart.
func (s *Service) FindForSale(ctx context.Context, storeID, productID uuid.UUID, variationID *uuid.UUID) (cart.ProductSnapshot, error) {
	repo := NewRepository(s.db.DB())
	product, err := repo.FindByID(ctx, storeID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cart.ProductSnapshot{}, pkgerrors.New(pkgerrors.CodeNotFound, "produto não encontrado")
		}
		return cart.ProductSnapshot{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !product.Active {
		return cart.ProductSnapshot{}, pkgerrors.New(pkgerrors.CodeNotFound, "produto não encontrado")
	}

	snapshot := cart.ProductSnapshot{
		ProductID:      product.ID,
		Name:           product.Name,
		UnitPriceCents: product.PriceCents,
		Available:      stock.Available(product.Stock, product.ReservedStock),
		AllowNegative:  product.AllowNegativeStock,
	}

	if variationID != nil {
		variation, err := repo.FindVariation(ctx, product.ID, *variationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return cart.ProductSnapshot{}, pkgerrors.New(pkgerrors.CodeNotFound, "variação não encontrada")
			}
			return cart.ProductSnapshot{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load variation")
		}
		snapshot.VariationID = &variation.ID
		snapshot.VariationName = &variation.Name
		snapshot.UnitPriceCents = product.PriceCents + variation.PriceDeltaCents
		if variation.Stock != nil {
			reserved := 0
			if variation.ReservedStock != nil {
				reserved = *variation.ReservedStock
			}
			snapshot.Available = stock.Available(*variation.Stock, reserved)
		}
	}

	return snapshot, nil
}
