package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/vendemais/vendemais-backend/pkg/errors"
	"github.com/vendemais/vendemais-backend/pkg/logger"
)

type productLoader interface {
	FindForSale(ctx context.Context, storeID, productID uuid.UUID, variationID *uuid.UUID) (ProductSnapshot, error)
}

// ProductSnapshot is the catalog data the cart service needs to build a line.
type ProductSnapshot struct {
	ProductID      uuid.UUID
	VariationID    *uuid.UUID
	Name           string
	VariationName  *string
	UnitPriceCents int
	Available      int
	AllowNegative  bool
}

// CartDTO is the API shape of a session cart.
type CartDTO struct {
	Items  []Item `json:"items"`
	Totals Totals `json:"totals"`
}

// Service exposes session cart operations to the HTTP layer. Each call loads
// the session's store, applies one mutation, and returns the updated view.
type Service struct {
	backend  Backend
	products productLoader
	logg     *logger.Logger
}

// NewService builds the cart service.
func NewService(backend Backend, products productLoader, logg *logger.Logger) (*Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("cart backend required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &Service{backend: backend, products: products, logg: logg}, nil
}

func (s *Service) load(ctx context.Context, storeID uuid.UUID, sessionID string) (*Store, error) {
	store, err := NewStore(ctx, storeID, sessionID, s.backend, s.logg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return store, nil
}

func dto(store *Store) CartDTO {
	return CartDTO{Items: store.Items(), Totals: store.Totals()}
}

// Get returns the current cart view.
func (s *Service) Get(ctx context.Context, storeID uuid.UUID, sessionID string) (CartDTO, error) {
	store, err := s.load(ctx, storeID, sessionID)
	if err != nil {
		return CartDTO{}, err
	}
	return dto(store), nil
}

// AddItem resolves the product snapshot, checks availability at add-time, and
// applies the quantity delta.
func (s *Service) AddItem(ctx context.Context, sessionID string, storeID, productID uuid.UUID, variationID *uuid.UUID, qty int) (CartDTO, error) {
	if qty == 0 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be zero")
	}

	snapshot, err := s.products.FindForSale(ctx, storeID, productID, variationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	store, err := s.load(ctx, storeID, sessionID)
	if err != nil {
		return CartDTO{}, err
	}

	// Quantity never exceeds available stock at add-time, unless the product
	// sells on backorder.
	if qty > 0 && !snapshot.AllowNegative {
		current := 0
		lineID := (ItemRef{ProductID: snapshot.ProductID, VariationID: snapshot.VariationID}).LineID()
		for _, item := range store.Items() {
			if item.ID == lineID {
				current = item.Qty
				break
			}
		}
		if current+qty > snapshot.Available {
			return CartDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "quantidade solicitada acima do estoque disponível").
				WithDetails(map[string]any{"available": snapshot.Available})
		}
	}

	ref := ItemRef{
		ProductID:      snapshot.ProductID,
		VariationID:    snapshot.VariationID,
		Name:           snapshot.Name,
		VariationName:  snapshot.VariationName,
		UnitPriceCents: snapshot.UnitPriceCents,
	}
	if err := store.AddItem(ctx, ref, qty); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return dto(store), nil
}

// UpdateQuantity sets an absolute quantity; zero or less removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, storeID uuid.UUID, sessionID, itemID string, qty int) (CartDTO, error) {
	store, err := s.load(ctx, storeID, sessionID)
	if err != nil {
		return CartDTO{}, err
	}
	if err := store.UpdateQuantity(ctx, itemID, qty); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return dto(store), nil
}

// RemoveItem drops a line.
func (s *Service) RemoveItem(ctx context.Context, storeID uuid.UUID, sessionID, itemID string) (CartDTO, error) {
	return s.UpdateQuantity(ctx, storeID, sessionID, itemID, 0)
}

// Clear empties the session cart.
func (s *Service) Clear(ctx context.Context, storeID uuid.UUID, sessionID string) error {
	store, err := s.load(ctx, storeID, sessionID)
	if err != nil {
		return err
	}
	if err := store.Clear(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}
