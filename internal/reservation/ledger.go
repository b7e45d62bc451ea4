package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendemais/vendemais-backend/pkg/db/models"
	"github.com/vendemais/vendemais-backend/pkg/enums"
	pkgerrors "github.com/vendemais/vendemais-backend/pkg/errors"
)

// Request asks for a hold on one product/variation.
type Request struct {
	StoreID     uuid.UUID
	ProductID   uuid.UUID
	VariationID *uuid.UUID
	OrderID     *uuid.UUID
	Qty         int
}

// Result reports the outcome per request. Reason is set when the hold was
// refused for lack of availability.
type Result struct {
	ReservationID uuid.UUID
	ProductID     uuid.UUID
	VariationID   *uuid.UUID
	Reserved      bool
	Reason        string
}

// counters is the inventory row a reservation debits: the variation's own
// counters when it defines them, otherwise the parent product's.
type counters struct {
	total         int
	reserved      int
	allowNegative bool
	apply         func(tx *gorm.DB, reservedDelta, stockDelta int) error
}

func loadCounters(ctx context.Context, tx *gorm.DB, storeID, productID uuid.UUID, variationID *uuid.UUID) (*counters, error) {
	var product models.Product
	if err := tx.WithContext(ctx).
		First(&product, "id = ? AND store_id = ?", productID, storeID).Error; err != nil {
		return nil, err
	}

	if variationID != nil {
		var variation models.ProductVariation
		err := tx.WithContext(ctx).
			First(&variation, "id = ? AND product_id = ?", *variationID, productID).Error
		if err != nil {
			return nil, err
		}
		if variation.Stock != nil {
			reserved := 0
			if variation.ReservedStock != nil {
				reserved = *variation.ReservedStock
			}
			id := variation.ID
			return &counters{
				total:         *variation.Stock,
				reserved:      reserved,
				allowNegative: product.AllowNegativeStock,
				apply: func(tx *gorm.DB, reservedDelta, stockDelta int) error {
					updates := map[string]any{
						"reserved_stock": gorm.Expr("COALESCE(reserved_stock, 0) + ?", reservedDelta),
					}
					if stockDelta != 0 {
						updates["stock"] = gorm.Expr("stock + ?", stockDelta)
					}
					return tx.Model(&models.ProductVariation{}).Where("id = ?", id).Updates(updates).Error
				},
			}, nil
		}
	}

	id := product.ID
	return &counters{
		total:         product.Stock,
		reserved:      product.ReservedStock,
		allowNegative: product.AllowNegativeStock,
		apply: func(tx *gorm.DB, reservedDelta, stockDelta int) error {
			updates := map[string]any{
				"reserved_stock": gorm.Expr("reserved_stock + ?", reservedDelta),
			}
			if stockDelta != 0 {
				updates["stock"] = gorm.Expr("stock + ?", stockDelta)
			}
			return tx.Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error
		},
	}, nil
}

// Reserve places holds for every request inside the caller's transaction.
// Requests that would exceed availability (and the product does not allow
// negative stock) come back unreserved with a reason instead of failing the
// whole batch.
func Reserve(ctx context.Context, tx *gorm.DB, requests []Request, ttl time.Duration, now time.Time) ([]Result, error) {
	if ttl <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation ttl must be positive")
	}
	for _, req := range requests {
		if req.Qty < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation qty must be at least 1")
		}
	}

	results := make([]Result, 0, len(requests))
	for _, req := range requests {
		c, err := loadCounters(ctx, tx, req.StoreID, req.ProductID, req.VariationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return nil, fmt.Errorf("load inventory: %w", err)
		}

		available := c.total - c.reserved
		if available < 0 {
			available = 0
		}
		if !c.allowNegative && req.Qty > available {
			results = append(results, Result{
				ProductID:   req.ProductID,
				VariationID: req.VariationID,
				Reserved:    false,
				Reason:      fmt.Sprintf("only %d available", available),
			})
			continue
		}

		if err := c.apply(tx, req.Qty, 0); err != nil {
			return nil, fmt.Errorf("increment reserved stock: %w", err)
		}

		hold := models.StockReservation{
			ID:          uuid.New(),
			StoreID:     req.StoreID,
			ProductID:   req.ProductID,
			VariationID: req.VariationID,
			OrderID:     req.OrderID,
			Qty:         req.Qty,
			Status:      enums.ReservationStatusActive,
			ExpiresAt:   now.Add(ttl),
		}
		if err := tx.WithContext(ctx).Create(&hold).Error; err != nil {
			return nil, fmt.Errorf("create reservation: %w", err)
		}

		results = append(results, Result{
			ReservationID: hold.ID,
			ProductID:     req.ProductID,
			VariationID:   req.VariationID,
			Reserved:      true,
		})
	}
	return results, nil
}

// release returns one hold's quantity to availability. The reserved counter
// is floored at zero so repeated releases cannot drive it negative.
func release(ctx context.Context, tx *gorm.DB, hold *models.StockReservation) error {
	c, err := loadCounters(ctx, tx, hold.StoreID, hold.ProductID, hold.VariationID)
	if err != nil {
		return fmt.Errorf("load inventory: %w", err)
	}

	delta := -hold.Qty
	if c.reserved+delta < 0 {
		delta = -c.reserved
	}
	if err := c.apply(tx, delta, 0); err != nil {
		return fmt.Errorf("decrement reserved stock: %w", err)
	}

	return tx.WithContext(ctx).
		Model(&models.StockReservation{}).
		Where("id = ?", hold.ID).
		Update("status", enums.ReservationStatusReleased).Error
}

// ConfirmByOrder converts every active hold on the order into a permanent
// stock decrement. Returns how many holds were confirmed.
func ConfirmByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (int, error) {
	holds, err := activeByOrder(ctx, tx, orderID)
	if err != nil {
		return 0, err
	}
	for i := range holds {
		hold := holds[i]
		c, err := loadCounters(ctx, tx, hold.StoreID, hold.ProductID, hold.VariationID)
		if err != nil {
			return 0, fmt.Errorf("load inventory: %w", err)
		}
		reservedDelta := -hold.Qty
		if c.reserved+reservedDelta < 0 {
			reservedDelta = -c.reserved
		}
		if err := c.apply(tx, reservedDelta, -hold.Qty); err != nil {
			return 0, fmt.Errorf("commit stock decrement: %w", err)
		}
		err = tx.WithContext(ctx).
			Model(&models.StockReservation{}).
			Where("id = ?", hold.ID).
			Update("status", enums.ReservationStatusConfirmed).Error
		if err != nil {
			return 0, err
		}
	}
	return len(holds), nil
}

// ReleaseByOrder returns every active hold on the order to availability.
func ReleaseByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (int, error) {
	holds, err := activeByOrder(ctx, tx, orderID)
	if err != nil {
		return 0, err
	}
	for i := range holds {
		if err := release(ctx, tx, &holds[i]); err != nil {
			return 0, err
		}
	}
	return len(holds), nil
}

func activeByOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) ([]models.StockReservation, error) {
	var holds []models.StockReservation
	err := tx.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID, enums.ReservationStatusActive).
		Find(&holds).Error
	if err != nil {
		return nil, fmt.Errorf("load order reservations: %w", err)
	}
	return holds, nil
}
