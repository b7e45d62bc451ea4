package checkout

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendemais/vendemais-backend/internal/cart"
	"github.com/vendemais/vendemais-backend/internal/reservation"
	"github.com/vendemais/vendemais-backend/pkg/db"
	"github.com/vendemais/vendemais-backend/pkg/db/models"
	"github.com/vendemais/vendemais-backend/pkg/enums"
	pkgerrors "github.com/vendemais/vendemais-backend/pkg/errors"
	"github.com/vendemais/vendemais-backend/pkg/logger"
)

// CustomerInfo identifies the buyer on a WhatsApp order.
type CustomerInfo struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

// SubmitResult is returned after an order is persisted and its stock held.
type SubmitResult struct {
	OrderID     uuid.UUID `json:"order_id"`
	Code        string    `json:"code"`
	TotalCents  int       `json:"total_cents"`
	WhatsAppURL string    `json:"whatsapp_url"`
}

// ServiceParams packages the dependencies for the checkout service.
type ServiceParams struct {
	DB             *db.Client
	CartBackend    cart.Backend
	ReservationTTL time.Duration
	Logger         *logger.Logger
}

// Service converts a session cart into a pending order with stock holds and
// hands the buyer off to the store's WhatsApp.
type Service struct {
	db    *db.Client
	carts cart.Backend
	ttl   time.Duration
	logg  *logger.Logger
	now   func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.CartBackend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart backend required")
	}
	if params.ReservationTTL <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "reservation ttl must be positive")
	}
	return &Service{
		db:    params.DB,
		carts: params.CartBackend,
		ttl:   params.ReservationTTL,
		logg:  params.Logger,
		now:   time.Now,
	}, nil
}

const codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

func newOrderCode() (string, error) {
	var b strings.Builder
	b.WriteString("VM-")
	for i := 0; i < 6; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("generate order code: %w", err)
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// Submit creates a pending order from the session cart. Order row, line
// snapshots and stock holds commit in one transaction; the cart is cleared
// only after the commit succeeds.
func (s *Service) Submit(ctx context.Context, sessionID string, store *models.Store, customer CustomerInfo) (SubmitResult, error) {
	if strings.TrimSpace(customer.Name) == "" || strings.TrimSpace(customer.Phone) == "" {
		return SubmitResult{}, pkgerrors.New(pkgerrors.CodeValidation, "nome e telefone são obrigatórios")
	}

	sessionCart, err := cart.NewStore(ctx, store.ID, sessionID, s.carts, s.logg)
	if err != nil {
		return SubmitResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	items := sessionCart.Items()
	if len(items) == 0 {
		return SubmitResult{}, pkgerrors.New(pkgerrors.CodeValidation, "carrinho vazio")
	}

	code, err := newOrderCode()
	if err != nil {
		return SubmitResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "order code")
	}

	totals := sessionCart.Totals()
	order := &models.Order{
		ID:            uuid.New(),
		StoreID:       store.ID,
		Code:          code,
		CustomerName:  strings.TrimSpace(customer.Name),
		CustomerPhone: strings.TrimSpace(customer.Phone),
		Status:        enums.OrderStatusPending,
		SubtotalCents: totals.SubtotalCents,
		TotalCents:    totals.SubtotalCents,
	}

	requests := make([]reservation.Request, 0, len(items))
	for _, item := range items {
		order.Items = append(order.Items, models.OrderLineItem{
			ID:                uuid.New(),
			OrderID:           order.ID,
			ProductID:         item.ProductID,
			VariationID:       item.VariationID,
			ProductName:       item.Name,
			VariationName:     item.VariationName,
			Qty:               item.Qty,
			UnitPriceCents:    item.UnitPriceCents,
			LineSubtotalCents: item.Qty * item.UnitPriceCents,
		})
		requests = append(requests, reservation.Request{
			StoreID:     store.ID,
			ProductID:   item.ProductID,
			VariationID: item.VariationID,
			OrderID:     &order.ID,
			Qty:         item.Qty,
		})
	}

	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(order).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}

		results, err := reservation.Reserve(ctx, tx, requests, s.ttl, s.now())
		if err != nil {
			return err
		}
		var refused []string
		for _, result := range results {
			if !result.Reserved {
				refused = append(refused, fmt.Sprintf("%s: %s", result.ProductID, result.Reason))
			}
		}
		if len(refused) > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "estoque insuficiente para concluir o pedido").
				WithDetails(map[string]any{"unavailable": refused})
		}
		return nil
	})
	if txErr != nil {
		return SubmitResult{}, txErr
	}

	// The order is committed; a stale cart is an inconvenience, not a
	// consistency problem.
	if err := sessionCart.Clear(ctx); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "failed to clear cart after checkout")
	}

	return SubmitResult{
		OrderID:     order.ID,
		Code:        order.Code,
		TotalCents:  order.TotalCents,
		WhatsAppURL: whatsAppURL(store.WhatsAppNumber, order),
	}, nil
}

// Confirm converts the order's stock holds into permanent decrements.
func (s *Service) Confirm(ctx context.Context, storeID, orderID uuid.UUID) (*models.Order, error) {
	return s.transition(ctx, storeID, orderID, enums.OrderStatusConfirmed)
}

// Cancel returns the order's stock holds to availability.
func (s *Service) Cancel(ctx context.Context, storeID, orderID uuid.UUID) (*models.Order, error) {
	return s.transition(ctx, storeID, orderID, enums.OrderStatusCanceled)
}

func (s *Service) transition(ctx context.Context, storeID, orderID uuid.UUID, target enums.OrderStatus) (*models.Order, error) {
	var updated *models.Order
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		var order models.Order
		err := tx.WithContext(ctx).
			Preload("Items").
			First(&order, "id = ? AND store_id = ?", orderID, storeID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "pedido não encontrado")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}
		if order.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("pedido já está %s", order.Status))
		}

		switch target {
		case enums.OrderStatusConfirmed:
			if _, err := reservation.ConfirmByOrder(ctx, tx, order.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "confirm reservations")
			}
			now := s.now()
			order.ConfirmedAt = &now
		case enums.OrderStatusCanceled:
			if _, err := reservation.ReleaseByOrder(ctx, tx, order.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "release reservations")
			}
			now := s.now()
			order.CanceledAt = &now
		default:
			return pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unsupported transition to %s", target))
		}

		order.Status = target
		if err := tx.WithContext(ctx).Omit("Items").Save(&order).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save order")
		}
		updated = &order
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return updated, nil
}

// Get loads one order with its line items, scoped to the store.
func (s *Service) Get(ctx context.Context, storeID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.DB().WithContext(ctx).
		Preload("Items").
		First(&order, "id = ? AND store_id = ?", orderID, storeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pedido não encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return &order, nil
}

// ListByStore returns the store's orders, newest first.
func (s *Service) ListByStore(ctx context.Context, storeID uuid.UUID) ([]models.Order, error) {
	var rows []models.Order
	err := s.db.DB().WithContext(ctx).
		Preload("Items").
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return rows, nil
}

// ExpireStale marks pending orders older than the cutoff as expired and
// returns their stock holds. Used by the background worker; each order is
// handled in its own transaction.
func (s *Service) ExpireStale(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := s.now().Add(-olderThan)

	var ids []uuid.UUID
	err := s.db.DB().WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ? AND created_at <= ?", enums.OrderStatusPending, cutoff).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list stale orders")
	}

	expired := 0
	for _, id := range ids {
		touched := false
		txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
			var order models.Order
			if err := tx.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
				return err
			}
			if order.Status != enums.OrderStatusPending {
				return nil
			}
			touched = true
			if _, err := reservation.ReleaseByOrder(ctx, tx, order.ID); err != nil {
				return err
			}
			return tx.WithContext(ctx).
				Model(&models.Order{}).
				Where("id = ?", order.ID).
				Update("status", enums.OrderStatusExpired).Error
		})
		if txErr != nil {
			if s.logg != nil {
				s.logg.Error(ctx, "failed to expire stale order", txErr)
			}
			continue
		}
		if touched {
			expired++
		}
	}
	return expired, nil
}
