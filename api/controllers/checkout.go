package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vendemais/vendemais-backend/api/responses"
	"github.com/vendemais/vendemais-backend/api/validators"
	"github.com/vendemais/vendemais-backend/internal/checkout"
	"github.com/vendemais/vendemais-backend/pkg/db/models"
	"github.com/vendemais/vendemais-backend/pkg/logger"
)

type orderLineView struct {
	ProductID         uuid.UUID  `json:"product_id"`
	VariationID       *uuid.UUID `json:"variation_id,omitempty"`
	ProductName       string     `json:"product_name"`
	VariationName     *string    `json:"variation_name,omitempty"`
	Qty               int        `json:"qty"`
	UnitPriceCents    int        `json:"unit_price_cents"`
	LineSubtotalCents int        `json:"line_subtotal_cents"`
}

type orderView struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Status        string          `json:"status"`
	SubtotalCents int             `json:"subtotal_cents"`
	TotalCents    int             `json:"total_cents"`
	Items         []orderLineView `json:"items"`
	ConfirmedAt   *time.Time      `json:"confirmed_at,omitempty"`
	CanceledAt    *time.Time      `json:"canceled_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func orderViewFrom(order *models.Order) orderView {
	view := orderView{
		ID:            order.ID,
		Code:          order.Code,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		Status:        order.Status.String(),
		SubtotalCents: order.SubtotalCents,
		TotalCents:    order.TotalCents,
		Items:         make([]orderLineView, 0, len(order.Items)),
		ConfirmedAt:   order.ConfirmedAt,
		CanceledAt:    order.CanceledAt,
		CreatedAt:     order.CreatedAt,
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, orderLineView{
			ProductID:         item.ProductID,
			VariationID:       item.VariationID,
			ProductName:       item.ProductName,
			VariationName:     item.VariationName,
			Qty:               item.Qty,
			UnitPriceCents:    item.UnitPriceCents,
			LineSubtotalCents: item.LineSubtotalCents,
		})
	}
	return view
}

// CheckoutSubmit turns the session cart into a pending order with held
// stock and hands back the WhatsApp redirect URL.
func CheckoutSubmit(svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := tenantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sessionID, err := sessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkout.CustomerInfo
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), sessionID, store, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AdminOrderList returns the store's orders, newest first.
func AdminOrderList(svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders, err := svc.ListByStore(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]orderView, 0, len(orders))
		for i := range orders {
			views = append(views, orderViewFrom(&orders[i]))
		}
		responses.WriteSuccess(w, views)
	}
}

// AdminOrderDetail returns one order with its line items.
func AdminOrderDetail(svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := uuidParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), storeID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderViewFrom(order))
	}
}

// AdminOrderConfirm converts held stock into permanent decrements.
func AdminOrderConfirm(svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := uuidParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Confirm(r.Context(), storeID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderViewFrom(order))
	}
}

// AdminOrderCancel releases the order's stock holds.
func AdminOrderCancel(svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := storeIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := uuidParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Cancel(r.Context(), storeID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orderViewFrom(order))
	}
}
