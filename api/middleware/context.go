package middleware

import (
	"context"

	"github.com/vendemais/vendemais-backend/pkg/db/models"
)

type contextKey string

const (
	ctxStoreID   contextKey = "store_id"
	ctxTenant    contextKey = "tenant_store"
	ctxSessionID contextKey = "session_id"
)

// StoreIDFromContext returns the authenticated admin's store id, if any.
func StoreIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxStoreID).(string); ok {
		return v
	}
	return ""
}

// TenantFromContext returns the store resolved for the current storefront request.
func TenantFromContext(ctx context.Context) *models.Store {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxTenant).(*models.Store); ok {
		return v
	}
	return nil
}

// SessionIDFromContext returns the shopper session identifier, if any.
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

// WithStoreID injects the store identifier into the context for downstream handlers.
func WithStoreID(ctx context.Context, storeID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxStoreID, storeID)
}

// WithTenant injects the resolved storefront tenant into the context.
func WithTenant(ctx context.Context, store *models.Store) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxTenant, store)
}

// WithSessionID injects the shopper session identifier into the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSessionID, sessionID)
}
