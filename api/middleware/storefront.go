package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vendemais/vendemais-backend/api/responses"
	"github.com/vendemais/vendemais-backend/internal/storefront"
	"github.com/vendemais/vendemais-backend/pkg/db/models"
	pkgerrors "github.com/vendemais/vendemais-backend/pkg/errors"
	"github.com/vendemais/vendemais-backend/pkg/logger"
)

const (
	storeSlugHeader = "X-Store-Slug"
	sessionIDHeader = "X-Session-Id"

	maxSessionIDLen = 128
)

// TenantResolver resolves the store a storefront request belongs to.
type TenantResolver interface {
	ResolveHost(ctx context.Context, host string) (*models.Store, error)
	ResolveSlug(ctx context.Context, slug string) (*models.Store, error)
	DomainStatus(store *models.Store) storefront.DomainStatus
}

// Tenant maps the request to a store via the X-Store-Slug header or the
// Host it arrived on, and blocks storefronts whose domain configuration
// cannot render.
func Tenant(resolver TenantResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var (
				store *models.Store
				err   error
			)
			if slug := strings.TrimSpace(r.Header.Get(storeSlugHeader)); slug != "" {
				store, err = resolver.ResolveSlug(ctx, slug)
			} else {
				store, err = resolver.ResolveHost(ctx, r.Host)
			}
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}

			status := resolver.DomainStatus(store)
			if !status.CanRender {
				msg := "loja indisponível"
				if len(status.Errors) > 0 {
					msg = status.Errors[0]
				}
				blocked := pkgerrors.New(pkgerrors.CodeStoreBlocked, msg).WithDetails(map[string]any{
					"errors":   status.Errors,
					"warnings": status.Warnings,
				})
				responses.WriteError(ctx, logg, w, blocked)
				return
			}

			ctx = WithTenant(ctx, store)
			if logg != nil {
				ctx = logg.WithStoreID(ctx, store.ID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Session extracts the shopper session id header when present.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(sessionIDHeader))
			if sessionID == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(sessionID) > maxSessionIDLen {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "sessão inválida"))
				return
			}

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
