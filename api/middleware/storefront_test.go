package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/vendemais/vendemais-backend/internal/storefront"
	"github.com/vendemais/vendemais-backend/pkg/db/models"
	pkgerrors "github.com/vendemais/vendemais-backend/pkg/errors"
	"github.com/vendemais/vendemais-backend/pkg/types"
)

type stubResolver struct {
	store    *models.Store
	status   storefront.DomainStatus
	err      error
	lastHost string
	lastSlug string
}

func (s *stubResolver) ResolveHost(_ context.Context, host string) (*models.Store, error) {
	s.lastHost = host
	return s.store, s.err
}

func (s *stubResolver) ResolveSlug(_ context.Context, slug string) (*models.Store, error) {
	s.lastSlug = slug
	return s.store, s.err
}

func (s *stubResolver) DomainStatus(_ *models.Store) storefront.DomainStatus {
	return s.status
}

func renderableStore() *models.Store {
	return &models.Store{ID: uuid.New(), Name: "Loja da Ana", Slug: "loja-da-ana"}
}

func TestTenantResolvesBySlugHeader(t *testing.T) {
	resolver := &stubResolver{store: renderableStore(), status: storefront.DomainStatus{CanRender: true}}

	var seen *models.Store
	handler := Tenant(resolver, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = TenantFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/storefront", nil)
	req.Header.Set("X-Store-Slug", "loja-da-ana")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resolver.lastSlug != "loja-da-ana" {
		t.Fatalf("expected slug resolution, got slug=%q host=%q", resolver.lastSlug, resolver.lastHost)
	}
	if seen == nil || seen.ID != resolver.store.ID {
		t.Fatal("store missing from request context")
	}
}

func TestTenantFallsBackToHost(t *testing.T) {
	resolver := &stubResolver{store: renderableStore(), status: storefront.DomainStatus{CanRender: true}}

	handler := Tenant(resolver, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/storefront", nil)
	req.Host = "loja-da-ana.vendemais.app"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resolver.lastHost != "loja-da-ana.vendemais.app" {
		t.Fatalf("expected host resolution, got %q", resolver.lastHost)
	}
}

func TestTenantPropagatesResolverError(t *testing.T) {
	resolver := &stubResolver{err: pkgerrors.New(pkgerrors.CodeNotFound, "loja não encontrada")}

	handler := Tenant(resolver, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/storefront", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestTenantBlocksUnrenderableStore(t *testing.T) {
	resolver := &stubResolver{
		store: renderableStore(),
		status: storefront.DomainStatus{
			CanRender: false,
			Errors:    []string{"domínio personalizado não verificado"},
			Warnings:  []string{"subdomínio desativado"},
		},
	}

	handler := Tenant(resolver, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/storefront", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeStoreBlocked) {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
	if envelope.Error.Message != "domínio personalizado não verificado" {
		t.Fatalf("unexpected message %s", envelope.Error.Message)
	}
	if envelope.Error.Details == nil {
		t.Fatal("expected render diagnostics in details")
	}
}

func TestSessionPassesThroughWithoutHeader(t *testing.T) {
	var seen string
	handler := Session(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/storefront/cart", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen != "" {
		t.Fatalf("expected empty session id, got %q", seen)
	}
}

func TestSessionExtractsHeader(t *testing.T) {
	var seen string
	handler := Session(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/storefront/cart", nil)
	req.Header.Set("X-Session-Id", "sess-abc123")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "sess-abc123" {
		t.Fatalf("expected session id in context, got %q", seen)
	}
}

func TestSessionRejectsOversizedID(t *testing.T) {
	handler := Session(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/storefront/cart", nil)
	req.Header.Set("X-Session-Id", strings.Repeat("a", 129))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
