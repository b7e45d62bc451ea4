package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgauth "github.com/vendemais/vendemais-backend/pkg/auth"
	"github.com/vendemais/vendemais-backend/pkg/config"
	"github.com/vendemais/vendemais-backend/pkg/db"
	"github.com/vendemais/vendemais-backend/pkg/db/models"

	"github.com/vendemais/vendemais-backend/internal/stores"
)

func newStoresService(t *testing.T) *stores.Service {
	t.Helper()
	dsn := "file:auth_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Store{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := stores.NewService(stores.ServiceParams{
		DB:             db.NewFromConn(conn),
		PasswordConfig: config.PasswordConfig{},
		BaseDomain:     "vendemais.app",
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func authJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "vendemais", ExpirationMinutes: 30}
}

const registerBody = `{
	"name": "Loja da Ana",
	"slug": "loja-da-ana",
	"whatsapp_number": "+5511999990000",
	"owner_email": "ana@loja.com.br",
	"password": "senha-forte"
}`

func TestAuthRegisterIssuesToken(t *testing.T) {
	svc := newStoresService(t)
	handler := AuthRegister(svc, authJWTConfig(), newTestLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(registerBody))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data struct {
			Token string `json:"token"`
			Store struct {
				ID   string `json:"id"`
				Slug string `json:"slug"`
			} `json:"store"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Data.Store.Slug != "loja-da-ana" {
		t.Fatalf("unexpected slug %s", envelope.Data.Store.Slug)
	}

	claims, err := pkgauth.ParseAccessToken(authJWTConfig(), envelope.Data.Token)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.StoreID.String() != envelope.Data.Store.ID {
		t.Fatalf("token store %s does not match store %s", claims.StoreID, envelope.Data.Store.ID)
	}
}

func TestAuthRegisterRejectsInvalidBody(t *testing.T) {
	handler := AuthRegister(newStoresService(t), authJWTConfig(), newTestLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"name": "Loja"}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthLoginVerifiesPassword(t *testing.T) {
	svc := newStoresService(t)
	logg := newTestLogger()

	regRec := httptest.NewRecorder()
	AuthRegister(svc, authJWTConfig(), logg)(regRec,
		httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(registerBody)))
	if regRec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", regRec.Code, regRec.Body.String())
	}

	handler := AuthLogin(svc, authJWTConfig(), logg)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email": "ana@loja.com.br", "password": "senha-forte"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email": "ana@loja.com.br", "password": "senha-errada"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", rec.Code)
	}
}
