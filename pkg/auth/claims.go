package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	StoreID uuid.UUID
	Email   string
}

// AccessTokenClaims represents the typed JWT issued to store owners.
type AccessTokenClaims struct {
	StoreID uuid.UUID `json:"store_id"`
	Email   string    `json:"email"`
	jwt.RegisteredClaims
}
