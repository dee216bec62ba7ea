package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JWTClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	UserTier string    `json:"user_tier"` // free, plus
	jwt.RegisteredClaims
}

// TokenRequest exchanges a client API key for a user-scoped session token.
type TokenRequest struct {
	APIKey string    `json:"api_key" validate:"required"`
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UserTier  string    `json:"user_tier"`
}

type RateLimitInfo struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"reset_time"`
}
