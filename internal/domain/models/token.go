package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

func IsValidTokenType(typ string) bool {
	return typ == TokenTypeAccess || typ == TokenTypeRefresh
}

type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type CustomClaims struct {
	UserID    uuid.UUID
	TokenID   uuid.UUID
	TokenType string
	Email     string
	Role      types.UserRole
	jwt.RegisteredClaims
}
