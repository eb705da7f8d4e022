package auth

import (
	"context"

	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

type UserRepo interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type RefreshTokenRepo interface {
	Save(ctx context.Context, token *models.RefreshToken) error
	Get(ctx context.Context, id uuid.UUID) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uuid.UUID) error
}

type TokenProvider interface {
	GenerateTokens(ctx context.Context, user *models.User) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Validate(ctx context.Context, token string) (*models.CustomClaims, error)
}
