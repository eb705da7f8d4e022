package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/pkg/hasher"
	"github.com/shubinsengi1/ubertest/pkg/logger"
	wrap "github.com/shubinsengi1/ubertest/pkg/logger/wrapper"
	"github.com/shubinsengi1/ubertest/pkg/trm"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

type TokenService struct {
	users      UserRepo
	refresh    RefreshTokenRepo
	trm        trm.TxManager
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	secret     string
	log        logger.Logger
}

func NewTokenService(secret string, users UserRepo, refresh RefreshTokenRepo, trm trm.TxManager, accessTTL, refreshTTL time.Duration, log logger.Logger) *TokenService {
	return &TokenService{
		users:      users,
		refresh:    refresh,
		trm:        trm,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
		secret:     secret,
		log:        log,
	}
}

// GenerateTokens creates an access/refresh pair for the user. The
// refresh token is persisted as a hash so a database leak does not leak
// usable tokens.
func (s *TokenService) GenerateTokens(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	ctx = wrap.WithAction(ctx, "generate_tokens")
	if user == nil {
		return nil, wrap.Error(ctx, errors.New("user is nil"))
	}

	issuedAt := time.Now().UTC()
	accessID := uuid.New()
	refreshID := uuid.New()

	accessExp := issuedAt.Add(s.AccessTTL)
	refreshExp := issuedAt.Add(s.RefreshTTL)

	accessToken, err := s.signClaims(newAccessClaims(user, issuedAt, s.AccessTTL, accessID))
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	refreshToken, err := s.signClaims(newRefreshClaims(user, issuedAt, s.RefreshTTL, refreshID))
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	record := &models.RefreshToken{
		ID:        refreshID,
		UserID:    user.ID,
		TokenHash: hasher.Hash(refreshToken),
		ExpiresAt: refreshExp,
		CreatedAt: issuedAt,
	}
	if err := s.refresh.Save(ctx, record); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to persist refresh token: %w", err))
	}

	return &models.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Refresh rotates the token pair. The presented refresh token is
// revoked whether the rotation succeeds or not, so a stolen token is
// single use at best.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	ctx = wrap.WithAction(ctx, "refresh_token")

	claims, err := s.Validate(ctx, refreshToken)
	if err != nil {
		return nil, wrap.Error(ctx, types.ErrInvalidToken)
	}
	if claims.TokenType != models.TokenTypeRefresh {
		return nil, wrap.Error(ctx, types.ErrInvalidToken)
	}

	var pair *models.TokenPair
	txErr := s.trm.Do(ctx, func(ctx context.Context) error {
		record, err := s.refresh.Get(ctx, claims.TokenID)
		if err != nil {
			return fmt.Errorf("failed to load refresh token record: %w", err)
		}
		if record == nil || record.RevokedAt != nil {
			return types.ErrInvalidToken
		}

		now := time.Now().UTC()
		if now.After(record.ExpiresAt) {
			if err := s.refresh.Revoke(ctx, record.ID); err != nil {
				return fmt.Errorf("failed to revoke expired refresh token: %w", err)
			}
			return types.ErrTokenExpired
		}
		if record.TokenHash != hasher.Hash(refreshToken) {
			if err := s.refresh.Revoke(ctx, record.ID); err != nil {
				return fmt.Errorf("failed to revoke mismatched refresh token: %w", err)
			}
			return types.ErrInvalidToken
		}
		if err := s.refresh.Revoke(ctx, record.ID); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}

		user, err := s.users.FindByID(ctx, claims.UserID)
		if err != nil {
			return fmt.Errorf("failed to load user for refresh token: %w", err)
		}

		pair, err = s.GenerateTokens(ctx, user)
		return err
	})
	if txErr != nil {
		return nil, wrap.Error(ctx, txErr)
	}

	return pair, nil
}

// Validate parses and verifies a JWT, returning its claims.
func (s *TokenService) Validate(ctx context.Context, token string) (*models.CustomClaims, error) {
	ctx = wrap.WithAction(ctx, "validate_token")

	parsed, err := jwt.ParseWithClaims(token, jwt.MapClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, types.ErrInvalidToken
		}
		return []byte(s.secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, wrap.Error(ctx, types.ErrInvalidToken)
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, wrap.Error(ctx, types.ErrInvalidToken)
	}

	typ, _ := mc["typ"].(string)
	if !models.IsValidTokenType(typ) {
		return nil, wrap.Error(ctx, types.ErrInvalidToken)
	}

	userIDStr, _ := mc["user_id"].(string)
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("invalid 'user_id' in token claims"))
	}

	tokenIDStr, _ := mc["jti"].(string)
	tokenID, err := uuid.Parse(tokenIDStr)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("invalid 'jti' in token claims"))
	}

	email, _ := mc["email"].(string)
	role, _ := mc["role"].(string)

	expFloat, ok := mc["exp"].(float64)
	if !ok {
		return nil, wrap.Error(ctx, fmt.Errorf("invalid or missing 'exp' in token claims"))
	}
	expTime := time.Unix(int64(expFloat), 0)
	if time.Now().UTC().After(expTime) {
		return nil, wrap.Error(ctx, types.ErrTokenExpired)
	}

	return &models.CustomClaims{
		UserID:    userID,
		TokenID:   tokenID,
		TokenType: typ,
		Email:     email,
		Role:      types.UserRole(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expTime),
		},
	}, nil
}

func (s *TokenService) signClaims(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func newAccessClaims(user *models.User, issuedAt time.Time, ttl time.Duration, tokenID uuid.UUID) jwt.Claims {
	return jwt.MapClaims{
		"typ":     models.TokenTypeAccess,
		"jti":     tokenID.String(),
		"user_id": user.ID.String(),
		"email":   user.Email,
		"role":    user.Role.String(),
		"iat":     issuedAt.Unix(),
		"exp":     issuedAt.Add(ttl).Unix(),
	}
}

func newRefreshClaims(user *models.User, issuedAt time.Time, ttl time.Duration, tokenID uuid.UUID) jwt.Claims {
	return jwt.MapClaims{
		"typ":     models.TokenTypeRefresh,
		"jti":     tokenID.String(),
		"user_id": user.ID.String(),
		"iat":     issuedAt.Unix(),
		"exp":     issuedAt.Add(ttl).Unix(),
	}
}
