package auth

import (
	"context"
	"strings"
	"time"

	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/pkg/logger"
	wrap "github.com/shubinsengi1/ubertest/pkg/logger/wrapper"
	"github.com/shubinsengi1/ubertest/pkg/passhash"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

type AuthService struct {
	users  UserRepo
	tokens TokenProvider
	log    logger.Logger
}

func NewAuthService(users UserRepo, tokens TokenProvider, log logger.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		log:    log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     types.UserRole
	Vehicle  models.Vehicle
}

// Register creates a rider or driver account. Admin accounts cannot be
// created through the API.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (uuid.UUID, error) {
	ctx = wrap.WithAction(ctx, "register")

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return uuid.Nil, wrap.Error(ctx, types.ErrInvalidCredentials)
	}
	if len(in.Password) < 8 {
		return uuid.Nil, wrap.Error(ctx, types.ErrInvalidCredentials)
	}
	if in.Role != types.RoleRider && in.Role != types.RoleDriver {
		return uuid.Nil, wrap.Error(ctx, types.ErrForbidden)
	}

	if existing, err := s.users.FindByEmail(ctx, email); err == nil && existing != nil {
		return uuid.Nil, wrap.Error(ctx, types.ErrEmailTaken)
	}

	hash, err := passhash.HashPassword(in.Password)
	if err != nil {
		s.log.Error(ctx, "failed to hash password", err)
		return uuid.Nil, wrap.Error(ctx, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         in.Name,
		Phone:        in.Phone,
		Role:         in.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.Role == types.RoleDriver {
		user.Vehicle = in.Vehicle
	}

	if err := s.users.Create(ctx, user); err != nil {
		s.log.Error(ctx, "failed to save user", err)
		return uuid.Nil, wrap.Error(ctx, err)
	}

	return user.ID, nil
}

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	ctx = wrap.WithAction(ctx, "login")

	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil || user == nil {
		return nil, wrap.Error(ctx, types.ErrInvalidCredentials)
	}

	if ok, err := passhash.VerifyPassword(password, user.PasswordHash); err != nil || !ok {
		return nil, wrap.Error(ctx, types.ErrInvalidCredentials)
	}
	if !user.Active {
		return nil, wrap.Error(ctx, types.ErrUserDeactivated)
	}

	pair, err := s.tokens.GenerateTokens(ctx, user)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return pair, nil
}

// Refresh rotates a refresh token into a fresh pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	return s.tokens.Refresh(ctx, refreshToken)
}

// Me returns the profile of the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	ctx = wrap.WithAction(ctx, "me")

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return user, nil
}

// Identify resolves a bearer token into request claims for middleware.
func (s *AuthService) Identify(ctx context.Context, token string) (models.Claims, error) {
	claims, err := s.tokens.Validate(ctx, token)
	if err != nil {
		return models.Claims{}, err
	}
	if claims.TokenType != models.TokenTypeAccess {
		return models.Claims{}, types.ErrInvalidToken
	}
	return models.Claims{UserID: claims.UserID, Role: claims.Role}, nil
}
