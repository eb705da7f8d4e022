package handler

import (
	"context"
	"net/http"

	"github.com/shubinsengi1/ubertest/internal/adapter/http/handler/dto"
	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/internal/service/auth"
	"github.com/shubinsengi1/ubertest/pkg/logger"
	wrap "github.com/shubinsengi1/ubertest/pkg/logger/wrapper"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
	"github.com/shubinsengi1/ubertest/pkg/validator"
)

type AuthService interface {
	Register(ctx context.Context, in auth.RegisterInput) (uuid.UUID, error)
	Login(ctx context.Context, email, password string) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Me(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type Auth struct {
	auth AuthService
	l    logger.Logger
}

func NewAuth(service AuthService, l logger.Logger) *Auth {
	return &Auth{
		auth: service,
		l:    l,
	}
}

// Register godoc
//
//	@Summary		Register a new account
//	@Description	Creates a rider or driver account
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.RegisterRequest	true	"New account"
//	@Success		201		{object}	map[string]any
//	@Failure		409		{object}	map[string]any
//	@Failure		422		{object}	map[string]any
//	@Router			/auth/register [post]
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "register_user")

	req := &dto.RegisterRequest{}
	if err := readJSON(w, r, req); err != nil {
		h.l.Error(ctx, "failed to read request JSON data", err)
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateRegister(v, req)

	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	id, err := h.auth.Register(ctx, req.ToInput())
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to register a new user", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"id": id}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Login godoc
//
//	@Summary		Login
//	@Description	Exchanges credentials for a token pair
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.LoginRequest	true	"Credentials"
//	@Success		200		{object}	map[string]any
//	@Failure		400		{object}	map[string]any
//	@Router			/auth/login [post]
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "login_user")

	req := &dto.LoginRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateLogin(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	tokens, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to login user", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Refresh godoc
//
//	@Summary		Refresh tokens
//	@Description	Rotates a refresh token into a new token pair
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.RefreshTokenRequest	true	"Refresh token"
//	@Success		200		{object}	map[string]any
//	@Failure		401		{object}	map[string]any
//	@Router			/auth/refresh [post]
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "refresh_token")

	req := &dto.RefreshTokenRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateRefreshToken(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	tokens, err := h.auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to refresh token pair", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Profile godoc
//
//	@Summary		Current user profile
//	@Tags			auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	map[string]any
//	@Failure		401	{object}	map[string]any
//	@Router			/auth/me [get]
func (h *Auth) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_profile")

	claims, ok := models.UserFromContext(ctx)
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.auth.Me(ctx, claims.UserID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get profile", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"user": dto.FromUser(user)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
