package handler

import (
	"context"
	"net/http"

	"github.com/shubinsengi1/ubertest/internal/adapter/http/handler/dto"
	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/pkg/logger"
	wrap "github.com/shubinsengi1/ubertest/pkg/logger/wrapper"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

type AdminService interface {
	GetOverview(ctx context.Context) (*models.Overview, error)
	GetActiveRides(ctx context.Context) ([]models.ActiveRide, error)
	ListUsers(ctx context.Context, role string, limit, offset int) ([]*models.User, int, error)
	ListRides(ctx context.Context, status types.RideStatus, limit, offset int) ([]*models.Ride, int, error)
	Analytics(ctx context.Context, days int) (*models.Analytics, error)
	ToggleUserStatus(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type Admin struct {
	admin AdminService
	l     logger.Logger
}

func NewAdmin(service AdminService, l logger.Logger) *Admin {
	return &Admin{
		admin: service,
		l:     l,
	}
}

// Overview godoc
//
//	@Summary	Platform overview
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	map[string]any
//	@Router		/admin/overview [get]
func (h *Admin) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_overview")

	overview, err := h.admin.GetOverview(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to build overview", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"overview": overview}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// ActiveRides godoc
//
//	@Summary	Rides currently in flight
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	map[string]any
//	@Router		/admin/rides/active [get]
func (h *Admin) ActiveRides(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_active_rides")

	rides, err := h.admin.GetActiveRides(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list active rides", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"rides": rides}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Users godoc
//
//	@Summary	List registered users
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		role	query		string	false	"Filter by role"
//	@Param		limit	query		int		false	"Page size"
//	@Param		offset	query		int		false	"Offset"
//	@Success	200		{object}	map[string]any
//	@Router		/admin/users [get]
func (h *Admin) Users(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_list_users")

	role := r.URL.Query().Get("role")
	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	users, total, err := h.admin.ListUsers(ctx, role, limit, offset)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list users", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"users": dto.FromUsers(users),
		"total": total,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Rides godoc
//
//	@Summary	Full ride log
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		status	query		string	false	"Filter by status"
//	@Param		limit	query		int		false	"Page size"
//	@Param		offset	query		int		false	"Offset"
//	@Success	200		{object}	map[string]any
//	@Router		/admin/rides [get]
func (h *Admin) Rides(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_list_rides")

	status := types.RideStatus(r.URL.Query().Get("status"))
	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	rides, total, err := h.admin.ListRides(ctx, status, limit, offset)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list rides", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"rides": dto.FromRides(rides),
		"total": total,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Analytics godoc
//
//	@Summary	Ride volume and revenue analytics
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		days	query		int	false	"Trailing window in days (default 7, max 90)"
//	@Success	200		{object}	map[string]any
//	@Router		/admin/analytics [get]
func (h *Admin) Analytics(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_analytics")

	analytics, err := h.admin.Analytics(ctx, queryInt(r, "days", 0))
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to build analytics", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"analytics": analytics}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// ToggleUserStatus godoc
//
//	@Summary	Activate or deactivate a user account
//	@Tags		admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		user_id	path		string	true	"User ID"
//	@Success	200		{object}	map[string]any
//	@Failure	404		{object}	map[string]any
//	@Router		/admin/users/{user_id}/status [patch]
func (h *Admin) ToggleUserStatus(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "admin_toggle_user_status")

	userID, err := uuid.Parse(r.PathValue("user_id"))
	if err != nil {
		badRequestResponse(w, "invalid user id")
		return
	}

	user, err := h.admin.ToggleUserStatus(ctx, userID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to toggle user status", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"user": dto.FromUser(user)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
