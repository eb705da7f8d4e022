package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/shubinsengi1/ubertest/internal/adapter/http/handler/dto"
	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/internal/service/ride"
	"github.com/shubinsengi1/ubertest/pkg/logger"
	wrap "github.com/shubinsengi1/ubertest/pkg/logger/wrapper"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
	"github.com/shubinsengi1/ubertest/pkg/validator"
)

type RideService interface {
	Request(ctx context.Context, riderID uuid.UUID, in ride.RequestInput) (*models.Ride, error)
	FindByID(ctx context.Context, actor models.Claims, rideID uuid.UUID) (*models.Ride, error)
	History(ctx context.Context, userID uuid.UUID, status types.RideStatus, limit, offset int) ([]*models.Ride, int, error)
	Advance(ctx context.Context, actor models.Claims, rideID uuid.UUID, target types.RideStatus) (*models.Ride, error)
	Cancel(ctx context.Context, actor models.Claims, rideID uuid.UUID, reason string) (*models.Ride, error)
	Rate(ctx context.Context, actor models.Claims, rideID uuid.UUID, score int, comment string) (*models.Ride, error)
}

type Ride struct {
	rides RideService
	l     logger.Logger
}

func NewRide(service RideService, l logger.Logger) *Ride {
	return &Ride{
		rides: service,
		l:     l,
	}
}

// Create godoc
//
//	@Summary		Request a ride
//	@Description	Creates a ride in status "requested" with a computed fare quote
//	@Tags			rides
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.CreateRideRequest	true	"Pickup, destination and ride type"
//	@Success		201		{object}	map[string]any
//	@Failure		422		{object}	map[string]any
//	@Router			/rides [post]
func (h *Ride) Create(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "create_ride")

	claims, ok := models.UserFromContext(ctx)
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	req := &dto.CreateRideRequest{}
	if err := readJSON(w, r, req); err != nil {
		h.l.Error(ctx, "failed to read request JSON data", err)
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateCreateRide(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	created, err := h.rides.Request(ctx, claims.UserID, req.ToInput())
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to create ride", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"ride": dto.FromRide(created)}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Get godoc
//
//	@Summary	Ride details
//	@Tags		rides
//	@Produce	json
//	@Security	BearerAuth
//	@Param		ride_id	path		string	true	"Ride ID"
//	@Success	200		{object}	map[string]any
//	@Failure	404		{object}	map[string]any
//	@Router		/rides/{ride_id} [get]
func (h *Ride) Get(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_ride")

	claims, ok := models.UserFromContext(ctx)
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	rideID, err := uuid.Parse(r.PathValue("ride_id"))
	if err != nil {
		badRequestResponse(w, "invalid ride id")
		return
	}
	ctx = wrap.WithRideID(ctx, rideID.String())

	found, err := h.rides.FindByID(ctx, claims, rideID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get ride", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"ride": dto.FromRide(found)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// History godoc
//
//	@Summary	Ride history for the current user
//	@Tags		rides
//	@Produce	json
//	@Security	BearerAuth
//	@Param		status	query		string	false	"Filter by status"
//	@Param		limit	query		int		false	"Page size"
//	@Param		offset	query		int		false	"Offset"
//	@Success	200		{object}	map[string]any
//	@Router		/rides [get]
func (h *Ride) History(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "ride_history")

	claims, ok := models.UserFromContext(ctx)
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	status := types.RideStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		badRequestResponse(w, "unknown status filter")
		return
	}
	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	rides, total, err := h.rides.History(ctx, claims.UserID, status, limit, offset)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list ride history", err)
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

// UpdateStatus godoc
//
//	@Summary		Advance ride status
//	@Description	Moves the ride one step forward along its lifecycle
//	@Tags			rides
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			ride_id	path		string					true	"Ride ID"
//	@Param			request	body		dto.UpdateStatusRequest	true	"Target status"
//	@Success		200		{object}	map[string]any
//	@Failure		409		{object}	map[string]any
//	@Router			/rides/{ride_id}/status [patch]
func (h *Ride) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "update_ride_status")

	claims, ok := models.UserFromContext(ctx)
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	rideID, err := uuid.Parse(r.PathValue("ride_id"))
	if err != nil {
		badRequestResponse(w, "invalid ride id")
		return
	}
	ctx = wrap.WithRideID(ctx, rideID.String())

	req := &dto.UpdateStatusRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateUpdateStatus(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	updated, err := h.rides.Advance(ctx, claims, rideID, types.RideStatus(req.Status))
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to update ride status", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"ride": dto.FromRide(updated)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Cancel godoc
//
//	@Summary	Cancel a ride
//	@Tags		rides
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		ride_id	path		string					true	"Ride ID"
//	@Param		request	body		dto.CancelRideRequest	false	"Cancellation reason"
//	@Success	200		{object}	map[string]any
//	@Failure	409		{object}	map[string]any
//	@Router		/rides/{ride_id}/cancel [post]
func (h *Ride) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "cancel_ride")

	claims, ok := models.UserFromContext(ctx)
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	rideID, err := uuid.Parse(r.PathValue("ride_id"))
	if err != nil {
		badRequestResponse(w, "invalid ride id")
		return
	}
	ctx = wrap.WithRideID(ctx, rideID.String())

	req := &dto.CancelRideRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateCancelRide(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	cancelled, err := h.rides.Cancel(ctx, claims, rideID, req.Reason)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to cancel ride", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"ride": dto.FromRide(cancelled)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Rate godoc
//
//	@Summary		Rate a completed ride
//	@Description	Records a 1-5 score from the rider or the driver
//	@Tags			rides
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			ride_id	path		string				true	"Ride ID"
//	@Param			request	body		dto.RateRideRequest	true	"Score and optional comment"
//	@Success		200		{object}	map[string]any
//	@Failure		409		{object}	map[string]any
//	@Router			/rides/{ride_id}/rate [post]
func (h *Ride) Rate(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "rate_ride")

	claims, ok := models.UserFromContext(ctx)
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	rideID, err := uuid.Parse(r.PathValue("ride_id"))
	if err != nil {
		badRequestResponse(w, "invalid ride id")
		return
	}
	ctx = wrap.WithRideID(ctx, rideID.String())

	req := &dto.RateRideRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateRateRide(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	rated, err := h.rides.Rate(ctx, claims, rideID, req.Score, req.Comment)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to rate ride", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"ride": dto.FromRide(rated)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// queryInt reads an integer query parameter, falling back on absence or
// garbage.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
