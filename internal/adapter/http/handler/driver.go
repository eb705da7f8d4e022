package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/shubinsengi1/ubertest/internal/adapter/http/handler/dto"
	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/pkg/logger"
	wrap "github.com/shubinsengi1/ubertest/pkg/logger/wrapper"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
	"github.com/shubinsengi1/ubertest/pkg/validator"
)

type DispatchService interface {
	ListAvailable(ctx context.Context, driverID uuid.UUID, radiusKm float64, rideType types.RideType, limit int) ([]*models.Ride, error)
	Accept(ctx context.Context, driverID, rideID uuid.UUID) (*models.Ride, error)
	SetAvailability(ctx context.Context, driverID uuid.UUID, available bool) error
	UpdateLocation(ctx context.Context, driverID uuid.UUID, loc models.Location) error
	NearbyDrivers(ctx context.Context, near models.Location, radiusKm float64, limit int) ([]*models.User, error)
	Dashboard(ctx context.Context, driverID uuid.UUID) (*models.DriverDashboard, error)
	Earnings(ctx context.Context, driverID uuid.UUID, period string) (*models.EarningsReport, error)
}

type Driver struct {
	dispatch DispatchService
	l        logger.Logger
}

func NewDriver(service DispatchService, l logger.Logger) *Driver {
	return &Driver{
		dispatch: service,
		l:        l,
	}
}

// Available godoc
//
//	@Summary		Nearby ride requests
//	@Description	Lists requested rides around the driver's last known position
//	@Tags			drivers
//	@Produce		json
//	@Security		BearerAuth
//	@Param			radius_km	query		number	false	"Search radius in kilometers"
//	@Param			ride_type	query		string	false	"Only this ride type"
//	@Param			limit		query		int		false	"Max results"
//	@Success		200			{object}	map[string]any
//	@Failure		400			{object}	map[string]any
//	@Router			/drivers/rides [get]
func (h *Driver) Available(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_available_rides")

	claims, ok := models.UserFromContext(ctx)
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	radius := queryFloat(r, "radius_km", 0)
	limit := queryInt(r, "limit", 0)
	rideType := types.RideType(r.URL.Query().Get("ride_type"))
	if rideType != "" && !rideType.Valid() {
		badRequestResponse(w, "unknown ride type filter")
		return
	}

	rides, err := h.dispatch.ListAvailable(ctx, claims.UserID, radius, rideType, limit)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list available rides", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"rides": dto.FromRides(rides)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Accept godoc
//
//	@Summary		Accept a ride request
//	@Description	Claims a requested ride for the driver; the first accept wins
//	@Tags			drivers
//	@Produce		json
//	@Security		BearerAuth
//	@Param			ride_id	path		string	true	"Ride ID"
//	@Success		200		{object}	map[string]any
//	@Failure		409		{object}	map[string]any
//	@Router			/drivers/rides/{ride_id}/accept [post]
func (h *Driver) Accept(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "accept_ride")

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

	accepted, err := h.dispatch.Accept(ctx, claims.UserID, rideID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to accept ride", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"ride": dto.FromRide(accepted)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Availability godoc
//
//	@Summary	Toggle driver availability
//	@Tags		drivers
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		dto.AvailabilityRequest	true	"Availability flag"
//	@Success	200		{object}	map[string]any
//	@Router		/drivers/availability [put]
func (h *Driver) Availability(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "set_availability")

	claims, ok := models.UserFromContext(ctx)
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	req := &dto.AvailabilityRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	if err := h.dispatch.SetAvailability(ctx, claims.UserID, req.Available); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to set availability", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"available": req.Available}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Location godoc
//
//	@Summary	Update driver position
//	@Tags		drivers
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		dto.UpdateLocationRequest	true	"Current coordinates"
//	@Success	200		{object}	map[string]any
//	@Failure	422		{object}	map[string]any
//	@Router		/drivers/location [put]
func (h *Driver) Location(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "update_location")

	claims, ok := models.UserFromContext(ctx)
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	req := &dto.UpdateLocationRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateUpdateLocation(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	loc := models.Location{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
	if err := h.dispatch.UpdateLocation(ctx, claims.UserID, loc); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to update location", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"message": "location updated"}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Nearby godoc
//
//	@Summary		Available drivers around a point
//	@Description	Lists online drivers near the given coordinates, closest first
//	@Tags			drivers
//	@Produce		json
//	@Security		BearerAuth
//	@Param			latitude	query		number	true	"Latitude"
//	@Param			longitude	query		number	true	"Longitude"
//	@Param			radius_km	query		number	false	"Search radius in kilometers"
//	@Success		200			{object}	map[string]any
//	@Failure		400			{object}	map[string]any
//	@Router			/drivers/nearby [get]
func (h *Driver) Nearby(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "nearby_drivers")

	near := models.Location{
		Latitude:  queryFloat(r, "latitude", 0),
		Longitude: queryFloat(r, "longitude", 0),
	}
	radius := queryFloat(r, "radius_km", 0)
	limit := queryInt(r, "limit", 0)

	drivers, err := h.dispatch.NearbyDrivers(ctx, near, radius, limit)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list nearby drivers", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"drivers": dto.FromUsers(drivers)}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Dashboard godoc
//
//	@Summary	Driver daily summary
//	@Tags		drivers
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	map[string]any
//	@Router		/drivers/dashboard [get]
func (h *Driver) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "driver_dashboard")

	claims, ok := models.UserFromContext(ctx)
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	dashboard, err := h.dispatch.Dashboard(ctx, claims.UserID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to build driver dashboard", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"dashboard": dashboard}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

// Earnings godoc
//
//	@Summary		Driver earnings breakdown
//	@Description	Per-day completed-ride earnings over a period
//	@Tags			drivers
//	@Produce		json
//	@Security		BearerAuth
//	@Param			period	query		string	false	"today, week or month (default week)"
//	@Success		200		{object}	map[string]any
//	@Failure		400		{object}	map[string]any
//	@Router			/drivers/earnings [get]
func (h *Driver) Earnings(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "driver_earnings")

	claims, ok := models.UserFromContext(ctx)
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	report, err := h.dispatch.Earnings(ctx, claims.UserID, r.URL.Query().Get("period"))
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to build earnings report", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"earnings": report}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

func queryFloat(r *http.Request, key string, fallback float64) float64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return f
}
