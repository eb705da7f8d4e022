package dto

import (
	"time"

	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/internal/service/ride"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
	"github.com/shubinsengi1/ubertest/pkg/validator"
)

type LocationRequest struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (l LocationRequest) ToModel() models.Location {
	return models.Location{
		Address:   l.Address,
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
	}
}

type CreateRideRequest struct {
	Pickup        LocationRequest `json:"pickup"`
	Destination   LocationRequest `json:"destination"`
	RideType      string          `json:"ride_type"`
	PaymentMethod string          `json:"payment_method"`
}

func (r *CreateRideRequest) ToInput() ride.RequestInput {
	return ride.RequestInput{
		Pickup:        r.Pickup.ToModel(),
		Destination:   r.Destination.ToModel(),
		RideType:      types.RideType(r.RideType),
		PaymentMethod: types.PaymentMethod(r.PaymentMethod),
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type CancelRideRequest struct {
	Reason string `json:"reason"`
}

type RateRideRequest struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

func validateLocation(v *validator.Validator, key string, l LocationRequest) {
	v.Check(l.Latitude >= -90 && l.Latitude <= 90, key, "latitude must be between -90 and 90")
	v.Check(l.Longitude >= -180 && l.Longitude <= 180, key, "longitude must be between -180 and 180")
}

func ValidateCreateRide(v *validator.Validator, req *CreateRideRequest) {
	validateLocation(v, "pickup", req.Pickup)
	validateLocation(v, "destination", req.Destination)

	v.Check(types.RideType(req.RideType).Valid(), "ride_type", "must be economy, comfort, premium or suv")
	if req.PaymentMethod != "" {
		v.Check(types.PaymentMethod(req.PaymentMethod).Valid(), "payment_method", "must be cash, card or paypal")
	}
}

func ValidateUpdateStatus(v *validator.Validator, req *UpdateStatusRequest) {
	v.Check(req.Status != "", "status", "must be provided")
	v.Check(types.RideStatus(req.Status).Valid(), "status", "unknown status")
}

func ValidateCancelRide(v *validator.Validator, req *CancelRideRequest) {
	v.Check(len(req.Reason) <= 500, "reason", "must not be more than 500 bytes long")
}

func ValidateRateRide(v *validator.Validator, req *RateRideRequest) {
	v.Check(req.Score >= 1 && req.Score <= 5, "score", "must be between 1 and 5")
	v.Check(len(req.Comment) <= 1000, "comment", "must not be more than 1000 bytes long")
}

type RideResponse struct {
	ID       uuid.UUID  `json:"id"`
	RiderID  uuid.UUID  `json:"rider_id"`
	DriverID *uuid.UUID `json:"driver_id,omitempty"`

	Status   types.RideStatus `json:"status"`
	RideType types.RideType   `json:"ride_type"`

	Pickup      models.Location `json:"pickup"`
	Destination models.Location `json:"destination"`

	DistanceKm  float64 `json:"distance_km"`
	DurationMin int     `json:"duration_min"`

	Fare    models.Fare    `json:"fare"`
	Payment models.Payment `json:"payment"`

	RiderRating  *models.Rating `json:"rider_rating,omitempty"`
	DriverRating *models.Rating `json:"driver_rating,omitempty"`

	CancelledBy        types.UserRole `json:"cancelled_by,omitempty"`
	CancellationReason string         `json:"cancellation_reason,omitempty"`

	EstimatedArrival *time.Time      `json:"estimated_arrival,omitempty"`
	Timeline         models.Timeline `json:"timeline"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func FromRide(r *models.Ride) RideResponse {
	resp := RideResponse{
		ID:                 r.ID,
		RiderID:            r.RiderID,
		DriverID:           r.DriverID,
		Status:             r.Status,
		RideType:           r.RideType,
		Pickup:             r.Pickup,
		Destination:        r.Destination,
		DistanceKm:         r.DistanceKm,
		DurationMin:        r.DurationMin,
		Fare:               r.Fare,
		Payment:            r.Payment,
		CancelledBy:        r.CancelledBy,
		CancellationReason: r.CancellationReason,
		EstimatedArrival:   r.EstimatedArrival,
		Timeline:           r.Timeline,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
	if r.RiderRating.Score != 0 {
		rating := r.RiderRating
		resp.RiderRating = &rating
	}
	if r.DriverRating.Score != 0 {
		rating := r.DriverRating
		resp.DriverRating = &rating
	}
	return resp
}

func FromRides(rides []*models.Ride) []RideResponse {
	out := make([]RideResponse, 0, len(rides))
	for _, r := range rides {
		out = append(out, FromRide(r))
	}
	return out
}
