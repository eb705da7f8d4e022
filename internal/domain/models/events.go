package models

import (
	"time"

	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

/* ======================= websocket payloads ======================= */

// Event is the envelope delivered to a connected client.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// RideStatusPayload notifies a party about a ride status change.
type RideStatusPayload struct {
	RideID           uuid.UUID        `json:"ride_id"`
	Status           types.RideStatus `json:"status"`
	DriverID         *uuid.UUID       `json:"driver_id,omitempty"`
	EstimatedArrival *time.Time       `json:"estimated_arrival,omitempty"`
	CancelledBy      types.UserRole   `json:"cancelled_by,omitempty"`
	Reason           string           `json:"reason,omitempty"`
}

// DriverLocationPayload streams the driver's position to the rider of
// an active ride.
type DriverLocationPayload struct {
	RideID   uuid.UUID `json:"ride_id"`
	DriverID uuid.UUID `json:"driver_id"`
	Location Location  `json:"location"`
}

// RideRatedPayload tells a party they were rated, with their updated
// running summary.
type RideRatedPayload struct {
	RideID  uuid.UUID     `json:"ride_id"`
	Score   int           `json:"score"`
	Comment string        `json:"comment,omitempty"`
	Rating  RatingSummary `json:"rating"`
}

/* ======================= rabbitmq messages ======================= */

// RideRequestedMessage is broadcast to available drivers when a new
// ride enters the dispatch pool.
type RideRequestedMessage struct {
	RideID        uuid.UUID `json:"ride_id"`
	RideType      string    `json:"ride_type"`
	Pickup        Location  `json:"pickup"`
	Destination   Location  `json:"destination"`
	DistanceKm    float64   `json:"distance_km"`
	EstimatedFare float64   `json:"estimated_fare"`
	RequestedAt   time.Time `json:"requested_at"`
	CorrelationID string    `json:"correlation_id"`
}

// RideStatusMessage mirrors a status change onto the broker so other
// services can react without polling.
type RideStatusMessage struct {
	RideID        uuid.UUID  `json:"ride_id"`
	Status        string     `json:"status"`
	DriverID      *uuid.UUID `json:"driver_id,omitempty"`
	Timestamp     time.Time  `json:"timestamp"`
	CorrelationID string     `json:"correlation_id"`
}
