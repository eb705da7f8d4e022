package models

import (
	"time"

	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

/* ======================= locations and fares ======================= */

type Location struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Fare is the closed breakdown computed at request time. Time and surge
// components are carried for the wire format but are always zero.
type Fare struct {
	Base     float64 `json:"base"`
	Distance float64 `json:"distance"`
	Time     float64 `json:"time"`
	Surge    float64 `json:"surge"`
	Total    float64 `json:"total"`
}

type Payment struct {
	Method        types.PaymentMethod `json:"method"`
	Status        types.PaymentStatus `json:"status"`
	TransactionID string              `json:"transaction_id,omitempty"`
}

// Rating holds a score a party gave for a completed ride. Zero Score
// means not yet rated.
type Rating struct {
	Score   int    `json:"score,omitempty"`
	Comment string `json:"comment,omitempty"`
}

/* ======================= ride aggregate ======================= */

// Timeline records when each lifecycle edge happened. Pointers stay nil
// until the matching transition occurs.
type Timeline struct {
	RequestedAt *time.Time `json:"requested_at,omitempty"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	ArrivedAt   *time.Time `json:"arrived_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

type Ride struct {
	ID       uuid.UUID
	RiderID  uuid.UUID
	DriverID *uuid.UUID

	Status   types.RideStatus
	RideType types.RideType

	Pickup      Location
	Destination Location

	DistanceKm  float64
	DurationMin int

	Fare    Fare
	Payment Payment

	RiderRating  Rating // rating the rider gave the driver
	DriverRating Rating // rating the driver gave the rider

	CancelledBy        types.UserRole
	CancellationReason string

	EstimatedArrival *time.Time
	Timeline         Timeline
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PartyRole reports the role a user plays on this ride, or false when
// the user is neither side.
func (r *Ride) PartyRole(userID uuid.UUID) (types.UserRole, bool) {
	if r.RiderID == userID {
		return types.RoleRider, true
	}
	if r.DriverID != nil && *r.DriverID == userID {
		return types.RoleDriver, true
	}
	return "", false
}

// RatedBy reports whether the given party already rated this ride.
func (r *Ride) RatedBy(role types.UserRole) bool {
	switch role {
	case types.RoleRider:
		return r.RiderRating.Score != 0
	case types.RoleDriver:
		return r.DriverRating.Score != 0
	default:
		return false
	}
}

/* ======================= audit trail ======================= */

// RideEvent is one row of the append-only per-ride audit log.
type RideEvent struct {
	ID        int64            `json:"id"`
	RideID    uuid.UUID        `json:"ride_id"`
	OldStatus types.RideStatus `json:"old_status"`
	NewStatus types.RideStatus `json:"new_status"`
	ActorID   uuid.UUID        `json:"actor_id"`
	ActorRole types.UserRole   `json:"actor_role"`
	CreatedAt time.Time        `json:"created_at"`
}
