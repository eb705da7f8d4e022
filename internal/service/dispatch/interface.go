package dispatch

import (
	"context"
	"time"

	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

// RideRepo is the dispatch-side view of ride storage. Accept must
// assign the driver with a conditional update so that exactly one of
// any number of concurrent callers wins; losers get
// types.ErrRideNoLongerAvailable.
type RideRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Ride, error)
	Accept(ctx context.Context, rideID, driverID uuid.UUID, eta time.Time, at time.Time) error
	ListRequested(ctx context.Context, near models.Location, radiusKm float64, rideType types.RideType, limit int) ([]*models.Ride, error)

	// FindActiveByDriver returns the driver's in-flight ride, or
	// (nil, nil) when the driver has none.
	FindActiveByDriver(ctx context.Context, driverID uuid.UUID) (*models.Ride, error)

	// DriverStats aggregates the driver's ride counts and today's
	// earnings.
	DriverStats(ctx context.Context, driverID uuid.UUID) (*models.DriverDashboard, error)

	// EarningsSince returns per-day completed-ride buckets for the
	// driver, newest day first.
	EarningsSince(ctx context.Context, driverID uuid.UUID, since time.Time) ([]models.EarningsBucket, error)
}

type DriverRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetAvailability(ctx context.Context, driverID uuid.UUID, available bool) error
	UpdateLocation(ctx context.Context, driverID uuid.UUID, loc models.Location) error
	ListNearby(ctx context.Context, near models.Location, radiusKm float64, limit int) ([]*models.User, error)
}

type EventLogRepo interface {
	Append(ctx context.Context, event models.RideEvent) error
}

type Notifier interface {
	Notify(recipientID uuid.UUID, event string, payload any)
}
