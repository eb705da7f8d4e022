package ride

import (
	"context"
	"time"

	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

// RideRepo persists rides. Status-changing methods take the expected
// current status and must apply the change only when the row still
// holds it, reporting types.ErrInvalidTransition otherwise.
type RideRepo interface {
	Create(ctx context.Context, ride *models.Ride) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Ride, error)
	AdvanceStatus(ctx context.Context, id uuid.UUID, from, to types.RideStatus, at time.Time) error
	Cancel(ctx context.Context, id uuid.UUID, from types.RideStatus, by types.UserRole, reason string, at time.Time) error
	SetRating(ctx context.Context, id uuid.UUID, role types.UserRole, rating models.Rating) error
	CompletePayment(ctx context.Context, id uuid.UUID) error
	History(ctx context.Context, userID uuid.UUID, status types.RideStatus, limit, offset int) ([]*models.Ride, int, error)
}

type UserRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ApplyRating(ctx context.Context, userID uuid.UUID, score int) error
	AddEarnings(ctx context.Context, driverID uuid.UUID, amount float64) error
}

type EventLogRepo interface {
	Append(ctx context.Context, event models.RideEvent) error
}

// Notifier delivers an event to a connected user. Delivery is best
// effort: an offline recipient is not an error the caller sees.
type Notifier interface {
	Notify(recipientID uuid.UUID, event string, payload any)
}

// Broker mirrors ride activity onto the message bus.
type Broker interface {
	PublishRideRequested(ctx context.Context, msg models.RideRequestedMessage) error
	PublishRideStatus(ctx context.Context, msg models.RideStatusMessage) error
}
