package admin

import (
	"context"
	"time"

	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

type AdminRepository interface {
	GetOverview(ctx context.Context) (*models.Overview, error)
	GetActiveRides(ctx context.Context) ([]models.ActiveRide, error)
	ListUsers(ctx context.Context, role string, limit, offset int) ([]*models.User, int, error)
	ListRides(ctx context.Context, status types.RideStatus, limit, offset int) ([]*models.Ride, int, error)
	Analytics(ctx context.Context, since time.Time) (*models.Analytics, error)
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetUserActive(ctx context.Context, id uuid.UUID, active bool) error
}
