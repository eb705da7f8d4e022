package admin

import (
	"context"
	"time"

	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/internal/service/ride"
	"github.com/shubinsengi1/ubertest/pkg/logger"
	wrap "github.com/shubinsengi1/ubertest/pkg/logger/wrapper"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

type AdminService struct {
	repo AdminRepository
	l    logger.Logger
}

func NewAdminService(repo AdminRepository, l logger.Logger) *AdminService {
	return &AdminService{
		repo: repo,
		l:    l,
	}
}

func (s *AdminService) GetOverview(ctx context.Context) (*models.Overview, error) {
	ctx = wrap.WithAction(ctx, "admin_overview")

	ov, err := s.repo.GetOverview(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return ov, nil
}

// GetActiveRides lists every ride currently in flight, annotated with
// the driver's remaining distance to the destination where a position
// is known.
func (s *AdminService) GetActiveRides(ctx context.Context) ([]models.ActiveRide, error) {
	ctx = wrap.WithAction(ctx, "admin_active_rides")

	rides, err := s.repo.GetActiveRides(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	for i := range rides {
		loc := rides[i].DriverLocation
		if loc == nil || (loc.Latitude == 0 && loc.Longitude == 0) {
			continue
		}
		rides[i].RemainingKm = ride.Distance(*loc, rides[i].Destination)
	}

	return rides, nil
}

func (s *AdminService) ListUsers(ctx context.Context, role string, limit, offset int) ([]*models.User, int, error) {
	ctx = wrap.WithAction(ctx, "admin_list_users")

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	users, total, err := s.repo.ListUsers(ctx, role, limit, offset)
	if err != nil {
		return nil, 0, wrap.Error(ctx, err)
	}
	return users, total, nil
}

// ListRides pages through the full ride log, optionally filtered by
// status.
func (s *AdminService) ListRides(ctx context.Context, status types.RideStatus, limit, offset int) ([]*models.Ride, int, error) {
	ctx = wrap.WithAction(ctx, "admin_list_rides")

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rides, total, err := s.repo.ListRides(ctx, status, limit, offset)
	if err != nil {
		return nil, 0, wrap.Error(ctx, err)
	}
	return rides, total, nil
}

// Analytics aggregates platform activity over the trailing window of
// days, capped at 90 and defaulting to 7.
func (s *AdminService) Analytics(ctx context.Context, days int) (*models.Analytics, error) {
	ctx = wrap.WithAction(ctx, "admin_analytics")

	if days <= 0 || days > 90 {
		days = 7
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	a, err := s.repo.Analytics(ctx, since)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	a.Days = days
	if a.TotalRides > 0 {
		a.CompletionRate = float64(a.CompletedRides) / float64(a.TotalRides)
	}
	return a, nil
}

// ToggleUserStatus flips whether the account can log in and returns
// the updated user. Admin accounts cannot be deactivated.
func (s *AdminService) ToggleUserStatus(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	ctx = wrap.WithAction(ctx, "admin_toggle_user_status")

	u, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if u.Role == types.RoleAdmin {
		return nil, wrap.Error(ctx, types.ErrForbidden)
	}

	if err := s.repo.SetUserActive(ctx, userID, !u.Active); err != nil {
		return nil, wrap.Error(ctx, err)
	}
	u.Active = !u.Active
	return u, nil
}
