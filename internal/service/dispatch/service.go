package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/internal/service/ride"
	"github.com/shubinsengi1/ubertest/pkg/logger"
	wrap "github.com/shubinsengi1/ubertest/pkg/logger/wrapper"
	"github.com/shubinsengi1/ubertest/pkg/metrics"
	"github.com/shubinsengi1/ubertest/pkg/trm"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

const (
	defaultRadiusKm = 10.0
	maxListLimit    = 50
)

type DispatchService struct {
	rides    RideRepo
	drivers  DriverRepo
	events   EventLogRepo
	notifier Notifier
	logger   logger.Logger
	trm      trm.TxManager
}

func NewDispatchService(rides RideRepo, drivers DriverRepo, events EventLogRepo, notifier Notifier, logger logger.Logger, trm trm.TxManager) *DispatchService {
	return &DispatchService{
		rides:    rides,
		drivers:  drivers,
		events:   events,
		notifier: notifier,
		logger:   logger,
		trm:      trm,
	}
}

// ListAvailable returns open ride requests near the driver, closest
// first. An empty rideType matches every type.
func (s *DispatchService) ListAvailable(ctx context.Context, driverID uuid.UUID, radiusKm float64, rideType types.RideType, limit int) ([]*models.Ride, error) {
	ctx = wrap.WithAction(ctx, "list_available_rides")

	if rideType != "" && !rideType.Valid() {
		return nil, wrap.Error(ctx, types.ErrUnknownRideType)
	}

	d, err := s.drivers.FindByID(ctx, driverID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if !d.IsDriver() {
		return nil, wrap.Error(ctx, types.ErrForbidden)
	}
	if d.Location == nil {
		return nil, wrap.Error(ctx, types.ErrInvalidLocation)
	}

	if radiusKm <= 0 {
		radiusKm = defaultRadiusKm
	}
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	rides, err := s.rides.ListRequested(ctx, *d.Location, radiusKm, rideType, limit)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return rides, nil
}

// Accept claims a requested ride for a driver. The claim is a single
// conditional update keyed on the requested status, so when several
// drivers race for the same ride exactly one wins and the rest get
// types.ErrRideNoLongerAvailable.
func (s *DispatchService) Accept(ctx context.Context, driverID, rideID uuid.UUID) (*models.Ride, error) {
	ctx = wrap.WithAction(ctx, "accept_ride")
	ctx = wrap.WithRideID(ctx, rideID.String())

	d, err := s.drivers.FindByID(ctx, driverID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if !d.IsDriver() {
		return nil, wrap.Error(ctx, types.ErrForbidden)
	}

	var accepted *models.Ride
	err = s.trm.Do(ctx, func(ctx context.Context) error {
		r, err := s.rides.FindByID(ctx, rideID)
		if err != nil {
			return wrap.Error(ctx, err)
		}

		now := time.Now().UTC()
		eta := estimateArrival(d, r, now)
		if err := s.rides.Accept(ctx, rideID, driverID, eta, now); err != nil {
			return wrap.Error(ctx, err)
		}

		ev := models.RideEvent{
			RideID:    rideID,
			OldStatus: types.StatusRequested,
			NewStatus: types.StatusAccepted,
			ActorID:   driverID,
			ActorRole: types.RoleDriver,
			CreatedAt: now,
		}
		if err := s.events.Append(ctx, ev); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not record ride event: %w", err))
		}

		r.Status = types.StatusAccepted
		r.DriverID = &driverID
		r.EstimatedArrival = &eta
		r.Timeline.AcceptedAt = &now
		r.UpdatedAt = now
		accepted = r
		return nil
	})
	if err != nil {
		metrics.RecordDispatchAccept(false)
		return nil, err
	}

	metrics.RecordDispatchAccept(true)
	metrics.RecordRideStatus(string(types.StatusAccepted))

	s.notifier.Notify(accepted.RiderID, types.EventRideAccepted, models.RideStatusPayload{
		RideID:           accepted.ID,
		Status:           accepted.Status,
		DriverID:         accepted.DriverID,
		EstimatedArrival: accepted.EstimatedArrival,
	})

	return accepted, nil
}

// SetAvailability flips whether the driver receives new ride requests.
func (s *DispatchService) SetAvailability(ctx context.Context, driverID uuid.UUID, available bool) error {
	ctx = wrap.WithAction(ctx, "set_availability")

	d, err := s.drivers.FindByID(ctx, driverID)
	if err != nil {
		return wrap.Error(ctx, err)
	}
	if !d.IsDriver() {
		return wrap.Error(ctx, types.ErrForbidden)
	}
	if err := s.drivers.SetAvailability(ctx, driverID, available); err != nil {
		return wrap.Error(ctx, err)
	}
	return nil
}

// UpdateLocation stores the driver's current position and, when the
// driver has a ride in flight, streams it to the rider.
func (s *DispatchService) UpdateLocation(ctx context.Context, driverID uuid.UUID, loc models.Location) error {
	ctx = wrap.WithAction(ctx, "update_location")

	if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
		return wrap.Error(ctx, types.ErrInvalidLocation)
	}
	d, err := s.drivers.FindByID(ctx, driverID)
	if err != nil {
		return wrap.Error(ctx, err)
	}
	if !d.IsDriver() {
		return wrap.Error(ctx, types.ErrForbidden)
	}
	if err := s.drivers.UpdateLocation(ctx, driverID, loc); err != nil {
		return wrap.Error(ctx, err)
	}

	active, err := s.rides.FindActiveByDriver(ctx, driverID)
	if err != nil {
		s.logger.Warn(ctx, "could not look up active ride for location update", "error", err.Error())
		return nil
	}
	if active != nil {
		s.notifier.Notify(active.RiderID, types.EventDriverLocation, models.DriverLocationPayload{
			RideID:   active.ID,
			DriverID: driverID,
			Location: loc,
		})
	}
	return nil
}

// NearbyDrivers lists available drivers around a point, closest first.
func (s *DispatchService) NearbyDrivers(ctx context.Context, near models.Location, radiusKm float64, limit int) ([]*models.User, error) {
	ctx = wrap.WithAction(ctx, "nearby_drivers")

	if near.Latitude < -90 || near.Latitude > 90 || near.Longitude < -180 || near.Longitude > 180 {
		return nil, wrap.Error(ctx, types.ErrInvalidLocation)
	}
	if radiusKm <= 0 {
		radiusKm = defaultRadiusKm
	}
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	drivers, err := s.drivers.ListNearby(ctx, near, radiusKm, limit)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return drivers, nil
}

// Dashboard builds the driver's daily summary.
func (s *DispatchService) Dashboard(ctx context.Context, driverID uuid.UUID) (*models.DriverDashboard, error) {
	ctx = wrap.WithAction(ctx, "driver_dashboard")

	d, err := s.drivers.FindByID(ctx, driverID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if !d.IsDriver() {
		return nil, wrap.Error(ctx, types.ErrForbidden)
	}

	stats, err := s.rides.DriverStats(ctx, driverID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	stats.Earnings = d.Earnings
	stats.Rating = d.Rating
	stats.Available = d.Available
	return stats, nil
}

// Earnings breaks down the driver's completed-ride earnings over a
// period: "today", "week" (the default) or "month".
func (s *DispatchService) Earnings(ctx context.Context, driverID uuid.UUID, period string) (*models.EarningsReport, error) {
	ctx = wrap.WithAction(ctx, "driver_earnings")

	d, err := s.drivers.FindByID(ctx, driverID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if !d.IsDriver() {
		return nil, wrap.Error(ctx, types.ErrForbidden)
	}

	now := time.Now().UTC()
	var since time.Time
	switch period {
	case "today":
		since = now.Truncate(24 * time.Hour)
	case "week", "":
		period = "week"
		since = now.AddDate(0, 0, -7)
	case "month":
		since = now.AddDate(0, 0, -30)
	default:
		return nil, wrap.Error(ctx, types.ErrUnknownPeriod)
	}

	buckets, err := s.rides.EarningsSince(ctx, driverID, since)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	report := &models.EarningsReport{Period: period, Daily: buckets}
	for _, b := range buckets {
		report.Rides += b.Rides
		report.Amount += b.Amount
	}
	return report, nil
}

// estimateArrival predicts when the driver reaches the pickup. Without
// a known driver position the route duration is used as a fallback.
func estimateArrival(d *models.User, r *models.Ride, from time.Time) time.Time {
	minutes := r.DurationMin
	if d.Location != nil {
		minutes = ride.Duration(ride.Distance(*d.Location, r.Pickup))
	}
	if minutes < 1 {
		minutes = 1
	}
	return from.Add(time.Duration(minutes) * time.Minute)
}
