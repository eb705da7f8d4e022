package ride

import (
	"context"
	"fmt"
	"time"

	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/pkg/logger"
	wrap "github.com/shubinsengi1/ubertest/pkg/logger/wrapper"
	"github.com/shubinsengi1/ubertest/pkg/metrics"
	"github.com/shubinsengi1/ubertest/pkg/trm"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

const maxReasonLen = 500

type RideService struct {
	rides    RideRepo
	users    UserRepo
	events   EventLogRepo
	notifier Notifier
	broker   Broker
	logger   logger.Logger
	trm      trm.TxManager
}

func NewRideService(rides RideRepo, users UserRepo, events EventLogRepo, notifier Notifier, broker Broker, logger logger.Logger, trm trm.TxManager) *RideService {
	return &RideService{
		rides:    rides,
		users:    users,
		events:   events,
		notifier: notifier,
		broker:   broker,
		logger:   logger,
		trm:      trm,
	}
}

type RequestInput struct {
	Pickup        models.Location
	Destination   models.Location
	RideType      types.RideType
	PaymentMethod types.PaymentMethod
}

// Request creates a new ride in the requested state and announces it to
// available drivers. Distance, duration and fare are fixed at request
// time.
func (s *RideService) Request(ctx context.Context, riderID uuid.UUID, in RequestInput) (*models.Ride, error) {
	ctx = wrap.WithAction(ctx, "request_ride")

	if !validLocation(in.Pickup) || !validLocation(in.Destination) {
		return nil, wrap.Error(ctx, types.ErrInvalidLocation)
	}
	if !in.PaymentMethod.Valid() {
		in.PaymentMethod = types.PaymentCash
	}

	distance := Distance(in.Pickup, in.Destination)
	duration := Duration(distance)
	fare, err := calculateFare(in.RideType, distance)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	now := time.Now().UTC()
	r := &models.Ride{
		ID:          uuid.New(),
		RiderID:     riderID,
		Status:      types.StatusRequested,
		RideType:    in.RideType,
		Pickup:      in.Pickup,
		Destination: in.Destination,
		DistanceKm:  distance,
		DurationMin: duration,
		Fare:        fare,
		Payment: models.Payment{
			Method: in.PaymentMethod,
			Status: types.PaymentPending,
		},
		Timeline:  models.Timeline{RequestedAt: &now},
		CreatedAt: now,
		UpdatedAt: now,
	}
	ctx = wrap.WithRideID(ctx, r.ID.String())

	err = s.trm.Do(ctx, func(ctx context.Context) error {
		if err := s.rides.Create(ctx, r); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not create ride: %w", err))
		}
		return s.appendEvent(ctx, r, "", types.StatusRequested, riderID, types.RoleRider)
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	metrics.RecordRideStatus(string(types.StatusRequested))

	msg := models.RideRequestedMessage{
		RideID:        r.ID,
		RideType:      string(r.RideType),
		Pickup:        r.Pickup,
		Destination:   r.Destination,
		DistanceKm:    r.DistanceKm,
		EstimatedFare: r.Fare.Total,
		RequestedAt:   now,
		CorrelationID: wrap.GetRequestID(ctx),
	}
	if err := s.broker.PublishRideRequested(ctx, msg); err != nil {
		s.logger.Error(ctx, "failed to publish ride request", err)
	}

	return r, nil
}

// FindByID returns a ride visible to the caller. Admins see every ride,
// everyone else only their own.
func (s *RideService) FindByID(ctx context.Context, actor models.Claims, rideID uuid.UUID) (*models.Ride, error) {
	ctx = wrap.WithAction(ctx, "get_ride")
	ctx = wrap.WithRideID(ctx, rideID.String())

	r, err := s.rides.FindByID(ctx, rideID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if actor.Role != types.RoleAdmin {
		if _, ok := r.PartyRole(actor.UserID); !ok {
			return nil, wrap.Error(ctx, types.ErrUnauthorized)
		}
	}
	return r, nil
}

// History lists the caller's rides newest first, optionally filtered
// by status.
func (s *RideService) History(ctx context.Context, userID uuid.UUID, status types.RideStatus, limit, offset int) ([]*models.Ride, int, error) {
	ctx = wrap.WithAction(ctx, "ride_history")

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rides, total, err := s.rides.History(ctx, userID, status, limit, offset)
	if err != nil {
		return nil, 0, wrap.Error(ctx, err)
	}
	return rides, total, nil
}

// Advance moves a ride forward along the lifecycle. Only the assigned
// driver may advance; the requested->accepted edge belongs to dispatch.
// Completion settles payment and credits the driver's earnings in the
// same transaction.
func (s *RideService) Advance(ctx context.Context, actor models.Claims, rideID uuid.UUID, target types.RideStatus) (*models.Ride, error) {
	ctx = wrap.WithAction(ctx, "advance_ride")
	ctx = wrap.WithRideID(ctx, rideID.String())

	if !target.Valid() || target == types.StatusCancelled {
		return nil, wrap.Error(ctx, types.ErrInvalidTransition)
	}

	var updated *models.Ride
	err := s.trm.Do(ctx, func(ctx context.Context) error {
		r, err := s.rides.FindByID(ctx, rideID)
		if err != nil {
			return wrap.Error(ctx, err)
		}
		if r.DriverID == nil || *r.DriverID != actor.UserID {
			return wrap.Error(ctx, types.ErrUnauthorized)
		}
		if !canAdvance(r.Status, target) {
			return wrap.Error(ctx, types.ErrInvalidTransition)
		}

		now := time.Now().UTC()
		if err := s.rides.AdvanceStatus(ctx, rideID, r.Status, target, now); err != nil {
			return wrap.Error(ctx, err)
		}
		if target == types.StatusCompleted {
			if err := s.rides.CompletePayment(ctx, rideID); err != nil {
				return wrap.Error(ctx, fmt.Errorf("could not settle payment: %w", err))
			}
			if err := s.users.AddEarnings(ctx, actor.UserID, r.Fare.Total); err != nil {
				return wrap.Error(ctx, fmt.Errorf("could not credit earnings: %w", err))
			}
		}
		if err := s.appendEvent(ctx, r, r.Status, target, actor.UserID, types.RoleDriver); err != nil {
			return err
		}

		r.Status = target
		r.UpdatedAt = now
		stampTimeline(r, target, now)
		if target == types.StatusCompleted {
			r.Payment.Status = types.PaymentCompleted
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordRideStatus(string(target))
	s.notifyStatus(ctx, updated, types.RoleDriver)

	return updated, nil
}

// Cancel terminates a non-terminal ride. Riders and drivers may cancel
// their own ride, admins any ride. The other party is notified; an
// admin cancel notifies both parties.
func (s *RideService) Cancel(ctx context.Context, actor models.Claims, rideID uuid.UUID, reason string) (*models.Ride, error) {
	ctx = wrap.WithAction(ctx, "cancel_ride")
	ctx = wrap.WithRideID(ctx, rideID.String())

	if len(reason) > maxReasonLen {
		return nil, wrap.Error(ctx, types.ErrReasonTooLong)
	}

	var cancelled *models.Ride
	err := s.trm.Do(ctx, func(ctx context.Context) error {
		r, err := s.rides.FindByID(ctx, rideID)
		if err != nil {
			return wrap.Error(ctx, err)
		}

		by := actor.Role
		if by != types.RoleAdmin {
			role, ok := r.PartyRole(actor.UserID)
			if !ok {
				return wrap.Error(ctx, types.ErrUnauthorized)
			}
			by = role
		}
		if !canCancel(r.Status) {
			return wrap.Error(ctx, types.ErrInvalidTransition)
		}

		now := time.Now().UTC()
		if err := s.rides.Cancel(ctx, rideID, r.Status, by, reason, now); err != nil {
			return wrap.Error(ctx, err)
		}
		if err := s.appendEvent(ctx, r, r.Status, types.StatusCancelled, actor.UserID, by); err != nil {
			return err
		}

		r.Status = types.StatusCancelled
		r.CancelledBy = by
		r.CancellationReason = reason
		r.Timeline.CancelledAt = &now
		r.UpdatedAt = now
		cancelled = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordRideStatus(string(types.StatusCancelled))
	s.notifyStatus(ctx, cancelled, cancelled.CancelledBy)

	return cancelled, nil
}

// Rate records a score one party gives the other for a completed ride
// and folds it into the counterpart's running average. Each party rates
// at most once. The rated party is told their new summary.
func (s *RideService) Rate(ctx context.Context, actor models.Claims, rideID uuid.UUID, score int, comment string) (*models.Ride, error) {
	ctx = wrap.WithAction(ctx, "rate_ride")
	ctx = wrap.WithRideID(ctx, rideID.String())

	if score < 1 || score > 5 {
		return nil, wrap.Error(ctx, types.ErrInvalidScore)
	}

	var (
		rated       *models.Ride
		counterpart uuid.UUID
		summary     models.RatingSummary
	)
	err := s.trm.Do(ctx, func(ctx context.Context) error {
		r, err := s.rides.FindByID(ctx, rideID)
		if err != nil {
			return wrap.Error(ctx, err)
		}
		role, ok := r.PartyRole(actor.UserID)
		if !ok {
			return wrap.Error(ctx, types.ErrUnauthorized)
		}
		if r.Status != types.StatusCompleted {
			return wrap.Error(ctx, types.ErrNotCompleted)
		}
		if r.RatedBy(role) {
			return wrap.Error(ctx, types.ErrAlreadyRated)
		}

		rating := models.Rating{Score: score, Comment: comment}
		if err := s.rides.SetRating(ctx, rideID, role, rating); err != nil {
			return wrap.Error(ctx, err)
		}

		counterpart = r.RiderID
		if role == types.RoleRider {
			counterpart = *r.DriverID
		}
		u, err := s.users.FindByID(ctx, counterpart)
		if err != nil {
			return wrap.Error(ctx, err)
		}
		summary = nextAverage(u.Rating, score)
		if err := s.users.ApplyRating(ctx, counterpart, score); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not update rating: %w", err))
		}

		if role == types.RoleRider {
			r.RiderRating = rating
		} else {
			r.DriverRating = rating
		}
		rated = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(counterpart, types.EventRideRated, models.RideRatedPayload{
		RideID:  rideID,
		Score:   score,
		Comment: comment,
		Rating:  summary,
	})

	return rated, nil
}

func (s *RideService) appendEvent(ctx context.Context, r *models.Ride, from, to types.RideStatus, actorID uuid.UUID, role types.UserRole) error {
	ev := models.RideEvent{
		RideID:    r.ID,
		OldStatus: from,
		NewStatus: to,
		ActorID:   actorID,
		ActorRole: role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.events.Append(ctx, ev); err != nil {
		return wrap.Error(ctx, fmt.Errorf("could not record ride event: %w", err))
	}
	return nil
}

// notifyStatus pushes a status change to the counterparty of whoever
// triggered it, or to both parties on an admin action, and mirrors it
// onto the broker. Failures are logged, never surfaced.
func (s *RideService) notifyStatus(ctx context.Context, r *models.Ride, actor types.UserRole) {
	payload := models.RideStatusPayload{
		RideID:           r.ID,
		Status:           r.Status,
		DriverID:         r.DriverID,
		EstimatedArrival: r.EstimatedArrival,
		CancelledBy:      r.CancelledBy,
		Reason:           r.CancellationReason,
	}
	event := types.EventForStatus(r.Status)

	switch actor {
	case types.RoleDriver:
		s.notifier.Notify(r.RiderID, event, payload)
	case types.RoleRider:
		if r.DriverID != nil {
			s.notifier.Notify(*r.DriverID, event, payload)
		}
	default:
		s.notifier.Notify(r.RiderID, event, payload)
		if r.DriverID != nil {
			s.notifier.Notify(*r.DriverID, event, payload)
		}
	}

	msg := models.RideStatusMessage{
		RideID:        r.ID,
		Status:        string(r.Status),
		DriverID:      r.DriverID,
		Timestamp:     time.Now().UTC(),
		CorrelationID: wrap.GetRequestID(ctx),
	}
	if err := s.broker.PublishRideStatus(ctx, msg); err != nil {
		s.logger.Error(ctx, "failed to publish ride status", err)
	}
}

func stampTimeline(r *models.Ride, status types.RideStatus, at time.Time) {
	t := at
	switch status {
	case types.StatusAccepted:
		r.Timeline.AcceptedAt = &t
	case types.StatusArrived:
		r.Timeline.ArrivedAt = &t
	case types.StatusInProgress:
		r.Timeline.StartedAt = &t
	case types.StatusCompleted:
		r.Timeline.CompletedAt = &t
	case types.StatusCancelled:
		r.Timeline.CancelledAt = &t
	}
}

func validLocation(l models.Location) bool {
	if l.Latitude < -90 || l.Latitude > 90 {
		return false
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		return false
	}
	return true
}
