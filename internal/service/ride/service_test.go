package ride

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

var (
	testPickup      = models.Location{Address: "1 Main St", Latitude: 40.7128, Longitude: -74.0060}
	testDestination = models.Location{Address: "99 Broad St", Latitude: 40.7306, Longitude: -73.9866}
)

func riderClaims(id uuid.UUID) models.Claims {
	return models.Claims{UserID: id, Role: types.RoleRider}
}

func driverClaims(id uuid.UUID) models.Claims {
	return models.Claims{UserID: id, Role: types.RoleDriver}
}

func seedAcceptedRide(t *testing.T, repo *memRideRepo, users *memUserRepo) (riderID, driverID uuid.UUID, rideID uuid.UUID) {
	t.Helper()

	riderID = uuid.New()
	driverID = uuid.New()
	users.add(&models.User{ID: riderID, Role: types.RoleRider})
	users.add(&models.User{ID: driverID, Role: types.RoleDriver})

	now := time.Now().UTC()
	r := &models.Ride{
		ID:          uuid.New(),
		RiderID:     riderID,
		DriverID:    &driverID,
		Status:      types.StatusAccepted,
		RideType:    types.RideEconomy,
		Pickup:      testPickup,
		Destination: testDestination,
		DistanceKm:  2.3,
		DurationMin: 6,
		Fare:        models.Fare{Base: 2.50, Distance: 2.76, Total: 5.26},
		Payment:     models.Payment{Method: types.PaymentCash, Status: types.PaymentPending},
		Timeline:    models.Timeline{RequestedAt: &now, AcceptedAt: &now},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repo.Create(context.Background(), r); err != nil {
		t.Fatalf("seed ride: %v", err)
	}
	return riderID, driverID, r.ID
}

func TestRequest(t *testing.T) {
	svc, _, _, events, _ := newTestService()
	riderID := uuid.New()

	r, err := svc.Request(context.Background(), riderID, RequestInput{
		Pickup:        testPickup,
		Destination:   testDestination,
		RideType:      types.RideEconomy,
		PaymentMethod: types.PaymentCard,
	})
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	if r.Status != types.StatusRequested {
		t.Errorf("status = %s, want requested", r.Status)
	}
	if r.RiderID != riderID {
		t.Errorf("rider = %s, want %s", r.RiderID, riderID)
	}
	if r.DriverID != nil {
		t.Error("driver assigned at request time")
	}
	if r.Fare.Total <= r.Fare.Base {
		t.Errorf("fare total %v not above base %v", r.Fare.Total, r.Fare.Base)
	}
	if r.Payment.Status != types.PaymentPending {
		t.Errorf("payment status = %s, want pending", r.Payment.Status)
	}
	if r.Timeline.RequestedAt == nil {
		t.Error("requested_at not stamped")
	}
	if len(events.events) != 1 || events.events[0].NewStatus != types.StatusRequested {
		t.Errorf("events = %+v, want one requested event", events.events)
	}
}

func TestRequestValidation(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	riderID := uuid.New()

	t.Run("bad latitude", func(t *testing.T) {
		_, err := svc.Request(context.Background(), riderID, RequestInput{
			Pickup:      models.Location{Latitude: 91, Longitude: 0},
			Destination: testDestination,
			RideType:    types.RideEconomy,
		})
		if !errors.Is(err, types.ErrInvalidLocation) {
			t.Errorf("err = %v, want ErrInvalidLocation", err)
		}
	})

	t.Run("unknown ride type", func(t *testing.T) {
		_, err := svc.Request(context.Background(), riderID, RequestInput{
			Pickup:      testPickup,
			Destination: testDestination,
			RideType:    "helicopter",
		})
		if !errors.Is(err, types.ErrUnknownRideType) {
			t.Errorf("err = %v, want ErrUnknownRideType", err)
		}
	})
}

func TestAdvanceLifecycle(t *testing.T) {
	svc, repo, users, _, notifier := newTestService()
	riderID, driverID, rideID := seedAcceptedRide(t, repo, users)
	driver := driverClaims(driverID)

	steps := []types.RideStatus{
		types.StatusDriverOnWay,
		types.StatusArrived,
		types.StatusInProgress,
		types.StatusCompleted,
	}
	for _, target := range steps {
		r, err := svc.Advance(context.Background(), driver, rideID, target)
		if err != nil {
			t.Fatalf("Advance to %s: %v", target, err)
		}
		if r.Status != target {
			t.Fatalf("status = %s, want %s", r.Status, target)
		}
	}

	final, err := repo.FindByID(context.Background(), rideID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if final.Status != types.StatusCompleted {
		t.Errorf("final status = %s, want completed", final.Status)
	}
	if final.Payment.Status != types.PaymentCompleted {
		t.Errorf("payment status = %s, want completed", final.Payment.Status)
	}
	if final.Timeline.ArrivedAt == nil || final.Timeline.StartedAt == nil || final.Timeline.CompletedAt == nil {
		t.Error("timeline not fully stamped")
	}
	if final.Timeline.StartedAt.Before(*final.Timeline.ArrivedAt) {
		t.Error("started before arrival")
	}

	d, err := users.FindByID(context.Background(), driverID)
	if err != nil {
		t.Fatalf("driver: %v", err)
	}
	if d.Earnings.Total != 5.26 || d.Earnings.ThisWeek != 5.26 || d.Earnings.ThisMonth != 5.26 {
		t.Errorf("earnings = %+v, want 5.26 across all buckets", d.Earnings)
	}

	// driver progress notifies the rider only, once per step
	if got := len(notifier.sent); got != len(steps) {
		t.Errorf("notifications = %d, want %d", got, len(steps))
	}
	for _, n := range notifier.sent {
		if n.Recipient != riderID {
			t.Errorf("notification went to %s, want rider %s", n.Recipient, riderID)
		}
	}
}

func TestAdvanceForwardSkip(t *testing.T) {
	svc, repo, users, _, _ := newTestService()
	_, driverID, rideID := seedAcceptedRide(t, repo, users)

	// a driver may report a later status without the intermediate updates
	r, err := svc.Advance(context.Background(), driverClaims(driverID), rideID, types.StatusCompleted)
	if err != nil {
		t.Fatalf("Advance accepted->completed: %v", err)
	}
	if r.Status != types.StatusCompleted {
		t.Errorf("status = %s, want completed", r.Status)
	}
	if r.Payment.Status != types.PaymentCompleted {
		t.Errorf("payment status = %s, want completed", r.Payment.Status)
	}
	if r.Timeline.CompletedAt == nil {
		t.Error("completed_at not stamped")
	}

	d, err := users.FindByID(context.Background(), driverID)
	if err != nil {
		t.Fatalf("driver: %v", err)
	}
	if d.Earnings.Total == 0 {
		t.Error("earnings not credited on skipped completion")
	}
}

func TestAdvanceRejections(t *testing.T) {
	svc, repo, users, _, _ := newTestService()
	riderID, driverID, rideID := seedAcceptedRide(t, repo, users)
	driver := driverClaims(driverID)

	t.Run("repeating the current status", func(t *testing.T) {
		_, err := svc.Advance(context.Background(), driver, rideID, types.StatusAccepted)
		if !errors.Is(err, types.ErrInvalidTransition) {
			t.Errorf("err = %v, want ErrInvalidTransition", err)
		}
	})

	t.Run("cancel is not an advance target", func(t *testing.T) {
		_, err := svc.Advance(context.Background(), driver, rideID, types.StatusCancelled)
		if !errors.Is(err, types.ErrInvalidTransition) {
			t.Errorf("err = %v, want ErrInvalidTransition", err)
		}
	})

	t.Run("rider cannot advance", func(t *testing.T) {
		_, err := svc.Advance(context.Background(), riderClaims(riderID), rideID, types.StatusDriverOnWay)
		if !errors.Is(err, types.ErrUnauthorized) {
			t.Errorf("err = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("other driver cannot advance", func(t *testing.T) {
		_, err := svc.Advance(context.Background(), driverClaims(uuid.New()), rideID, types.StatusDriverOnWay)
		if !errors.Is(err, types.ErrUnauthorized) {
			t.Errorf("err = %v, want ErrUnauthorized", err)
		}

		r, _ := repo.FindByID(context.Background(), rideID)
		if r.Status != types.StatusAccepted {
			t.Errorf("status changed to %s after rejected advance", r.Status)
		}
	})

	t.Run("unknown ride", func(t *testing.T) {
		_, err := svc.Advance(context.Background(), driver, uuid.New(), types.StatusDriverOnWay)
		if !errors.Is(err, types.ErrRideNotFound) {
			t.Errorf("err = %v, want ErrRideNotFound", err)
		}
	})
}

func TestCancel(t *testing.T) {
	t.Run("rider cancels", func(t *testing.T) {
		svc, repo, users, _, notifier := newTestService()
		riderID, driverID, rideID := seedAcceptedRide(t, repo, users)

		r, err := svc.Cancel(context.Background(), riderClaims(riderID), rideID, "changed my mind")
		if err != nil {
			t.Fatalf("Cancel: %v", err)
		}
		if r.Status != types.StatusCancelled {
			t.Errorf("status = %s, want cancelled", r.Status)
		}
		if r.CancelledBy != types.RoleRider {
			t.Errorf("cancelled_by = %s, want rider", r.CancelledBy)
		}
		if r.CancellationReason != "changed my mind" {
			t.Errorf("reason = %q", r.CancellationReason)
		}
		if len(notifier.sent) != 1 || notifier.sent[0].Recipient != driverID {
			t.Errorf("notifications = %+v, want one to the driver", notifier.sent)
		}
	})

	t.Run("admin cancels someone else's ride", func(t *testing.T) {
		svc, repo, users, _, notifier := newTestService()
		_, _, rideID := seedAcceptedRide(t, repo, users)

		admin := models.Claims{UserID: uuid.New(), Role: types.RoleAdmin}
		r, err := svc.Cancel(context.Background(), admin, rideID, "fraud review")
		if err != nil {
			t.Fatalf("Cancel: %v", err)
		}
		if r.CancelledBy != types.RoleAdmin {
			t.Errorf("cancelled_by = %s, want admin", r.CancelledBy)
		}
		if len(notifier.sent) != 2 {
			t.Errorf("notifications = %d, want both parties", len(notifier.sent))
		}
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		svc, repo, users, _, _ := newTestService()
		_, _, rideID := seedAcceptedRide(t, repo, users)

		_, err := svc.Cancel(context.Background(), riderClaims(uuid.New()), rideID, "")
		if !errors.Is(err, types.ErrUnauthorized) {
			t.Errorf("err = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("terminal ride cannot be cancelled", func(t *testing.T) {
		svc, repo, users, _, _ := newTestService()
		riderID, driverID, rideID := seedAcceptedRide(t, repo, users)

		driver := driverClaims(driverID)
		for _, target := range []types.RideStatus{
			types.StatusDriverOnWay, types.StatusArrived,
			types.StatusInProgress, types.StatusCompleted,
		} {
			if _, err := svc.Advance(context.Background(), driver, rideID, target); err != nil {
				t.Fatalf("Advance to %s: %v", target, err)
			}
		}

		_, err := svc.Cancel(context.Background(), riderClaims(riderID), rideID, "")
		if !errors.Is(err, types.ErrInvalidTransition) {
			t.Errorf("err = %v, want ErrInvalidTransition", err)
		}
	})

	t.Run("reason too long", func(t *testing.T) {
		svc, repo, users, _, _ := newTestService()
		riderID, _, rideID := seedAcceptedRide(t, repo, users)

		long := make([]byte, maxReasonLen+1)
		for i := range long {
			long[i] = 'x'
		}
		_, err := svc.Cancel(context.Background(), riderClaims(riderID), rideID, string(long))
		if !errors.Is(err, types.ErrReasonTooLong) {
			t.Errorf("err = %v, want ErrReasonTooLong", err)
		}
	})
}

func TestRate(t *testing.T) {
	complete := func(t *testing.T, svc *RideService, driverID, rideID uuid.UUID) {
		t.Helper()
		driver := driverClaims(driverID)
		for _, target := range []types.RideStatus{
			types.StatusDriverOnWay, types.StatusArrived,
			types.StatusInProgress, types.StatusCompleted,
		} {
			if _, err := svc.Advance(context.Background(), driver, rideID, target); err != nil {
				t.Fatalf("Advance to %s: %v", target, err)
			}
		}
	}

	t.Run("rider rates driver", func(t *testing.T) {
		svc, repo, users, _, notifier := newTestService()
		riderID, driverID, rideID := seedAcceptedRide(t, repo, users)
		complete(t, svc, driverID, rideID)

		r, err := svc.Rate(context.Background(), riderClaims(riderID), rideID, 5, "smooth ride")
		if err != nil {
			t.Fatalf("Rate: %v", err)
		}
		if r.RiderRating.Score != 5 {
			t.Errorf("rider rating = %d, want 5", r.RiderRating.Score)
		}

		d, _ := users.FindByID(context.Background(), driverID)
		if d.Rating.Count != 1 || d.Rating.Average != 5 {
			t.Errorf("driver summary = %+v, want count 1 average 5", d.Rating)
		}

		last := notifier.sent[len(notifier.sent)-1]
		if last.Recipient != driverID || last.Event != types.EventRideRated {
			t.Errorf("last notification = %+v, want ride-rated to the driver", last)
		}
	})

	t.Run("driver rates rider", func(t *testing.T) {
		svc, repo, users, _, _ := newTestService()
		riderID, driverID, rideID := seedAcceptedRide(t, repo, users)
		complete(t, svc, driverID, rideID)

		if _, err := svc.Rate(context.Background(), driverClaims(driverID), rideID, 3, ""); err != nil {
			t.Fatalf("Rate: %v", err)
		}
		rider, _ := users.FindByID(context.Background(), riderID)
		if rider.Rating.Count != 1 || rider.Rating.Average != 3 {
			t.Errorf("rider summary = %+v, want count 1 average 3", rider.Rating)
		}
	})

	t.Run("not completed", func(t *testing.T) {
		svc, repo, users, _, _ := newTestService()
		riderID, _, rideID := seedAcceptedRide(t, repo, users)

		_, err := svc.Rate(context.Background(), riderClaims(riderID), rideID, 4, "")
		if !errors.Is(err, types.ErrNotCompleted) {
			t.Errorf("err = %v, want ErrNotCompleted", err)
		}
	})

	t.Run("double rating", func(t *testing.T) {
		svc, repo, users, _, _ := newTestService()
		riderID, driverID, rideID := seedAcceptedRide(t, repo, users)
		complete(t, svc, driverID, rideID)

		if _, err := svc.Rate(context.Background(), riderClaims(riderID), rideID, 5, ""); err != nil {
			t.Fatalf("first Rate: %v", err)
		}
		_, err := svc.Rate(context.Background(), riderClaims(riderID), rideID, 1, "")
		if !errors.Is(err, types.ErrAlreadyRated) {
			t.Errorf("err = %v, want ErrAlreadyRated", err)
		}

		d, _ := users.FindByID(context.Background(), driverID)
		if d.Rating.Count != 1 {
			t.Errorf("rating applied twice: %+v", d.Rating)
		}
	})

	t.Run("score bounds", func(t *testing.T) {
		svc, repo, users, _, _ := newTestService()
		riderID, driverID, rideID := seedAcceptedRide(t, repo, users)
		complete(t, svc, driverID, rideID)

		for _, score := range []int{0, 6, -1} {
			if _, err := svc.Rate(context.Background(), riderClaims(riderID), rideID, score, ""); !errors.Is(err, types.ErrInvalidScore) {
				t.Errorf("score %d: err = %v, want ErrInvalidScore", score, err)
			}
		}
	})

	t.Run("stranger cannot rate", func(t *testing.T) {
		svc, repo, users, _, _ := newTestService()
		_, driverID, rideID := seedAcceptedRide(t, repo, users)
		complete(t, svc, driverID, rideID)

		_, err := svc.Rate(context.Background(), riderClaims(uuid.New()), rideID, 4, "")
		if !errors.Is(err, types.ErrUnauthorized) {
			t.Errorf("err = %v, want ErrUnauthorized", err)
		}
	})
}

func TestFindByIDAccess(t *testing.T) {
	svc, repo, users, _, _ := newTestService()
	riderID, driverID, rideID := seedAcceptedRide(t, repo, users)

	for _, claims := range []models.Claims{
		riderClaims(riderID),
		driverClaims(driverID),
		{UserID: uuid.New(), Role: types.RoleAdmin},
	} {
		if _, err := svc.FindByID(context.Background(), claims, rideID); err != nil {
			t.Errorf("%s denied: %v", claims.Role, err)
		}
	}

	_, err := svc.FindByID(context.Background(), riderClaims(uuid.New()), rideID)
	if !errors.Is(err, types.ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestHistoryPagination(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	riderID := uuid.New()

	for range 5 {
		if _, err := svc.Request(context.Background(), riderID, RequestInput{
			Pickup:      testPickup,
			Destination: testDestination,
			RideType:    types.RideEconomy,
		}); err != nil {
			t.Fatalf("Request: %v", err)
		}
	}

	page, total, err := svc.History(context.Background(), riderID, "", 2, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(page) != 2 {
		t.Errorf("page len = %d, want 2", len(page))
	}

	rest, _, err := svc.History(context.Background(), riderID, "", 10, 4)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(rest) != 1 {
		t.Errorf("rest len = %d, want 1", len(rest))
	}

	requested, total, err := svc.History(context.Background(), riderID, types.StatusRequested, 10, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if total != 5 || len(requested) != 5 {
		t.Errorf("requested filter: total = %d, len = %d, want 5/5", total, len(requested))
	}

	completed, total, err := svc.History(context.Background(), riderID, types.StatusCompleted, 10, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if total != 0 || len(completed) != 0 {
		t.Errorf("completed filter: total = %d, len = %d, want 0/0", total, len(completed))
	}
}
