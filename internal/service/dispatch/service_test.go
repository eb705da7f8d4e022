package dispatch

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/internal/service/ride"
	"github.com/shubinsengi1/ubertest/pkg/logger"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

type txStub struct{}

func (txStub) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memRides struct {
	mu    sync.Mutex
	rides map[uuid.UUID]*models.Ride
}

func newMemRides() *memRides {
	return &memRides{rides: make(map[uuid.UUID]*models.Ride)}
}

func (m *memRides) add(r *models.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[r.ID] = r
}

func (m *memRides) FindByID(_ context.Context, id uuid.UUID) (*models.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[id]
	if !ok {
		return nil, types.ErrRideNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRides) Accept(_ context.Context, rideID, driverID uuid.UUID, eta time.Time, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[rideID]
	if !ok {
		return types.ErrRideNotFound
	}
	if r.Status != types.StatusRequested {
		return types.ErrRideNoLongerAvailable
	}
	r.Status = types.StatusAccepted
	r.DriverID = &driverID
	r.EstimatedArrival = &eta
	r.Timeline.AcceptedAt = &at
	r.UpdatedAt = at
	return nil
}

func (m *memRides) ListRequested(_ context.Context, near models.Location, radiusKm float64, rideType types.RideType, limit int) ([]*models.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Ride
	for _, r := range m.rides {
		if r.Status != types.StatusRequested {
			continue
		}
		if rideType != "" && r.RideType != rideType {
			continue
		}
		if ride.Distance(near, r.Pickup) > radiusKm {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return ride.Distance(near, out[i].Pickup) < ride.Distance(near, out[j].Pickup)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRides) FindActiveByDriver(_ context.Context, driverID uuid.UUID) (*models.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rides {
		if r.DriverID != nil && *r.DriverID == driverID && !r.Status.Terminal() {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memRides) DriverStats(_ context.Context, driverID uuid.UUID) (*models.DriverDashboard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &models.DriverDashboard{}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, r := range m.rides {
		if r.DriverID == nil || *r.DriverID != driverID {
			continue
		}
		if r.CreatedAt.After(today) {
			stats.TodayRides++
		}
		switch r.Status {
		case types.StatusCompleted:
			stats.CompletedRides++
			if r.Timeline.CompletedAt != nil && r.Timeline.CompletedAt.After(today) {
				stats.TodayEarnings += r.Fare.Total
			}
		case types.StatusCancelled:
			stats.CancelledRides++
		}
	}
	return stats, nil
}

func (m *memRides) EarningsSince(_ context.Context, driverID uuid.UUID, since time.Time) ([]models.EarningsBucket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byDay := make(map[time.Time]*models.EarningsBucket)
	for _, r := range m.rides {
		if r.DriverID == nil || *r.DriverID != driverID || r.Status != types.StatusCompleted {
			continue
		}
		if r.Timeline.CompletedAt == nil || r.Timeline.CompletedAt.Before(since) {
			continue
		}
		day := r.Timeline.CompletedAt.UTC().Truncate(24 * time.Hour)
		b, ok := byDay[day]
		if !ok {
			b = &models.EarningsBucket{Day: day}
			byDay[day] = b
		}
		b.Rides++
		b.Amount += r.Fare.Total
	}
	var out []models.EarningsBucket
	for _, b := range byDay {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.After(out[j].Day) })
	return out, nil
}

type memDrivers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newMemDrivers() *memDrivers {
	return &memDrivers{users: make(map[uuid.UUID]*models.User)}
}

func (m *memDrivers) add(u *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

func (m *memDrivers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memDrivers) SetAvailability(_ context.Context, id uuid.UUID, available bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return types.ErrUserNotFound
	}
	u.Available = available
	return nil
}

func (m *memDrivers) UpdateLocation(_ context.Context, id uuid.UUID, loc models.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return types.ErrUserNotFound
	}
	u.Location = &loc
	return nil
}

func (m *memDrivers) ListNearby(_ context.Context, near models.Location, radiusKm float64, limit int) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.User
	for _, u := range m.users {
		if !u.IsDriver() || !u.Available || u.Location == nil {
			continue
		}
		if ride.Distance(near, *u.Location) > radiusKm {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return ride.Distance(near, *out[i].Location) < ride.Distance(near, *out[j].Location)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memEvents struct {
	mu     sync.Mutex
	events []models.RideEvent
}

func (m *memEvents) Append(_ context.Context, ev models.RideEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

type countNotifier struct {
	mu     sync.Mutex
	sent   int
	events []string
}

func (n *countNotifier) Notify(_ uuid.UUID, event string, _ any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent++
	n.events = append(n.events, event)
}

func newTestService() (*DispatchService, *memRides, *memDrivers, *memEvents, *countNotifier) {
	rides := newMemRides()
	drivers := newMemDrivers()
	events := &memEvents{}
	notifier := &countNotifier{}
	svc := NewDispatchService(rides, drivers, events, notifier, logger.InitLogger("test", logger.LevelError), txStub{})
	return svc, rides, drivers, events, notifier
}

func seedDriver(drivers *memDrivers, lat, lon float64) uuid.UUID {
	id := uuid.New()
	drivers.add(&models.User{
		ID:        id,
		Role:      types.RoleDriver,
		Available: true,
		Location:  &models.Location{Latitude: lat, Longitude: lon},
	})
	return id
}

func seedRequestedRide(rides *memRides, lat, lon float64) *models.Ride {
	now := time.Now().UTC()
	r := &models.Ride{
		ID:          uuid.New(),
		RiderID:     uuid.New(),
		Status:      types.StatusRequested,
		RideType:    types.RideEconomy,
		Pickup:      models.Location{Latitude: lat, Longitude: lon},
		Destination: models.Location{Latitude: lat + 0.02, Longitude: lon + 0.02},
		DistanceKm:  2.3,
		DurationMin: 6,
		Timeline:    models.Timeline{RequestedAt: &now},
		CreatedAt:   now,
	}
	rides.add(r)
	return r
}

func TestAccept(t *testing.T) {
	svc, rides, drivers, events, notifier := newTestService()
	driverID := seedDriver(drivers, 40.71, -74.00)
	r := seedRequestedRide(rides, 40.72, -74.00)

	got, err := svc.Accept(context.Background(), driverID, r.ID)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if got.Status != types.StatusAccepted {
		t.Errorf("status = %s, want accepted", got.Status)
	}
	if got.DriverID == nil || *got.DriverID != driverID {
		t.Errorf("driver = %v, want %s", got.DriverID, driverID)
	}
	if got.EstimatedArrival == nil || !got.EstimatedArrival.After(time.Now().Add(-time.Second)) {
		t.Errorf("estimated arrival = %v, want future time", got.EstimatedArrival)
	}
	if len(events.events) != 1 || events.events[0].NewStatus != types.StatusAccepted {
		t.Errorf("events = %+v, want single accepted event", events.events)
	}
	if notifier.sent != 1 {
		t.Errorf("notifications = %d, want 1 (rider)", notifier.sent)
	}
}

func TestAcceptAlreadyTaken(t *testing.T) {
	svc, rides, drivers, _, _ := newTestService()
	first := seedDriver(drivers, 40.71, -74.00)
	second := seedDriver(drivers, 40.70, -74.01)
	r := seedRequestedRide(rides, 40.72, -74.00)

	if _, err := svc.Accept(context.Background(), first, r.ID); err != nil {
		t.Fatalf("first Accept: %v", err)
	}
	_, err := svc.Accept(context.Background(), second, r.ID)
	if !errors.Is(err, types.ErrRideNoLongerAvailable) {
		t.Fatalf("err = %v, want ErrRideNoLongerAvailable", err)
	}

	got, _ := rides.FindByID(context.Background(), r.ID)
	if *got.DriverID != first {
		t.Errorf("driver = %s, want first accepting driver %s", *got.DriverID, first)
	}
}

func TestAcceptConcurrentSingleWinner(t *testing.T) {
	svc, rides, drivers, events, _ := newTestService()
	r := seedRequestedRide(rides, 40.72, -74.00)

	const n = 32
	driverIDs := make([]uuid.UUID, n)
	for i := range driverIDs {
		driverIDs[i] = seedDriver(drivers, 40.70, -74.00)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []uuid.UUID
		losers  int
	)
	wg.Add(n)
	for i := range n {
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := svc.Accept(context.Background(), id, r.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners = append(winners, id)
			case errors.Is(err, types.ErrRideNoLongerAvailable):
				losers++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(driverIDs[i])
	}
	wg.Wait()

	if len(winners) != 1 {
		t.Fatalf("winners = %d, want exactly 1", len(winners))
	}
	if losers != n-1 {
		t.Errorf("losers = %d, want %d", losers, n-1)
	}

	got, _ := rides.FindByID(context.Background(), r.ID)
	if got.DriverID == nil || *got.DriverID != winners[0] {
		t.Errorf("stored driver %v does not match winner %s", got.DriverID, winners[0])
	}
	if len(events.events) != 1 {
		t.Errorf("events = %d, want 1 (losers must not log)", len(events.events))
	}
}

func TestAcceptRejectsNonDriver(t *testing.T) {
	svc, rides, drivers, _, _ := newTestService()
	r := seedRequestedRide(rides, 40.72, -74.00)

	riderID := uuid.New()
	drivers.add(&models.User{ID: riderID, Role: types.RoleRider})

	_, err := svc.Accept(context.Background(), riderID, r.ID)
	if !errors.Is(err, types.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestListAvailable(t *testing.T) {
	svc, rides, drivers, _, _ := newTestService()
	driverID := seedDriver(drivers, 40.71, -74.00)

	near := seedRequestedRide(rides, 40.715, -74.00)
	farther := seedRequestedRide(rides, 40.75, -74.00)
	seedRequestedRide(rides, 48.85, 2.35) // out of radius
	taken := seedRequestedRide(rides, 40.712, -74.00)
	taken.Status = types.StatusAccepted

	got, err := svc.ListAvailable(context.Background(), driverID, 10, "", 0)
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != near.ID || got[1].ID != farther.ID {
		t.Errorf("not ordered by distance: %s, %s", got[0].ID, got[1].ID)
	}
}

func TestListAvailableRideTypeFilter(t *testing.T) {
	svc, rides, drivers, _, _ := newTestService()
	driverID := seedDriver(drivers, 40.71, -74.00)

	economy := seedRequestedRide(rides, 40.715, -74.00)
	comfort := seedRequestedRide(rides, 40.716, -74.00)
	comfort.RideType = types.RideComfort

	got, err := svc.ListAvailable(context.Background(), driverID, 10, types.RideComfort, 0)
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	if len(got) != 1 || got[0].ID != comfort.ID {
		t.Fatalf("got %d rides, want only the comfort request", len(got))
	}
	if got[0].ID == economy.ID {
		t.Error("economy ride leaked through the type filter")
	}

	if _, err := svc.ListAvailable(context.Background(), driverID, 10, "helicopter", 0); !errors.Is(err, types.ErrUnknownRideType) {
		t.Errorf("err = %v, want ErrUnknownRideType", err)
	}
}

func TestListAvailableNeedsLocation(t *testing.T) {
	svc, _, drivers, _, _ := newTestService()
	id := uuid.New()
	drivers.add(&models.User{ID: id, Role: types.RoleDriver, Available: true})

	_, err := svc.ListAvailable(context.Background(), id, 10, "", 0)
	if !errors.Is(err, types.ErrInvalidLocation) {
		t.Fatalf("err = %v, want ErrInvalidLocation", err)
	}
}

func TestUpdateLocation(t *testing.T) {
	svc, _, drivers, _, _ := newTestService()
	driverID := seedDriver(drivers, 40.71, -74.00)

	loc := models.Location{Latitude: 40.75, Longitude: -73.99}
	if err := svc.UpdateLocation(context.Background(), driverID, loc); err != nil {
		t.Fatalf("UpdateLocation: %v", err)
	}
	d, _ := drivers.FindByID(context.Background(), driverID)
	if d.Location.Latitude != 40.75 {
		t.Errorf("location not stored: %+v", d.Location)
	}

	if err := svc.UpdateLocation(context.Background(), driverID, models.Location{Latitude: 100}); !errors.Is(err, types.ErrInvalidLocation) {
		t.Errorf("err = %v, want ErrInvalidLocation", err)
	}
}

func TestSetAvailability(t *testing.T) {
	svc, _, drivers, _, _ := newTestService()
	driverID := seedDriver(drivers, 40.71, -74.00)

	if err := svc.SetAvailability(context.Background(), driverID, false); err != nil {
		t.Fatalf("SetAvailability: %v", err)
	}
	d, _ := drivers.FindByID(context.Background(), driverID)
	if d.Available {
		t.Error("driver still available")
	}
}

func TestUpdateLocationStreamsToRider(t *testing.T) {
	svc, rides, drivers, _, notifier := newTestService()
	driverID := seedDriver(drivers, 40.71, -74.00)
	r := seedRequestedRide(rides, 40.72, -74.00)

	if _, err := svc.Accept(context.Background(), driverID, r.ID); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	sentBefore := notifier.sent

	loc := models.Location{Latitude: 40.73, Longitude: -74.00}
	if err := svc.UpdateLocation(context.Background(), driverID, loc); err != nil {
		t.Fatalf("UpdateLocation: %v", err)
	}

	if notifier.sent != sentBefore+1 {
		t.Fatalf("notifications = %d, want %d", notifier.sent, sentBefore+1)
	}
	if last := notifier.events[len(notifier.events)-1]; last != types.EventDriverLocation {
		t.Errorf("event = %s, want %s", last, types.EventDriverLocation)
	}
}

func TestUpdateLocationWithoutActiveRide(t *testing.T) {
	svc, _, drivers, _, notifier := newTestService()
	driverID := seedDriver(drivers, 40.71, -74.00)

	if err := svc.UpdateLocation(context.Background(), driverID, models.Location{Latitude: 40.73, Longitude: -74.00}); err != nil {
		t.Fatalf("UpdateLocation: %v", err)
	}
	if notifier.sent != 0 {
		t.Errorf("notifications = %d, want 0", notifier.sent)
	}
}

func TestNearbyDrivers(t *testing.T) {
	svc, _, drivers, _, _ := newTestService()
	closest := seedDriver(drivers, 40.711, -74.00)
	farther := seedDriver(drivers, 40.75, -74.00)
	seedDriver(drivers, 48.85, 2.35) // out of radius

	offlineID := seedDriver(drivers, 40.712, -74.00)
	if err := svc.SetAvailability(context.Background(), offlineID, false); err != nil {
		t.Fatalf("SetAvailability: %v", err)
	}

	got, err := svc.NearbyDrivers(context.Background(), models.Location{Latitude: 40.71, Longitude: -74.00}, 10, 0)
	if err != nil {
		t.Fatalf("NearbyDrivers: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != closest || got[1].ID != farther {
		t.Errorf("not ordered by distance: %s, %s", got[0].ID, got[1].ID)
	}
}

func TestNearbyDriversBadPoint(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.NearbyDrivers(context.Background(), models.Location{Latitude: 95}, 10, 0)
	if !errors.Is(err, types.ErrInvalidLocation) {
		t.Fatalf("err = %v, want ErrInvalidLocation", err)
	}
}

func TestDashboard(t *testing.T) {
	svc, rides, drivers, _, _ := newTestService()
	driverID := seedDriver(drivers, 40.71, -74.00)

	now := time.Now().UTC()
	completed := seedRequestedRide(rides, 40.72, -74.00)
	completed.DriverID = &driverID
	completed.Status = types.StatusCompleted
	completed.Fare.Total = 5.26
	completed.Timeline.CompletedAt = &now

	cancelled := seedRequestedRide(rides, 40.73, -74.00)
	cancelled.DriverID = &driverID
	cancelled.Status = types.StatusCancelled

	d, _ := drivers.FindByID(context.Background(), driverID)
	drivers.add(&models.User{
		ID: driverID, Role: types.RoleDriver, Available: d.Available,
		Location: d.Location,
		Earnings: models.Earnings{Total: 5.26, ThisWeek: 5.26, ThisMonth: 5.26},
		Rating:   models.RatingSummary{Average: 4.5, Count: 2},
	})

	got, err := svc.Dashboard(context.Background(), driverID)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if got.CompletedRides != 1 || got.CancelledRides != 1 {
		t.Errorf("counts = %d/%d, want 1/1", got.CompletedRides, got.CancelledRides)
	}
	if got.TodayEarnings != 5.26 {
		t.Errorf("today earnings = %.2f, want 5.26", got.TodayEarnings)
	}
	if got.Earnings.Total != 5.26 || got.Rating.Average != 4.5 {
		t.Errorf("profile totals not merged: %+v", got)
	}
}

func TestEarnings(t *testing.T) {
	svc, rides, drivers, _, _ := newTestService()
	driverID := seedDriver(drivers, 40.71, -74.00)

	complete := func(fare float64, at time.Time) {
		r := seedRequestedRide(rides, 40.72, -74.00)
		r.DriverID = &driverID
		r.Status = types.StatusCompleted
		r.Fare.Total = fare
		done := at
		r.Timeline.CompletedAt = &done
	}

	now := time.Now().UTC()
	complete(10.50, now.Add(-time.Hour))
	complete(7.25, now.Add(-time.Hour))
	complete(20.00, now.AddDate(0, 0, -3))
	complete(99.99, now.AddDate(0, 0, -20)) // outside the default week

	got, err := svc.Earnings(context.Background(), driverID, "")
	if err != nil {
		t.Fatalf("Earnings: %v", err)
	}
	if got.Period != "week" {
		t.Errorf("period = %s, want week", got.Period)
	}
	if got.Rides != 3 {
		t.Errorf("rides = %d, want 3", got.Rides)
	}
	if got.Amount != 37.75 {
		t.Errorf("amount = %.2f, want 37.75", got.Amount)
	}
	if len(got.Daily) != 2 {
		t.Fatalf("daily buckets = %d, want 2", len(got.Daily))
	}
	if !got.Daily[0].Day.After(got.Daily[1].Day) {
		t.Error("buckets not ordered newest first")
	}

	month, err := svc.Earnings(context.Background(), driverID, "month")
	if err != nil {
		t.Fatalf("Earnings month: %v", err)
	}
	if month.Rides != 4 {
		t.Errorf("month rides = %d, want 4", month.Rides)
	}
}

func TestEarningsUnknownPeriod(t *testing.T) {
	svc, _, drivers, _, _ := newTestService()
	driverID := seedDriver(drivers, 40.71, -74.00)

	if _, err := svc.Earnings(context.Background(), driverID, "fortnight"); !errors.Is(err, types.ErrUnknownPeriod) {
		t.Fatalf("err = %v, want ErrUnknownPeriod", err)
	}
}

func TestEarningsRejectsNonDriver(t *testing.T) {
	svc, _, drivers, _, _ := newTestService()
	riderID := uuid.New()
	drivers.add(&models.User{ID: riderID, Role: types.RoleRider})

	if _, err := svc.Earnings(context.Background(), riderID, "week"); !errors.Is(err, types.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}
