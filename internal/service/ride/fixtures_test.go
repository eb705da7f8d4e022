package ride

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/pkg/logger"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

// txStub runs the closure without a real transaction.
type txStub struct{}

func (txStub) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memRideRepo struct {
	mu    sync.Mutex
	rides map[uuid.UUID]*models.Ride
}

func newMemRideRepo() *memRideRepo {
	return &memRideRepo{rides: make(map[uuid.UUID]*models.Ride)}
}

func (m *memRideRepo) Create(_ context.Context, r *models.Ride) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.rides[r.ID] = &cp
	return nil
}

func (m *memRideRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[id]
	if !ok {
		return nil, types.ErrRideNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRideRepo) AdvanceStatus(_ context.Context, id uuid.UUID, from, to types.RideStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[id]
	if !ok {
		return types.ErrRideNotFound
	}
	if r.Status != from {
		return types.ErrInvalidTransition
	}
	r.Status = to
	r.UpdatedAt = at
	stampTimeline(r, to, at)
	return nil
}

func (m *memRideRepo) Cancel(_ context.Context, id uuid.UUID, from types.RideStatus, by types.UserRole, reason string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[id]
	if !ok {
		return types.ErrRideNotFound
	}
	if r.Status != from {
		return types.ErrInvalidTransition
	}
	r.Status = types.StatusCancelled
	r.CancelledBy = by
	r.CancellationReason = reason
	r.Timeline.CancelledAt = &at
	r.UpdatedAt = at
	return nil
}

func (m *memRideRepo) SetRating(_ context.Context, id uuid.UUID, role types.UserRole, rating models.Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[id]
	if !ok {
		return types.ErrRideNotFound
	}
	if role == types.RoleRider {
		r.RiderRating = rating
	} else {
		r.DriverRating = rating
	}
	return nil
}

func (m *memRideRepo) CompletePayment(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[id]
	if !ok {
		return types.ErrRideNotFound
	}
	r.Payment.Status = types.PaymentCompleted
	return nil
}

func (m *memRideRepo) History(_ context.Context, userID uuid.UUID, status types.RideStatus, limit, offset int) ([]*models.Ride, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Ride
	for _, r := range m.rides {
		if _, ok := r.PartyRole(userID); !ok {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := len(out)
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (m *memUserRepo) add(u *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

func (m *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) ApplyRating(_ context.Context, userID uuid.UUID, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return types.ErrUserNotFound
	}
	u.Rating = nextAverage(u.Rating, score)
	return nil
}

func (m *memUserRepo) AddEarnings(_ context.Context, driverID uuid.UUID, amount float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[driverID]
	if !ok {
		return types.ErrUserNotFound
	}
	u.Earnings.Total += amount
	u.Earnings.ThisWeek += amount
	u.Earnings.ThisMonth += amount
	return nil
}

type memEventLog struct {
	mu     sync.Mutex
	events []models.RideEvent
}

func (m *memEventLog) Append(_ context.Context, ev models.RideEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

type recordedNotification struct {
	Recipient uuid.UUID
	Event     string
}

type recordNotifier struct {
	mu   sync.Mutex
	sent []recordedNotification
}

func (n *recordNotifier) Notify(recipientID uuid.UUID, event string, _ any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, recordedNotification{Recipient: recipientID, Event: event})
}

type nopBroker struct{}

func (nopBroker) PublishRideRequested(context.Context, models.RideRequestedMessage) error {
	return nil
}

func (nopBroker) PublishRideStatus(context.Context, models.RideStatusMessage) error {
	return nil
}

func newTestService() (*RideService, *memRideRepo, *memUserRepo, *memEventLog, *recordNotifier) {
	rides := newMemRideRepo()
	users := newMemUserRepo()
	events := &memEventLog{}
	notifier := &recordNotifier{}
	svc := NewRideService(rides, users, events, notifier, nopBroker{}, logger.InitLogger("test", logger.LevelError), txStub{})
	return svc, rides, users, events, notifier
}
