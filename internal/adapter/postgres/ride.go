package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

type RideRepo struct {
	db *pgxpool.Pool
}

func NewRideRepo(db *pgxpool.Pool) *RideRepo {
	return &RideRepo{db: db}
}

const rideColumns = `
	id, rider_id, driver_id, status, ride_type,
	pickup_address, pickup_lat, pickup_lon,
	dest_address, dest_lat, dest_lon,
	distance_km, duration_min,
	fare_base, fare_distance, fare_time, fare_surge, fare_total,
	payment_method, payment_status, transaction_id,
	rider_rating_score, rider_rating_comment,
	driver_rating_score, driver_rating_comment,
	cancelled_by, cancellation_reason, estimated_arrival,
	requested_at, accepted_at, arrived_at, started_at, completed_at, cancelled_at,
	created_at, updated_at`

func (r *RideRepo) Create(ctx context.Context, ride *models.Ride) error {
	q := TxorDB(ctx, r.db)

	query := `
		INSERT INTO rides (
			id, rider_id, status, ride_type,
			pickup_address, pickup_lat, pickup_lon,
			dest_address, dest_lat, dest_lon,
			distance_km, duration_min,
			fare_base, fare_distance, fare_time, fare_surge, fare_total,
			payment_method, payment_status,
			requested_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9, $10,
			$11, $12,
			$13, $14, $15, $16, $17,
			$18, $19,
			$20, $21, $22
		);`

	_, err := q.Exec(ctx, query,
		ride.ID, ride.RiderID, ride.Status, ride.RideType,
		ride.Pickup.Address, ride.Pickup.Latitude, ride.Pickup.Longitude,
		ride.Destination.Address, ride.Destination.Latitude, ride.Destination.Longitude,
		ride.DistanceKm, ride.DurationMin,
		ride.Fare.Base, ride.Fare.Distance, ride.Fare.Time, ride.Fare.Surge, ride.Fare.Total,
		ride.Payment.Method, ride.Payment.Status,
		ride.Timeline.RequestedAt, ride.CreatedAt, ride.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("ride repo: Create: %w", err)
	}
	return nil
}

func (r *RideRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Ride, error) {
	q := TxorDB(ctx, r.db)

	row := q.QueryRow(ctx, `SELECT `+rideColumns+` FROM rides WHERE id = $1;`, id)
	ride, err := scanRide(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrRideNotFound
		}
		return nil, fmt.Errorf("ride repo: FindByID: %w", err)
	}
	return ride, nil
}

// AdvanceStatus moves the ride to the target status only if it still
// holds the expected one, so concurrent writers cannot double-apply a
// transition.
func (r *RideRepo) AdvanceStatus(ctx context.Context, id uuid.UUID, from, to types.RideStatus, at time.Time) error {
	q := TxorDB(ctx, r.db)

	query := `UPDATE rides SET status = $3, updated_at = $4` + timelineClause(to) + ` WHERE id = $1 AND status = $2;`

	tag, err := q.Exec(ctx, query, id, from, to, at)
	if err != nil {
		return fmt.Errorf("ride repo: AdvanceStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrInvalidTransition
	}
	return nil
}

// Accept claims a requested ride for a driver. The status guard makes
// the claim atomic: of any number of concurrent drivers exactly one
// update matches the row.
func (r *RideRepo) Accept(ctx context.Context, rideID, driverID uuid.UUID, eta time.Time, at time.Time) error {
	q := TxorDB(ctx, r.db)

	query := `
		UPDATE rides
		SET driver_id = $2, status = $3, estimated_arrival = $4, accepted_at = $5, updated_at = $5
		WHERE id = $1 AND status = $6;`

	tag, err := q.Exec(ctx, query, rideID, driverID, types.StatusAccepted, eta, at, types.StatusRequested)
	if err != nil {
		return fmt.Errorf("ride repo: Accept: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrRideNoLongerAvailable
	}
	return nil
}

func (r *RideRepo) Cancel(ctx context.Context, id uuid.UUID, from types.RideStatus, by types.UserRole, reason string, at time.Time) error {
	q := TxorDB(ctx, r.db)

	query := `
		UPDATE rides
		SET status = $3, cancelled_by = $4, cancellation_reason = $5, cancelled_at = $6, updated_at = $6
		WHERE id = $1 AND status = $2;`

	tag, err := q.Exec(ctx, query, id, from, types.StatusCancelled, by, reason, at)
	if err != nil {
		return fmt.Errorf("ride repo: Cancel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrInvalidTransition
	}
	return nil
}

func (r *RideRepo) SetRating(ctx context.Context, id uuid.UUID, role types.UserRole, rating models.Rating) error {
	q := TxorDB(ctx, r.db)

	var query string
	switch role {
	case types.RoleRider:
		query = `UPDATE rides SET rider_rating_score = $2, rider_rating_comment = $3
			WHERE id = $1 AND rider_rating_score = 0;`
	case types.RoleDriver:
		query = `UPDATE rides SET driver_rating_score = $2, driver_rating_comment = $3
			WHERE id = $1 AND driver_rating_score = 0;`
	default:
		return types.ErrForbidden
	}

	tag, err := q.Exec(ctx, query, id, rating.Score, rating.Comment)
	if err != nil {
		return fmt.Errorf("ride repo: SetRating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrAlreadyRated
	}
	return nil
}

func (r *RideRepo) CompletePayment(ctx context.Context, id uuid.UUID) error {
	q := TxorDB(ctx, r.db)

	_, err := q.Exec(ctx, `UPDATE rides SET payment_status = $2 WHERE id = $1;`, id, types.PaymentCompleted)
	if err != nil {
		return fmt.Errorf("ride repo: CompletePayment: %w", err)
	}
	return nil
}

func (r *RideRepo) History(ctx context.Context, userID uuid.UUID, status types.RideStatus, limit, offset int) ([]*models.Ride, int, error) {
	q := TxorDB(ctx, r.db)

	query := `
		SELECT ` + rideColumns + `, COUNT(*) OVER() AS total
		FROM rides
		WHERE (rider_id = $1 OR driver_id = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4;`

	rows, err := q.Query(ctx, query, userID, string(status), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ride repo: History: %w", err)
	}
	defer rows.Close()

	var (
		rides []*models.Ride
		total int
	)
	for rows.Next() {
		ride, err := scanRideWithTotal(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("ride repo: History scan: %w", err)
		}
		rides = append(rides, ride)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ride repo: History rows: %w", err)
	}
	return rides, total, nil
}

// ListRequested returns open rides whose pickup is within radiusKm of
// the given point, closest first, optionally narrowed to one ride
// type. The great-circle distance is computed in SQL so ordering and
// filtering stay in the database.
func (r *RideRepo) ListRequested(ctx context.Context, near models.Location, radiusKm float64, rideType types.RideType, limit int) ([]*models.Ride, error) {
	q := TxorDB(ctx, r.db)

	query := `
		SELECT ` + rideColumns + ` FROM (
			SELECT *,
				6371 * acos(least(1.0,
					cos(radians($1)) * cos(radians(pickup_lat)) * cos(radians(pickup_lon) - radians($2))
					+ sin(radians($1)) * sin(radians(pickup_lat))
				)) AS pickup_distance_km
			FROM rides
			WHERE status = $3
			  AND ($4 = '' OR ride_type = $4)
		) AS open_rides
		WHERE pickup_distance_km <= $5
		ORDER BY pickup_distance_km ASC
		LIMIT $6;`

	rows, err := q.Query(ctx, query, near.Latitude, near.Longitude, types.StatusRequested, string(rideType), radiusKm, limit)
	if err != nil {
		return nil, fmt.Errorf("ride repo: ListRequested: %w", err)
	}
	defer rows.Close()

	var rides []*models.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, fmt.Errorf("ride repo: ListRequested scan: %w", err)
		}
		rides = append(rides, ride)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ride repo: ListRequested rows: %w", err)
	}
	return rides, nil
}

func timelineClause(to types.RideStatus) string {
	switch to {
	case types.StatusAccepted:
		return ", accepted_at = $4"
	case types.StatusArrived:
		return ", arrived_at = $4"
	case types.StatusInProgress:
		return ", started_at = $4"
	case types.StatusCompleted:
		return ", completed_at = $4"
	case types.StatusCancelled:
		return ", cancelled_at = $4"
	default:
		return ""
	}
}

func scanRide(row pgx.Row) (*models.Ride, error) {
	var ride models.Ride
	err := row.Scan(rideScanDest(&ride)...)
	if err != nil {
		return nil, err
	}
	return &ride, nil
}

func scanRideWithTotal(row pgx.Row, total *int) (*models.Ride, error) {
	var ride models.Ride
	dest := append(rideScanDest(&ride), total)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &ride, nil
}

func rideScanDest(ride *models.Ride) []any {
	return []any{
		&ride.ID, &ride.RiderID, &ride.DriverID, &ride.Status, &ride.RideType,
		&ride.Pickup.Address, &ride.Pickup.Latitude, &ride.Pickup.Longitude,
		&ride.Destination.Address, &ride.Destination.Latitude, &ride.Destination.Longitude,
		&ride.DistanceKm, &ride.DurationMin,
		&ride.Fare.Base, &ride.Fare.Distance, &ride.Fare.Time, &ride.Fare.Surge, &ride.Fare.Total,
		&ride.Payment.Method, &ride.Payment.Status, &ride.Payment.TransactionID,
		&ride.RiderRating.Score, &ride.RiderRating.Comment,
		&ride.DriverRating.Score, &ride.DriverRating.Comment,
		&ride.CancelledBy, &ride.CancellationReason, &ride.EstimatedArrival,
		&ride.Timeline.RequestedAt, &ride.Timeline.AcceptedAt, &ride.Timeline.ArrivedAt,
		&ride.Timeline.StartedAt, &ride.Timeline.CompletedAt, &ride.Timeline.CancelledAt,
		&ride.CreatedAt, &ride.UpdatedAt,
	}
}

// FindActiveByDriver returns the driver's in-flight ride, or (nil, nil)
// when there is none.
func (r *RideRepo) FindActiveByDriver(ctx context.Context, driverID uuid.UUID) (*models.Ride, error) {
	q := TxorDB(ctx, r.db)

	query := `
		SELECT ` + rideColumns + `
		FROM rides
		WHERE driver_id = $1 AND status NOT IN ($2, $3)
		ORDER BY updated_at DESC
		LIMIT 1;`

	row := q.QueryRow(ctx, query, driverID, types.StatusCompleted, types.StatusCancelled)
	ride, err := scanRide(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ride repo: FindActiveByDriver: %w", err)
	}
	return ride, nil
}

// DriverStats aggregates the driver's ride counts and today's earnings.
// Running earnings totals live on the users row; this covers the
// per-day slice the dashboard shows.
func (r *RideRepo) DriverStats(ctx context.Context, driverID uuid.UUID) (*models.DriverDashboard, error) {
	q := TxorDB(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE created_at >= date_trunc('day', now())) AS today_rides,
			COALESCE(SUM(fare_total) FILTER (WHERE status = $2 AND completed_at >= date_trunc('day', now())), 0) AS today_earnings,
			COUNT(*) FILTER (WHERE status = $2) AS completed_rides,
			COUNT(*) FILTER (WHERE status = $3) AS cancelled_rides
		FROM rides
		WHERE driver_id = $1;`

	var stats models.DriverDashboard
	err := q.QueryRow(ctx, query, driverID, types.StatusCompleted, types.StatusCancelled).Scan(
		&stats.TodayRides, &stats.TodayEarnings, &stats.CompletedRides, &stats.CancelledRides,
	)
	if err != nil {
		return nil, fmt.Errorf("ride repo: DriverStats: %w", err)
	}
	return &stats, nil
}

// EarningsSince groups the driver's completed rides by day. Newest day
// first.
func (r *RideRepo) EarningsSince(ctx context.Context, driverID uuid.UUID, since time.Time) ([]models.EarningsBucket, error) {
	q := TxorDB(ctx, r.db)

	query := `
		SELECT
			date_trunc('day', completed_at) AS day,
			COUNT(*),
			COALESCE(SUM(fare_total), 0)
		FROM rides
		WHERE driver_id = $1 AND status = $2 AND completed_at >= $3
		GROUP BY day
		ORDER BY day DESC;`

	rows, err := q.Query(ctx, query, driverID, types.StatusCompleted, since)
	if err != nil {
		return nil, fmt.Errorf("ride repo: EarningsSince: %w", err)
	}
	defer rows.Close()

	var buckets []models.EarningsBucket
	for rows.Next() {
		var b models.EarningsBucket
		if err := rows.Scan(&b.Day, &b.Rides, &b.Amount); err != nil {
			return nil, fmt.Errorf("ride repo: EarningsSince scan: %w", err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ride repo: EarningsSince rows: %w", err)
	}
	return buckets, nil
}
