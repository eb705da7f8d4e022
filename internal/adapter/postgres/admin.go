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

type AdminRepo struct {
	db *pgxpool.Pool
}

func NewAdminRepo(db *pgxpool.Pool) *AdminRepo {
	return &AdminRepo{db: db}
}

func (r *AdminRepo) GetOverview(ctx context.Context) (*models.Overview, error) {
	q := TxorDB(ctx, r.db)

	ov := &models.Overview{RidesByStatus: make(map[types.RideStatus]int)}

	rows, err := q.Query(ctx, `SELECT status, COUNT(*) FROM rides GROUP BY status;`)
	if err != nil {
		return nil, fmt.Errorf("admin repo: GetOverview rides: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status types.RideStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("admin repo: GetOverview scan: %w", err)
		}
		ov.RidesByStatus[status] = count
		ov.TotalRides += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("admin repo: GetOverview rows: %w", err)
	}

	userQuery := `
		SELECT
			COUNT(*) FILTER (WHERE role = 'rider'),
			COUNT(*) FILTER (WHERE role = 'driver'),
			COUNT(*) FILTER (WHERE role = 'driver' AND available)
		FROM users;`
	if err := q.QueryRow(ctx, userQuery).Scan(&ov.TotalRiders, &ov.TotalDrivers, &ov.OnlineDrivers); err != nil {
		return nil, fmt.Errorf("admin repo: GetOverview users: %w", err)
	}

	revenueQuery := `
		SELECT
			COALESCE(SUM(fare_total), 0),
			COALESCE(SUM(fare_total) FILTER (WHERE completed_at >= date_trunc('day', now())), 0)
		FROM rides
		WHERE status = 'completed';`
	if err := q.QueryRow(ctx, revenueQuery).Scan(&ov.TotalRevenue, &ov.RevenueToday); err != nil {
		return nil, fmt.Errorf("admin repo: GetOverview revenue: %w", err)
	}

	return ov, nil
}

func (r *AdminRepo) GetActiveRides(ctx context.Context) ([]models.ActiveRide, error) {
	q := TxorDB(ctx, r.db)

	query := `
		SELECT
			r.id, r.status, r.rider_id, r.driver_id,
			r.pickup_address, r.pickup_lat, r.pickup_lon,
			r.dest_address, r.dest_lat, r.dest_lon,
			u.latitude, u.longitude,
			r.requested_at
		FROM rides r
		LEFT JOIN users u ON u.id = r.driver_id
		WHERE r.status NOT IN ('completed', 'cancelled')
		ORDER BY r.requested_at ASC;`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("admin repo: GetActiveRides: %w", err)
	}
	defer rows.Close()

	var rides []models.ActiveRide
	for rows.Next() {
		var (
			ride     models.ActiveRide
			lat, lon *float64
		)
		err := rows.Scan(
			&ride.RideID, &ride.Status, &ride.RiderID, &ride.DriverID,
			&ride.Pickup.Address, &ride.Pickup.Latitude, &ride.Pickup.Longitude,
			&ride.Destination.Address, &ride.Destination.Latitude, &ride.Destination.Longitude,
			&lat, &lon,
			&ride.RequestedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("admin repo: GetActiveRides scan: %w", err)
		}
		if lat != nil && lon != nil {
			ride.DriverLocation = &models.Location{Latitude: *lat, Longitude: *lon}
		}
		rides = append(rides, ride)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("admin repo: GetActiveRides rows: %w", err)
	}
	return rides, nil
}

// ListRides pages through the full ride log, optionally filtered by
// status, newest first.
func (r *AdminRepo) ListRides(ctx context.Context, status types.RideStatus, limit, offset int) ([]*models.Ride, int, error) {
	q := TxorDB(ctx, r.db)

	query := `
		SELECT ` + rideColumns + `, COUNT(*) OVER() AS total
		FROM rides
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3;`

	rows, err := q.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("admin repo: ListRides: %w", err)
	}
	defer rows.Close()

	var (
		rides []*models.Ride
		total int
	)
	for rows.Next() {
		ride, err := scanRideWithTotal(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("admin repo: ListRides scan: %w", err)
		}
		rides = append(rides, ride)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("admin repo: ListRides rows: %w", err)
	}
	return rides, total, nil
}

// Analytics aggregates ride volume, completion and revenue over the
// window starting at since, with a per-day series.
func (r *AdminRepo) Analytics(ctx context.Context, since time.Time) (*models.Analytics, error) {
	q := TxorDB(ctx, r.db)

	a := &models.Analytics{RidesByType: make(map[types.RideType]int)}

	summary := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COALESCE(AVG(fare_total) FILTER (WHERE status = 'completed'), 0)
		FROM rides
		WHERE created_at >= $1;`
	if err := q.QueryRow(ctx, summary, since).Scan(&a.TotalRides, &a.CompletedRides, &a.AverageFare); err != nil {
		return nil, fmt.Errorf("admin repo: Analytics summary: %w", err)
	}

	typeRows, err := q.Query(ctx, `SELECT ride_type, COUNT(*) FROM rides WHERE created_at >= $1 GROUP BY ride_type;`, since)
	if err != nil {
		return nil, fmt.Errorf("admin repo: Analytics types: %w", err)
	}
	defer typeRows.Close()
	for typeRows.Next() {
		var (
			rt    types.RideType
			count int
		)
		if err := typeRows.Scan(&rt, &count); err != nil {
			return nil, fmt.Errorf("admin repo: Analytics types scan: %w", err)
		}
		a.RidesByType[rt] = count
	}
	if err := typeRows.Err(); err != nil {
		return nil, fmt.Errorf("admin repo: Analytics types rows: %w", err)
	}

	daily := `
		SELECT
			date_trunc('day', created_at) AS day,
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COALESCE(SUM(fare_total) FILTER (WHERE status = 'completed'), 0)
		FROM rides
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day DESC;`
	dayRows, err := q.Query(ctx, daily, since)
	if err != nil {
		return nil, fmt.Errorf("admin repo: Analytics daily: %w", err)
	}
	defer dayRows.Close()
	for dayRows.Next() {
		var d models.DailyRideStats
		if err := dayRows.Scan(&d.Day, &d.Rides, &d.Completed, &d.Cancelled, &d.Revenue); err != nil {
			return nil, fmt.Errorf("admin repo: Analytics daily scan: %w", err)
		}
		a.Daily = append(a.Daily, d)
	}
	if err := dayRows.Err(); err != nil {
		return nil, fmt.Errorf("admin repo: Analytics daily rows: %w", err)
	}

	return a, nil
}

// FindUser loads one user row for the admin views.
func (r *AdminRepo) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	q := TxorDB(ctx, r.db)

	row := q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1;`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("admin repo: FindUser: %w", err)
	}
	return u, nil
}

// SetUserActive flips the account's login flag.
func (r *AdminRepo) SetUserActive(ctx context.Context, id uuid.UUID, active bool) error {
	q := TxorDB(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE users SET active = $2, updated_at = now() WHERE id = $1;`, id, active)
	if err != nil {
		return fmt.Errorf("admin repo: SetUserActive: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrUserNotFound
	}
	return nil
}

func (r *AdminRepo) ListUsers(ctx context.Context, role string, limit, offset int) ([]*models.User, int, error) {
	q := TxorDB(ctx, r.db)

	query := `
		SELECT ` + userColumns + `, COUNT(*) OVER() AS total
		FROM users
		WHERE ($1 = '' OR role = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3;`

	rows, err := q.Query(ctx, query, role, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("admin repo: ListUsers: %w", err)
	}
	defer rows.Close()

	var (
		users []*models.User
		total int
	)
	for rows.Next() {
		var (
			u        models.User
			lat, lon *float64
		)
		err := rows.Scan(
			&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.Role,
			&u.Rating.Average, &u.Rating.Count,
			&u.Vehicle.Make, &u.Vehicle.Model, &u.Vehicle.Plate, &u.Vehicle.Color,
			&u.Earnings.Total, &u.Earnings.ThisWeek, &u.Earnings.ThisMonth,
			&u.Available, &lat, &lon, &u.Active,
			&u.CreatedAt, &u.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("admin repo: ListUsers scan: %w", err)
		}
		if lat != nil && lon != nil {
			u.Location = &models.Location{Latitude: *lat, Longitude: *lon}
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("admin repo: ListUsers rows: %w", err)
	}
	return users, total, nil
}
