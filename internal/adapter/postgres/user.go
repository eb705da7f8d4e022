package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/pkg/postgres"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `
	id, email, password_hash, name, phone, role,
	rating_average, rating_count,
	vehicle_make, vehicle_model, vehicle_plate, vehicle_color,
	earnings_total, earnings_week, earnings_month,
	available, latitude, longitude, active,
	created_at, updated_at`

func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	q := TxorDB(ctx, r.db)

	query := `
		INSERT INTO users (
			id, email, password_hash, name, phone, role,
			vehicle_make, vehicle_model, vehicle_plate, vehicle_color,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`

	_, err := q.Exec(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Phone, u.Role,
		u.Vehicle.Make, u.Vehicle.Model, u.Vehicle.Plate, u.Vehicle.Color,
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return types.ErrEmailTaken
		}
		return fmt.Errorf("user repo: Create: %w", err)
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	q := TxorDB(ctx, r.db)

	row := q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1;`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("user repo: FindByID: %w", err)
	}
	return u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	q := TxorDB(ctx, r.db)

	row := q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1;`, email)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("user repo: FindByEmail: %w", err)
	}
	return u, nil
}

// ApplyRating folds one score into the stored running average with a
// single atomic update.
func (r *UserRepo) ApplyRating(ctx context.Context, userID uuid.UUID, score int) error {
	q := TxorDB(ctx, r.db)

	query := `
		UPDATE users
		SET rating_average = (rating_average * rating_count + $2) / (rating_count + 1),
		    rating_count = rating_count + 1,
		    updated_at = now()
		WHERE id = $1;`

	tag, err := q.Exec(ctx, query, userID, score)
	if err != nil {
		return fmt.Errorf("user repo: ApplyRating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrUserNotFound
	}
	return nil
}

// AddEarnings credits a completed fare into all earning buckets.
func (r *UserRepo) AddEarnings(ctx context.Context, driverID uuid.UUID, amount float64) error {
	q := TxorDB(ctx, r.db)

	query := `
		UPDATE users
		SET earnings_total = earnings_total + $2,
		    earnings_week = earnings_week + $2,
		    earnings_month = earnings_month + $2,
		    updated_at = now()
		WHERE id = $1;`

	tag, err := q.Exec(ctx, query, driverID, amount)
	if err != nil {
		return fmt.Errorf("user repo: AddEarnings: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) SetAvailability(ctx context.Context, driverID uuid.UUID, available bool) error {
	q := TxorDB(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE users SET available = $2, updated_at = now() WHERE id = $1 AND role = $3;`,
		driverID, available, types.RoleDriver)
	if err != nil {
		return fmt.Errorf("user repo: SetAvailability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrDriverNotFound
	}
	return nil
}

func (r *UserRepo) UpdateLocation(ctx context.Context, driverID uuid.UUID, loc models.Location) error {
	q := TxorDB(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE users SET latitude = $2, longitude = $3, updated_at = now() WHERE id = $1 AND role = $4;`,
		driverID, loc.Latitude, loc.Longitude, types.RoleDriver)
	if err != nil {
		return fmt.Errorf("user repo: UpdateLocation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrDriverNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		u        models.User
		lat, lon *float64
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.Role,
		&u.Rating.Average, &u.Rating.Count,
		&u.Vehicle.Make, &u.Vehicle.Model, &u.Vehicle.Plate, &u.Vehicle.Color,
		&u.Earnings.Total, &u.Earnings.ThisWeek, &u.Earnings.ThisMonth,
		&u.Available, &lat, &lon, &u.Active,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lat != nil && lon != nil {
		u.Location = &models.Location{Latitude: *lat, Longitude: *lon}
	}
	return &u, nil
}

// ListNearby returns available drivers within radiusKm of a point,
// closest first. Distance is computed in SQL, same as the open ride
// search.
func (r *UserRepo) ListNearby(ctx context.Context, near models.Location, radiusKm float64, limit int) ([]*models.User, error) {
	q := TxorDB(ctx, r.db)

	query := `
		SELECT ` + userColumns + ` FROM (
			SELECT *,
				6371 * acos(least(1.0,
					cos(radians($1)) * cos(radians(latitude)) * cos(radians(longitude) - radians($2))
					+ sin(radians($1)) * sin(radians(latitude))
			)) AS driver_distance_km
			FROM users
			WHERE role = 'driver' AND available AND latitude IS NOT NULL AND longitude IS NOT NULL
		) AS online_drivers
		WHERE driver_distance_km <= $3
		ORDER BY driver_distance_km ASC
		LIMIT $4;`

	rows, err := q.Query(ctx, query, near.Latitude, near.Longitude, radiusKm, limit)
	if err != nil {
		return nil, fmt.Errorf("user repo: ListNearby: %w", err)
	}
	defer rows.Close()

	var drivers []*models.User
	for rows.Next() {
		d, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("user repo: ListNearby scan: %w", err)
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("user repo: ListNearby rows: %w", err)
	}
	return drivers, nil
}
