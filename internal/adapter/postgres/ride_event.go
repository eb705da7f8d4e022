package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

// RideEventRepo is the append-only audit trail of ride status changes.
type RideEventRepo struct {
	db *pgxpool.Pool
}

func NewRideEventRepo(db *pgxpool.Pool) *RideEventRepo {
	return &RideEventRepo{db: db}
}

func (r *RideEventRepo) Append(ctx context.Context, ev models.RideEvent) error {
	q := TxorDB(ctx, r.db)

	query := `
		INSERT INTO ride_events (ride_id, old_status, new_status, actor_id, actor_role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);`

	_, err := q.Exec(ctx, query, ev.RideID, ev.OldStatus, ev.NewStatus, ev.ActorID, ev.ActorRole, ev.CreatedAt)
	if err != nil {
		return fmt.Errorf("ride event repo: Append: %w", err)
	}
	return nil
}

func (r *RideEventRepo) ListByRide(ctx context.Context, rideID uuid.UUID) ([]models.RideEvent, error) {
	q := TxorDB(ctx, r.db)

	query := `
		SELECT id, ride_id, old_status, new_status, actor_id, actor_role, created_at
		FROM ride_events
		WHERE ride_id = $1
		ORDER BY id ASC;`

	rows, err := q.Query(ctx, query, rideID)
	if err != nil {
		return nil, fmt.Errorf("ride event repo: ListByRide: %w", err)
	}
	defer rows.Close()

	var events []models.RideEvent
	for rows.Next() {
		var ev models.RideEvent
		if err := rows.Scan(&ev.ID, &ev.RideID, &ev.OldStatus, &ev.NewStatus, &ev.ActorID, &ev.ActorRole, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("ride event repo: ListByRide scan: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ride event repo: ListByRide rows: %w", err)
	}
	return events, nil
}
