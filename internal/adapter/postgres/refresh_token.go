package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

type RefreshTokenRepo struct {
	db *pgxpool.Pool
}

func NewRefreshTokenRepo(db *pgxpool.Pool) *RefreshTokenRepo {
	return &RefreshTokenRepo{db: db}
}

func (r *RefreshTokenRepo) Save(ctx context.Context, t *models.RefreshToken) error {
	q := TxorDB(ctx, r.db)

	query := `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5);`

	_, err := q.Exec(ctx, query, t.ID, t.UserID, t.TokenHash, t.ExpiresAt, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("refresh token repo: Save: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepo) Get(ctx context.Context, id uuid.UUID) (*models.RefreshToken, error) {
	q := TxorDB(ctx, r.db)

	query := `
		SELECT id, user_id, token_hash, expires_at, created_at, revoked_at
		FROM refresh_tokens
		WHERE id = $1;`

	var t models.RefreshToken
	err := q.QueryRow(ctx, query, id).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt, &t.RevokedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("refresh token repo: Get: %w", err)
	}
	return &t, nil
}

func (r *RefreshTokenRepo) Revoke(ctx context.Context, id uuid.UUID) error {
	q := TxorDB(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE refresh_tokens SET revoked_at = now() WHERE id = $1 AND revoked_at IS NULL;`, id)
	if err != nil {
		return fmt.Errorf("refresh token repo: Revoke: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrInvalidToken
	}
	return nil
}
