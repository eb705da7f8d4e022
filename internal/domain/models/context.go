package models

import (
	"context"

	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

type ctxKey struct{}

// Claims is the authenticated identity attached to a request context by
// the auth middleware.
type Claims struct {
	UserID uuid.UUID
	Role   types.UserRole
}

func WithUser(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// UserFromContext returns the authenticated user, or false when the
// request was not authenticated.
func UserFromContext(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(Claims)
	return c, ok
}
