package middleware

import (
	"context"

	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/pkg/logger"
)

type (
	// Identity resolves a bearer token into request claims.
	Identity interface {
		Identify(ctx context.Context, token string) (models.Claims, error)
	}

	Middleware struct {
		auth Identity
		log  logger.Logger
	}
)

func NewMiddleware(auth Identity, log logger.Logger) *Middleware {
	return &Middleware{
		auth: auth,
		log:  log,
	}
}
