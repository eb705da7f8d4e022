package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/internal/domain/types"
	wrap "github.com/shubinsengi1/ubertest/pkg/logger/wrapper"
)

// Auth validates the bearer token and injects the claims into the
// context. Requests without a token stay anonymous; protected routes
// reject them in RequireRoles.
func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(header)
		if err != nil {
			errorResponse(w, http.StatusUnauthorized, err.Error())
			return
		}

		claims, err := m.auth.Identify(ctx, token)
		if err != nil {
			m.log.Error(wrap.ErrorCtx(ctx, err), "failed to authenticate user", err)
			errorResponse(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		ctx = models.WithUser(ctx, claims)
		ctx = wrap.WithUserID(ctx, claims.UserID.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles allows only authenticated users holding one of the given
// roles.
func (m *Middleware) RequireRoles(next http.HandlerFunc, allowedRoles ...types.UserRole) http.Handler {
	allowed := make(map[types.UserRole]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := models.UserFromContext(r.Context())
		if !ok {
			errorResponse(w, http.StatusUnauthorized, "authorization required")
			return
		}
		if len(allowed) > 0 {
			if _, ok := allowed[claims.Role]; !ok {
				errorResponse(w, http.StatusForbidden, "forbidden: insufficient role")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

func extractBearerToken(header string) (string, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("invalid Authorization header format")
	}
	return parts[1], nil
}
