package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/freightpoint/ledger/internal/domain"
	"github.com/freightpoint/ledger/internal/infrastructure/auth"
	"github.com/freightpoint/ledger/internal/infrastructure/metrics"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// UserContextKey is the context key for the authenticated user
	UserContextKey ContextKey = "user"
)

// AuthMiddleware creates an authentication middleware. m may be nil.
func AuthMiddleware(jwtManager *auth.JWTManager, m *metrics.Metrics) func(http.Handler) http.Handler {
	authFailure := func(reason string) {
		if m != nil {
			m.AuthFailures.WithLabelValues(reason).Inc()
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				authFailure("missing_header")
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				authFailure("malformed_header")
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				authFailure("invalid_token")
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			user := &domain.User{
				ID:    claims.UserID,
				Email: claims.Email,
				Role:  claims.Role,
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole creates a middleware that checks for a specific role
func RequireRole(minRole domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := r.Context().Value(UserContextKey).(*domain.User)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			switch minRole {
			case domain.RoleAdmin:
				if user.Role != domain.RoleAdmin {
					http.Error(w, "insufficient permissions", http.StatusForbidden)
					return
				}
			case domain.RoleSupervisor:
				if !user.Role.CanViewAll() {
					http.Error(w, "insufficient permissions", http.StatusForbidden)
					return
				}
			case domain.RoleCustomer:
				// All authenticated users may act as customers.
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext extracts the authenticated user from context
func GetUserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*domain.User)
	return user, ok
}
