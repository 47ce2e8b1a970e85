package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/shareledger/internal/domain"
	"github.com/iho/shareledger/internal/infrastructure/auth"
	"github.com/iho/shareledger/internal/infrastructure/metrics"
)

// OwnerHeader names the owner when authentication is disabled.
const OwnerHeader = "X-Owner-ID"

// AuthMiddleware requires a Bearer token and puts its owner in the context.
func AuthMiddleware(jwtManager *auth.JWTManager, m *metrics.Metrics) func(http.Handler) http.Handler {
	fail := func(w http.ResponseWriter, reason, message string) {
		if m != nil {
			m.AuthFailures.WithLabelValues(reason).Inc()
		}
		writeError(w, http.StatusUnauthorized, message)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				fail(w, "missing", "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				fail(w, "malformed", "invalid authorization header format")
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				if errors.Is(err, domain.ErrExpiredToken) {
					fail(w, "expired", "token has expired")
					return
				}
				fail(w, "invalid", "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(withOwner(r, claims.Owner())))
		})
	}
}

// DevOwnerMiddleware trusts the X-Owner-ID header. Only for AUTH_ENABLED=false.
func DevOwnerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID := strings.TrimSpace(r.Header.Get(OwnerHeader))
		if ownerID == "" {
			writeError(w, http.StatusUnauthorized, "missing "+OwnerHeader+" header")
			return
		}

		next.ServeHTTP(w, r.WithContext(withOwner(r, &domain.Owner{ID: ownerID})))
	})
}

func withOwner(r *http.Request, owner *domain.Owner) context.Context {
	ctx := domain.ContextWithOwner(r.Context(), owner)
	zerolog.Ctx(ctx).UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("owner_id", owner.ID)
	})
	return ctx
}
