package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/clinicbook/clinicbook/internal/cache"
	httperrors "github.com/clinicbook/clinicbook/internal/http/errors"
	jwtx "github.com/clinicbook/clinicbook/internal/jwt"
	"github.com/clinicbook/clinicbook/internal/metrics"
	"github.com/clinicbook/clinicbook/internal/observability/logger"
)

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Parse(token string) (jwtx.Claims, error)
}

// RevocationKey is the cache key for a revoked token ID.
func RevocationKey(jti string) string { return "revoked:" + jti }

// RequireAuth validates "Authorization: Bearer <token>" and stores the claims
// in the request context. Missing, malformed, invalid, expired and revoked
// tokens are all rejected with 401; the downstream handler never runs.
// No store round-trip happens here: identity and role come from the token.
func RequireAuth(verifier TokenVerifier, revocations cache.Client) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := strings.TrimSpace(r.Header.Get("Authorization"))
			if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token", error_description="missing bearer token"`)
				metrics.AuthFailuresTotal.WithLabelValues("unauthenticated").Inc()
				httperrors.WriteError(w, httperrors.ErrUnauthenticated)
				return
			}
			raw := strings.TrimSpace(ah[len("Bearer "):])

			claims, err := verifier.Parse(raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				metrics.AuthFailuresTotal.WithLabelValues("unauthenticated").Inc()
				httperrors.WriteError(w, httperrors.ErrUnauthenticated)
				return
			}

			if revocations != nil && isRevoked(r.Context(), revocations, claims.JTI) {
				metrics.AuthFailuresTotal.WithLabelValues("unauthenticated").Inc()
				httperrors.WriteError(w, httperrors.ErrUnauthenticated)
				return
			}

			ctx := WithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// isRevoked fails open: if the revocation cache errors, the token is
// treated as live and the error is logged. A revoked token is at most
// accepted for the rest of its lifetime.
func isRevoked(ctx context.Context, revocations cache.Client, jti string) bool {
	if jti == "" {
		return false
	}
	_, err := revocations.Get(ctx, RevocationKey(jti))
	switch {
	case err == nil:
		return true
	case errors.Is(err, cache.ErrNotFound):
		return false
	default:
		logger.From(ctx).Warn("revocation check failed, accepting token",
			logger.Component("middlewares.auth"),
			logger.Err(err),
		)
		return false
	}
}
