package middlewares

import (
	"net/http"

	httperrors "github.com/clinicbook/clinicbook/internal/http/errors"
	"github.com/clinicbook/clinicbook/internal/metrics"
	"github.com/clinicbook/clinicbook/internal/store/core"
)

// RequireRole enforces an exact role match on the claims set by RequireAuth.
// No hierarchy, no wildcard, no multi-role. A valid identity with the wrong
// role gets 403, which is distinct from the 401 of a failed authentication.
// Must run after RequireAuth.
func RequireRole(required core.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok {
				metrics.AuthFailuresTotal.WithLabelValues("unauthenticated").Inc()
				httperrors.WriteError(w, httperrors.ErrUnauthenticated)
				return
			}
			if core.Role(claims.Role) != required {
				metrics.AuthFailuresTotal.WithLabelValues("forbidden").Inc()
				httperrors.WriteError(w, httperrors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
