package middlewares

import (
	"crypto/subtle"
	"net/http"

	httperrors "github.com/clinicbook/clinicbook/internal/http/errors"
)

// AdminKeyHeader carries the operator key for the admin API.
const AdminKeyHeader = "X-Admin-API-Key"

// RequireAdminKey guards the operator admin API with a shared key. An empty
// configured key disables the surface entirely rather than opening it.
func RequireAdminKey(key string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				httperrors.WriteError(w, httperrors.ErrNotFound)
				return
			}

			presented := r.Header.Get(AdminKeyHeader)
			if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
				httperrors.WriteError(w, httperrors.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
