package middlewares

import (
	"math"
	"net"
	"net/http"
	"strconv"

	httperrors "github.com/clinicbook/clinicbook/internal/http/errors"
	"github.com/clinicbook/clinicbook/internal/metrics"
	"github.com/clinicbook/clinicbook/internal/observability/logger"
	"github.com/clinicbook/clinicbook/internal/rate"
)

// WithRateLimit gates a route behind a fixed-window limiter keyed by
// "<name>:<client ip>". A nil limiter disables the gate.
func WithRateLimit(limiter rate.Limiter, name string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}
			key := name + ":" + clientIP(r)
			res, err := limiter.Allow(r.Context(), key)
			if err != nil {
				// limiter backend down: fail open, the endpoint still works
				logger.From(r.Context()).Warn("rate limiter unavailable", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			if !res.Allowed {
				if res.RetryAfter > 0 {
					secs := int(math.Ceil(res.RetryAfter.Seconds()))
					if secs < 1 {
						secs = 1
					}
					w.Header().Set("Retry-After", strconv.Itoa(secs))
				}
				metrics.AuthFailuresTotal.WithLabelValues("rate_limited").Inc()
				httperrors.WriteError(w, httperrors.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
