package middlewares

import (
	"context"

	jwtx "github.com/clinicbook/clinicbook/internal/jwt"
)

type claimsKey struct{}
type requestIDKey struct{}

// WithClaims annotates the context with the verified token claims.
func WithClaims(ctx context.Context, c jwtx.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// GetClaims returns the claims set by RequireAuth. ok is false on routes that
// did not pass through it.
func GetClaims(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(jwtx.Claims)
	return c, ok
}

func setRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// GetRequestID returns the request ID injected by WithRequestID, or "".
func GetRequestID(ctx context.Context) string {
	rid, _ := ctx.Value(requestIDKey{}).(string)
	return rid
}
