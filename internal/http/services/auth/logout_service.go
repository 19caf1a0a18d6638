package auth

import (
	"context"
	"time"

	"github.com/clinicbook/clinicbook/internal/http/middlewares"
	jwtx "github.com/clinicbook/clinicbook/internal/jwt"
	"github.com/clinicbook/clinicbook/internal/observability/logger"
)

type logoutService struct {
	deps Deps
}

// NewLogoutService builds the logout service.
func NewLogoutService(deps Deps) LogoutService {
	return &logoutService{deps: deps}
}

// Logout places the token's ID on the revocation list until the token
// would have expired on its own. Logging out twice is a no-op.
func (s *logoutService) Logout(ctx context.Context, claims jwtx.Claims) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.logout"),
		logger.Op("Logout"),
		logger.UserID(claims.UserID),
	)

	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		// Already past its expiry; nothing left to revoke.
		return nil
	}

	if err := s.deps.Cache.Set(ctx, middlewares.RevocationKey(claims.JTI), "1", ttl); err != nil {
		log.Error("revocation store failed", logger.Err(err))
		return ErrInternal
	}

	log.Info("session revoked")
	return nil
}
