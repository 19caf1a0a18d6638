package auth

import (
	"context"
	"errors"

	dto "github.com/clinicbook/clinicbook/internal/http/dto/auth"
	"github.com/clinicbook/clinicbook/internal/observability/logger"
	"github.com/clinicbook/clinicbook/internal/security/password"
	"github.com/clinicbook/clinicbook/internal/store/core"
	"github.com/clinicbook/clinicbook/internal/validation"
)

type loginService struct {
	deps Deps
}

// NewLoginService builds the login service.
func NewLoginService(deps Deps) LoginService {
	return &loginService{deps: deps}
}

func (s *loginService) Login(ctx context.Context, in dto.LoginRequest) (*IssuedSession, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("Login"),
	)

	in.Email = validation.NormalizeEmail(in.Email)
	if in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.deps.Repo.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			log.Debug("user not found")
			return nil, ErrInvalidCredentials
		}
		log.Error("user lookup failed", logger.Err(err))
		return nil, ErrInternal
	}

	log = log.With(logger.UserID(user.ID))

	if !password.Verify(in.Password, user.PasswordHash) {
		log.Debug("password check failed")
		return nil, ErrInvalidCredentials
	}

	// Checked only after the password verifies, so an unverified account
	// is never revealed to a caller without its credentials.
	if s.deps.VerifyEnabled && !user.EmailVerified {
		log.Info("email not verified")
		return nil, ErrEmailNotVerified
	}

	token, _, err := s.deps.Issuer.Issue(user.ID, user.Email, user.Name, string(user.Role))
	if err != nil {
		log.Error("token issue failed", logger.Err(err))
		return nil, ErrTokenIssueFailed
	}

	log.Info("login successful")
	return &IssuedSession{Token: token, User: userPayload(user)}, nil
}
