package auth

import (
	"context"
	"errors"
	"strings"

	dto "github.com/clinicbook/clinicbook/internal/http/dto/auth"
	"github.com/clinicbook/clinicbook/internal/observability/logger"
	"github.com/clinicbook/clinicbook/internal/security/password"
	"github.com/clinicbook/clinicbook/internal/store/core"
	"github.com/clinicbook/clinicbook/internal/validation"
)

type registerService struct {
	deps Deps
}

// NewRegisterService builds the registration service.
func NewRegisterService(deps Deps) RegisterService {
	return &registerService{deps: deps}
}

func (s *registerService) Register(ctx context.Context, in dto.RegisterRequest) (*RegistrationResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.register"),
		logger.Op("Register"),
	)

	in.Name = strings.TrimSpace(in.Name)
	in.Email = validation.NormalizeEmail(in.Email)

	if missing := validation.Missing(map[string]string{
		"name":     in.Name,
		"email":    in.Email,
		"password": in.Password,
	}); len(missing) > 0 {
		return nil, ErrMissingFields
	}
	if !validation.Email(in.Email) {
		return nil, ErrInvalidEmail
	}
	if ok, _ := s.deps.Policy.Validate(in.Password); !ok {
		return nil, ErrPolicyViolation
	}

	role := core.RolePatient
	if s.deps.AllowRoleSelection && in.Role != "" {
		if !core.ValidRole(core.Role(in.Role)) {
			return nil, ErrInvalidRole
		}
		role = core.Role(in.Role)
	}

	hash, err := password.Hash(s.deps.HashParams, in.Password)
	if err != nil {
		log.Error("password hashing failed", logger.Err(err))
		return nil, ErrInternal
	}

	user := &core.User{
		Name:          in.Name,
		Email:         in.Email,
		PasswordHash:  hash,
		Role:          role,
		EmailVerified: !s.deps.VerifyEnabled,
	}
	if err := s.deps.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, core.ErrEmailTaken) {
			log.Debug("email already registered")
			return nil, ErrEmailTaken
		}
		log.Error("create user failed", logger.Err(err))
		return nil, ErrInternal
	}

	log = log.With(logger.UserID(user.ID))

	if s.deps.VerifyEnabled {
		if err := issueVerification(ctx, s.deps, user); err != nil {
			// The pending record is recoverable through resend, so the
			// registration itself still succeeds.
			log.Warn("verification delivery failed", logger.Err(err))
		}
		log.Info("user registered, verification pending")
		return &RegistrationResult{
			Pending: &PendingVerification{UserID: user.ID, Email: user.Email},
		}, nil
	}

	token, _, err := s.deps.Issuer.Issue(user.ID, user.Email, user.Name, string(user.Role))
	if err != nil {
		log.Error("token issue failed", logger.Err(err))
		return nil, ErrTokenIssueFailed
	}

	log.Info("user registered")
	return &RegistrationResult{
		Issued: &IssuedSession{Token: token, User: userPayload(user)},
	}, nil
}
