package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/clinicbook/clinicbook/internal/cache"
	"github.com/clinicbook/clinicbook/internal/email"
	"github.com/clinicbook/clinicbook/internal/observability/logger"
	"github.com/clinicbook/clinicbook/internal/security/otp"
	"github.com/clinicbook/clinicbook/internal/store/core"
)

// otpKey is the cache key for the pending verification record of a user.
// One key per user: a Set on it supersedes any earlier code atomically.
func otpKey(userID string) string { return "otp:" + userID }

// otpRecord is the cached pending-verification state. ExpiresAt is carried
// in the value so attempt increments can re-Set without extending the TTL.
type otpRecord struct {
	Code      string    `json:"code"`
	Attempts  int       `json:"attempts"`
	ExpiresAt time.Time `json:"expires_at"`
}

// issueVerification generates a fresh code, stores it and emails it.
// Called on registration and on resend; both paths overwrite whatever
// pending record exists.
func issueVerification(ctx context.Context, deps Deps, user *core.User) error {
	code, err := otp.NewCode()
	if err != nil {
		return err
	}

	rec := otpRecord{
		Code:      code,
		Attempts:  0,
		ExpiresAt: time.Now().Add(deps.VerifyTTL),
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := deps.Cache.Set(ctx, otpKey(user.ID), string(raw), deps.VerifyTTL); err != nil {
		return err
	}

	subject, html, text, err := email.RenderVerify(email.VerifyVars{
		Name:    user.Name,
		Code:    code,
		Expires: deps.VerifyTTL,
	})
	if err != nil {
		return err
	}
	return deps.Sender.Send(user.Email, subject, html, text)
}

type verifyService struct {
	deps Deps
}

// NewVerifyService builds the verification-code service.
func NewVerifyService(deps Deps) VerifyService {
	return &verifyService{deps: deps}
}

// lookupUser reads through the user cache when one is wired so that
// repeated verify and resend calls for the same user do not hammer the
// store. Not-found errors surface as core.ErrNotFound either way.
func (s *verifyService) lookupUser(ctx context.Context, userID string) (*core.User, error) {
	if s.deps.Users != nil {
		return s.deps.Users.Get(ctx, userID)
	}
	return s.deps.Repo.GetUserByID(ctx, userID)
}

func (s *verifyService) VerifyOTP(ctx context.Context, userID, code string) (*IssuedSession, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.verify"),
		logger.Op("VerifyOTP"),
		logger.UserID(userID),
	)

	if userID == "" || code == "" {
		return nil, ErrMissingFields
	}

	user, err := s.lookupUser(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			log.Debug("user not found")
			return nil, ErrInvalidCode
		}
		log.Error("user lookup failed", logger.Err(err))
		return nil, ErrInternal
	}
	if user.EmailVerified {
		return nil, ErrAlreadyVerified
	}

	key := otpKey(userID)
	raw, err := s.deps.Cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			log.Debug("no pending code")
			return nil, ErrInvalidCode
		}
		log.Error("code lookup failed", logger.Err(err))
		return nil, ErrInternal
	}

	var rec otpRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		log.Error("pending record corrupt", logger.Err(err))
		_ = s.deps.Cache.Delete(ctx, key)
		return nil, ErrInvalidCode
	}

	remaining := time.Until(rec.ExpiresAt)
	if remaining <= 0 {
		_ = s.deps.Cache.Delete(ctx, key)
		log.Debug("code expired")
		return nil, ErrInvalidCode
	}

	if !otp.Equal(code, rec.Code) {
		rec.Attempts++
		if rec.Attempts >= s.deps.MaxAttempts {
			// Out of attempts: the record is burned and a resend is the
			// only way forward.
			_ = s.deps.Cache.Delete(ctx, key)
			log.Info("verification attempts exhausted", logger.Count(rec.Attempts))
		} else if buf, merr := json.Marshal(rec); merr == nil {
			// Re-Set keeps the original expiry; a bad guess must not
			// extend the code's lifetime.
			_ = s.deps.Cache.Set(ctx, key, string(buf), remaining)
		}
		log.Debug("code mismatch", logger.Count(rec.Attempts))
		return nil, ErrInvalidCode
	}

	if err := s.deps.Cache.Delete(ctx, key); err != nil {
		log.Warn("pending record delete failed", logger.Err(err))
	}
	if err := s.deps.Repo.MarkEmailVerified(ctx, userID); err != nil {
		log.Error("mark verified failed", logger.Err(err))
		return nil, ErrInternal
	}
	user.EmailVerified = true
	if s.deps.Users != nil {
		s.deps.Users.Invalidate(userID)
	}

	token, _, err := s.deps.Issuer.Issue(user.ID, user.Email, user.Name, string(user.Role))
	if err != nil {
		log.Error("token issue failed", logger.Err(err))
		return nil, ErrTokenIssueFailed
	}

	log.Info("email verified")
	return &IssuedSession{Token: token, User: userPayload(user)}, nil
}

func (s *verifyService) ResendOTP(ctx context.Context, userID string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.verify"),
		logger.Op("ResendOTP"),
		logger.UserID(userID),
	)

	if userID == "" {
		return ErrMissingFields
	}

	user, err := s.lookupUser(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			log.Debug("user not found")
			return ErrUserNotFound
		}
		log.Error("user lookup failed", logger.Err(err))
		return ErrInternal
	}
	if user.EmailVerified {
		return ErrAlreadyVerified
	}

	if err := issueVerification(ctx, s.deps, user); err != nil {
		log.Error("verification delivery failed", logger.Err(err))
		return ErrInternal
	}

	log.Info("verification code resent")
	return nil
}
