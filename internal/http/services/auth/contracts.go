// Package auth implements the registration, login, verification and logout
// flows. Controllers stay thin; every rule lives here.
package auth

import (
	"context"
	"time"

	"github.com/clinicbook/clinicbook/internal/cache"
	"github.com/clinicbook/clinicbook/internal/email"
	dto "github.com/clinicbook/clinicbook/internal/http/dto/auth"
	jwtx "github.com/clinicbook/clinicbook/internal/jwt"
	"github.com/clinicbook/clinicbook/internal/security/password"
	"github.com/clinicbook/clinicbook/internal/store/core"
	"github.com/clinicbook/clinicbook/internal/store/usercache"
)

// IssuedSession is the outcome of any flow that produces a session.
type IssuedSession struct {
	Token string
	User  dto.UserPayload
}

// PendingVerification references a record awaiting its emailed code.
type PendingVerification struct {
	UserID string
	Email  string
}

// RegistrationResult is a tagged variant: exactly one side is set, selected
// by the verification flag at construction time (never by inspecting
// response shapes).
type RegistrationResult struct {
	Issued  *IssuedSession
	Pending *PendingVerification
}

// RegisterService creates credential records.
type RegisterService interface {
	Register(ctx context.Context, in dto.RegisterRequest) (*RegistrationResult, error)
}

// LoginService authenticates credentials and issues sessions.
type LoginService interface {
	Login(ctx context.Context, in dto.LoginRequest) (*IssuedSession, error)
}

// VerifyService confirms and re-issues emailed codes.
type VerifyService interface {
	VerifyOTP(ctx context.Context, userID, code string) (*IssuedSession, error)
	ResendOTP(ctx context.Context, userID string) error
}

// LogoutService revokes the presented token.
type LogoutService interface {
	Logout(ctx context.Context, claims jwtx.Claims) error
}

// Deps carries the collaborators shared by the auth services.
type Deps struct {
	Repo   core.Repository
	Users  *usercache.Reader
	Issuer *jwtx.Issuer
	Cache  cache.Client
	Sender email.Sender

	HashParams password.Params
	Policy     password.Policy

	// VerifyEnabled selects the registration variant.
	VerifyEnabled bool
	VerifyTTL     time.Duration
	MaxAttempts   int

	// AllowRoleSelection honors the role field of the registration payload.
	AllowRoleSelection bool
}

func userPayload(u *core.User) dto.UserPayload {
	return dto.UserPayload{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role)}
}
