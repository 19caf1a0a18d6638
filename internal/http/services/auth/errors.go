package auth

import "errors"

// Service errors. Controllers map these onto HTTP statuses; anything not
// listed here is treated as an internal failure.
var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPolicyViolation    = errors.New("password does not meet policy")
	ErrInvalidRole        = errors.New("invalid role")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInvalidCode        = errors.New("invalid or expired code")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenIssueFailed   = errors.New("failed to issue token")
	ErrInternal           = errors.New("internal error")
)
