// Package auth holds the wire shapes of the credential endpoints.
package auth

// UserPayload is the public projection of a credential record. The password
// hash never appears here.
type UserPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// RegisterRequest is the body of POST /v1/users/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	// Role is honored only when role selection is enabled in config;
	// otherwise everyone starts as patient.
	Role string `json:"role,omitempty"`
}

// RegisterResponse covers both registration variants. With verification off,
// Token and User are set. With verification on, UserID and Email identify the
// pending record and no token exists yet.
type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`

	Token string       `json:"token,omitempty"`
	User  *UserPayload `json:"user,omitempty"`

	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
}

// LoginRequest is the body of POST /v1/users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Token   string       `json:"token"`
	User    *UserPayload `json:"user"`
}

// VerifyOTPRequest is the body of POST /v1/users/verify-otp.
type VerifyOTPRequest struct {
	UserID string `json:"userId"`
	OTP    string `json:"otp"`
}

// ResendOTPRequest is the body of POST /v1/users/resend-otp.
type ResendOTPRequest struct {
	UserID string `json:"userId"`
}

// MessageResponse is a bare success acknowledgment.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MeResponse is returned by GET /v1/users/me: the claims snapshot the caller
// authenticated with.
type MeResponse struct {
	Success bool        `json:"success"`
	User    UserPayload `json:"user"`
}
