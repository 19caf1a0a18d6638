// Package errors defines the API error taxonomy and the single place where
// failures are serialized to the wire. Every operation boundary converts its
// failures into one of these; nothing is silently swallowed.
package errors

import (
	"encoding/json"
	"net/http"
)

// Standard error responses.
var (
	ErrInvalidJSON = &HTTPError{Code: "invalid_json", Message: "Invalid JSON format", Status: http.StatusBadRequest}
	ErrBadRequest  = &HTTPError{Code: "bad_request", Message: "Bad request", Status: http.StatusBadRequest}

	// ErrInvalidCredentials deliberately covers both unknown email and wrong
	// password so responses never reveal which one failed.
	ErrInvalidCredentials = &HTTPError{Code: "invalid_credentials", Message: "Invalid credentials", Status: http.StatusUnauthorized}

	ErrUnauthenticated = &HTTPError{Code: "unauthenticated", Message: "Authentication required", Status: http.StatusUnauthorized}

	// ErrEmailNotVerified is only ever reached after the password verified,
	// so it reveals nothing to a caller without the credentials.
	ErrEmailNotVerified = &HTTPError{Code: "email_not_verified", Message: "Email not verified", Status: http.StatusForbidden}
	ErrForbidden       = &HTTPError{Code: "forbidden", Message: "Forbidden", Status: http.StatusForbidden}
	ErrNotFound        = &HTTPError{Code: "not_found", Message: "Not found", Status: http.StatusNotFound}

	ErrEmailTaken = &HTTPError{Code: "email_taken", Message: "An account with this email already exists", Status: http.StatusConflict}

	// ErrInvalidCode stays generic on purpose: no hint whether the code was
	// wrong or expired.
	ErrInvalidCode = &HTTPError{Code: "invalid_code", Message: "Invalid or expired code", Status: http.StatusBadRequest}

	ErrRateLimited         = &HTTPError{Code: "rate_limited", Message: "Too many requests", Status: http.StatusTooManyRequests}
	ErrMethodNotAllowed    = &HTTPError{Code: "method_not_allowed", Message: "Method not allowed", Status: http.StatusMethodNotAllowed}
	ErrInternalServerError = &HTTPError{Code: "internal_error", Message: "Internal server error", Status: http.StatusInternalServerError}
	ErrServiceUnavailable  = &HTTPError{Code: "service_unavailable", Message: "Service unavailable", Status: http.StatusServiceUnavailable}
)

// HTTPError is the wire shape of a failed operation.
type HTTPError struct {
	Success bool   `json:"success"` // always false
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Status  int    `json:"-"`
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

// WithDetail returns a copy with caller-facing detail attached. Internal
// error text never goes through here.
func (e *HTTPError) WithDetail(detail string) *HTTPError {
	return &HTTPError{
		Code:    e.Code,
		Message: e.Message,
		Detail:  detail,
		Status:  e.Status,
	}
}

// WriteError serializes err to w. Unknown error types collapse to a generic
// 500 so internals never leak.
func WriteError(w http.ResponseWriter, err error) {
	httpErr, ok := err.(*HTTPError)
	if !ok {
		httpErr = ErrInternalServerError
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(httpErr.Status)
	_ = json.NewEncoder(w).Encode(httpErr)
}
