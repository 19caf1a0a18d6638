package auth

import (
	"errors"
	"net/http"

	dto "github.com/clinicbook/clinicbook/internal/http/dto/auth"
	httperrors "github.com/clinicbook/clinicbook/internal/http/errors"
	svc "github.com/clinicbook/clinicbook/internal/http/services/auth"
	"github.com/clinicbook/clinicbook/internal/observability/logger"
)

// VerifyController handles the email verification-code endpoints.
type VerifyController struct {
	service svc.VerifyService
}

// NewVerifyController builds the verify controller.
func NewVerifyController(service svc.VerifyService) *VerifyController {
	return &VerifyController{service: service}
}

// VerifyOTP handles POST /v1/users/verify-otp.
func (c *VerifyController) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("VerifyController.VerifyOTP"))

	var req dto.VerifyOTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	session, err := c.service.VerifyOTP(ctx, req.UserID, req.OTP)
	if err != nil {
		log.Debug("verification failed", logger.Err(err))
		writeVerifyError(w, err, "userId and otp are required")
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Success: true,
		Message: "Email verified",
		Token:   session.Token,
		User:    &session.User,
	})
}

// ResendOTP handles POST /v1/users/resend-otp.
func (c *VerifyController) ResendOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("VerifyController.ResendOTP"))

	var req dto.ResendOTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	if err := c.service.ResendOTP(ctx, req.UserID); err != nil {
		log.Debug("resend failed", logger.Err(err))
		writeVerifyError(w, err, "userId is required")
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Verification code sent",
	})
}

// missingDetail names the fields the calling endpoint requires.
func writeVerifyError(w http.ResponseWriter, err error, missingDetail string) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(missingDetail))

	case errors.Is(err, svc.ErrInvalidCode):
		httperrors.WriteError(w, httperrors.ErrInvalidCode)

	case errors.Is(err, svc.ErrAlreadyVerified):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("email already verified"))

	case errors.Is(err, svc.ErrUserNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("user not found"))

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
