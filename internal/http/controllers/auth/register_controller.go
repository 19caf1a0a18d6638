package auth

import (
	"errors"
	"net/http"

	dto "github.com/clinicbook/clinicbook/internal/http/dto/auth"
	httperrors "github.com/clinicbook/clinicbook/internal/http/errors"
	svc "github.com/clinicbook/clinicbook/internal/http/services/auth"
	"github.com/clinicbook/clinicbook/internal/observability/logger"
)

// RegisterController handles account creation.
type RegisterController struct {
	service svc.RegisterService
}

// NewRegisterController builds the register controller.
func NewRegisterController(service svc.RegisterService) *RegisterController {
	return &RegisterController{service: service}
}

// Register handles POST /v1/users/register.
func (c *RegisterController) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("RegisterController.Register"))

	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	result, err := c.service.Register(ctx, req)
	if err != nil {
		log.Debug("registration failed", logger.Err(err))
		writeRegisterError(w, err)
		return
	}

	if result.Pending != nil {
		writeJSON(w, http.StatusCreated, dto.RegisterResponse{
			Success: true,
			Message: "Verification code sent",
			UserID:  result.Pending.UserID,
			Email:   result.Pending.Email,
		})
		return
	}

	writeJSON(w, http.StatusCreated, dto.RegisterResponse{
		Success: true,
		Message: "Account created",
		Token:   result.Issued.Token,
		User:    &result.Issued.User,
	})
}

func writeRegisterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("name, email and password are required"))

	case errors.Is(err, svc.ErrInvalidEmail):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("invalid email address"))

	case errors.Is(err, svc.ErrPolicyViolation):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("password does not meet requirements"))

	case errors.Is(err, svc.ErrInvalidRole):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("invalid role"))

	case errors.Is(err, svc.ErrEmailTaken):
		httperrors.WriteError(w, httperrors.ErrEmailTaken)

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
