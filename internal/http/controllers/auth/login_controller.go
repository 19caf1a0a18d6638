package auth

import (
	"errors"
	"net/http"

	dto "github.com/clinicbook/clinicbook/internal/http/dto/auth"
	httperrors "github.com/clinicbook/clinicbook/internal/http/errors"
	svc "github.com/clinicbook/clinicbook/internal/http/services/auth"
	"github.com/clinicbook/clinicbook/internal/observability/logger"
)

// LoginController handles credential login.
type LoginController struct {
	service svc.LoginService
}

// NewLoginController builds the login controller.
func NewLoginController(service svc.LoginService) *LoginController {
	return &LoginController{service: service}
}

// Login handles POST /v1/users/login.
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Login"))

	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	session, err := c.service.Login(ctx, req)
	if err != nil {
		log.Debug("login failed", logger.Err(err))
		writeLoginError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Success: true,
		Message: "Login successful",
		Token:   session.Token,
		User:    &session.User,
	})
}

func writeLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("email and password are required"))

	case errors.Is(err, svc.ErrInvalidCredentials):
		httperrors.WriteError(w, httperrors.ErrInvalidCredentials)

	case errors.Is(err, svc.ErrEmailNotVerified):
		httperrors.WriteError(w, httperrors.ErrEmailNotVerified)

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
