package auth

import (
	"net/http"

	dto "github.com/clinicbook/clinicbook/internal/http/dto/auth"
	httperrors "github.com/clinicbook/clinicbook/internal/http/errors"
	"github.com/clinicbook/clinicbook/internal/http/middlewares"
	svc "github.com/clinicbook/clinicbook/internal/http/services/auth"
	"github.com/clinicbook/clinicbook/internal/observability/logger"
)

// LogoutController revokes the presented token.
type LogoutController struct {
	service svc.LogoutService
}

// NewLogoutController builds the logout controller.
func NewLogoutController(service svc.LogoutService) *LogoutController {
	return &LogoutController{service: service}
}

// Logout handles POST /v1/users/logout. The route sits behind RequireAuth,
// so claims are present on any request that reaches it.
func (c *LogoutController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LogoutController.Logout"))

	claims, ok := middlewares.GetClaims(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthenticated)
		return
	}

	if err := c.service.Logout(ctx, claims); err != nil {
		log.Error("logout failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Logged out",
	})
}
