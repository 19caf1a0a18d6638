package auth

import (
	"net/http"

	dto "github.com/clinicbook/clinicbook/internal/http/dto/auth"
	httperrors "github.com/clinicbook/clinicbook/internal/http/errors"
	"github.com/clinicbook/clinicbook/internal/http/middlewares"
)

// MeController echoes the authenticated identity. It reads only the verified
// claims, so it needs no service behind it.
type MeController struct{}

// NewMeController builds the me controller.
func NewMeController() *MeController {
	return &MeController{}
}

// Me handles GET /v1/users/me.
func (c *MeController) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middlewares.GetClaims(r.Context())
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthenticated)
		return
	}

	writeJSON(w, http.StatusOK, dto.MeResponse{
		Success: true,
		User: dto.UserPayload{
			ID:    claims.UserID,
			Name:  claims.Name,
			Email: claims.Email,
			Role:  claims.Role,
		},
	})
}
