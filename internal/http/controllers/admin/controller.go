// Package admin contains the HTTP controllers of the key-guarded admin API.
// The key check itself lives in the RequireAdminKey middleware.
package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	dto "github.com/clinicbook/clinicbook/internal/http/dto/admin"
	httperrors "github.com/clinicbook/clinicbook/internal/http/errors"
	svc "github.com/clinicbook/clinicbook/internal/http/services/admin"
	"github.com/clinicbook/clinicbook/internal/observability/logger"
	"github.com/clinicbook/clinicbook/internal/store/core"
)

const maxBodySize = 64 * 1024 // 64KB

// Controller handles the admin API endpoints.
type Controller struct {
	service svc.Service
}

// New builds the admin controller.
func New(service svc.Service) *Controller {
	return &Controller{service: service}
}

// ListUsers handles GET /v1/admin/users.
func (c *Controller) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	list, total, err := c.service.ListUsers(ctx, page)
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	users := make([]dto.User, 0, len(list))
	for i := range list {
		users = append(users, project(&list[i]))
	}

	writeJSON(w, http.StatusOK, dto.ListUsersResponse{
		Success: true,
		Count:   len(users),
		Total:   total,
		Page:    page,
		Users:   users,
	})
}

// SetRole handles POST /v1/admin/users/{id}/role.
func (c *Controller) SetRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AdminController.SetRole"))

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.SetRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	u, err := c.service.SetRole(ctx, chi.URLParam(r, "id"), req.Role)
	if err != nil {
		log.Debug("role update failed", logger.Err(err))
		switch {
		case errors.Is(err, svc.ErrInvalidRole):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("role must be patient or admin"))
		case errors.Is(err, svc.ErrNotFound):
			httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("user not found"))
		default:
			httperrors.WriteError(w, httperrors.ErrInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.SetRoleResponse{
		Success: true,
		Message: "Role updated",
		User:    project(u),
	})
}

func project(u *core.User) dto.User {
	return dto.User{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          string(u.Role),
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
