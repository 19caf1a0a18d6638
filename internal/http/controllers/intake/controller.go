// Package intake contains the HTTP controllers of the intake-form
// endpoints.
package intake

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	dto "github.com/clinicbook/clinicbook/internal/http/dto/intake"
	httperrors "github.com/clinicbook/clinicbook/internal/http/errors"
	"github.com/clinicbook/clinicbook/internal/http/middlewares"
	svc "github.com/clinicbook/clinicbook/internal/http/services/intake"
	"github.com/clinicbook/clinicbook/internal/observability/logger"
	"github.com/clinicbook/clinicbook/internal/store/core"
)

const maxBodySize = 64 * 1024 // 64KB

// Controller handles the intake-form endpoints.
type Controller struct {
	service svc.Service
}

// New builds the intake controller.
func New(service svc.Service) *Controller {
	return &Controller{service: service}
}

// Submit handles POST /v1/intake.
func (c *Controller) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("IntakeController.Submit"))

	claims, ok := middlewares.GetClaims(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthenticated)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	f, err := c.service.Submit(ctx, claims.UserID, req)
	if err != nil {
		log.Debug("intake submit failed", logger.Err(err))
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.SubmitResponse{
		Success: true,
		Message: "Intake form submitted",
		Form:    project(f),
	})
}

// Mine handles GET /v1/intake/mine.
func (c *Controller) Mine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := middlewares.GetClaims(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthenticated)
		return
	}

	list, err := c.service.Mine(ctx, claims.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse{
		Success: true,
		Count:   len(list),
		Forms:   projectAll(list),
	})
}

// List handles GET /v1/intake. Admin only, enforced by the route.
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := pageParam(r)
	list, total, err := c.service.List(ctx, page)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse{
		Success: true,
		Count:   len(list),
		Total:   total,
		Forms:   projectAll(list),
	})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("medicalHistory, insurance and symptoms are required"))

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}

func project(f *core.IntakeForm) dto.Form {
	return dto.Form{
		ID:             f.ID,
		PatientID:      f.PatientID,
		PatientName:    f.PatientName,
		PatientEmail:   f.PatientEmail,
		MedicalHistory: f.MedicalHistory,
		Insurance:      f.Insurance,
		Symptoms:       f.Symptoms,
		CreatedAt:      f.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func projectAll(list []core.IntakeForm) []dto.Form {
	out := make([]dto.Form, 0, len(list))
	for i := range list {
		out = append(out, project(&list[i]))
	}
	return out
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
