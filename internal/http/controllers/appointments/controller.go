// Package appointments contains the HTTP controllers of the booking
// endpoints.
package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	dto "github.com/clinicbook/clinicbook/internal/http/dto/appointments"
	httperrors "github.com/clinicbook/clinicbook/internal/http/errors"
	"github.com/clinicbook/clinicbook/internal/http/middlewares"
	svc "github.com/clinicbook/clinicbook/internal/http/services/appointments"
	"github.com/clinicbook/clinicbook/internal/observability/logger"
	"github.com/clinicbook/clinicbook/internal/store/core"
)

const maxBodySize = 64 * 1024 // 64KB

// Controller handles the booking endpoints.
type Controller struct {
	service svc.Service
}

// New builds the appointments controller.
func New(service svc.Service) *Controller {
	return &Controller{service: service}
}

// Book handles POST /v1/appointments.
func (c *Controller) Book(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AppointmentsController.Book"))

	claims, ok := middlewares.GetClaims(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthenticated)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	a, err := c.service.Book(ctx, claims.UserID, req)
	if err != nil {
		log.Debug("booking failed", logger.Err(err))
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.BookResponse{
		Success:     true,
		Message:     "Appointment booked",
		Appointment: project(a),
	})
}

// Mine handles GET /v1/appointments/mine.
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
		Success:      true,
		Count:        len(list),
		Total:        len(list),
		Page:         1,
		Appointments: projectAll(list),
	})
}

// List handles GET /v1/appointments. Admin only, enforced by the route.
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := pageParam(r)
	list, total, err := c.service.List(ctx, page)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse{
		Success:      true,
		Count:        len(list),
		Total:        total,
		Page:         page,
		Appointments: projectAll(list),
	})
}

// UpdateStatus handles PUT /v1/appointments/{id}. Admin only.
func (c *Controller) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AppointmentsController.UpdateStatus"))

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON)
		return
	}

	a, err := c.service.UpdateStatus(ctx, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		log.Debug("status update failed", logger.Err(err))
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BookResponse{
		Success:     true,
		Message:     "Appointment updated",
		Appointment: project(a),
	})
}

// Delete handles DELETE /v1/appointments/{id}. Patients remove their own
// bookings, admins remove any.
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := middlewares.GetClaims(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthenticated)
		return
	}

	err := c.service.Delete(ctx, claims.UserID, core.Role(claims.Role), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Appointment deleted",
	})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("date and time are required"))

	case errors.Is(err, svc.ErrInvalidDate):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("invalid date, expected YYYY-MM-DD"))

	case errors.Is(err, svc.ErrInvalidTime):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("invalid time, expected HH:MM"))

	case errors.Is(err, svc.ErrInvalidStatus):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("status must be pending, confirmed or cancelled"))

	case errors.Is(err, svc.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("appointment not found"))

	case errors.Is(err, svc.ErrForbidden):
		httperrors.WriteError(w, httperrors.ErrForbidden)

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}

func project(a *core.Appointment) dto.Appointment {
	return dto.Appointment{
		ID:          a.ID,
		PatientID:   a.PatientID,
		PatientName: a.PatientName,
		DoctorName:  a.DoctorName,
		Date:        a.Date,
		Time:        a.Time,
		Reason:      a.Reason,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func projectAll(list []core.Appointment) []dto.Appointment {
	out := make([]dto.Appointment, 0, len(list))
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
