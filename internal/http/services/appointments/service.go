// Package appointments implements booking rules: patients book and cancel
// their own appointments, admins see and manage all of them.
package appointments

import (
	"context"
	"errors"
	"strings"
	"time"

	dto "github.com/clinicbook/clinicbook/internal/http/dto/appointments"
	"github.com/clinicbook/clinicbook/internal/observability/logger"
	"github.com/clinicbook/clinicbook/internal/store/core"
)

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidDate   = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidTime   = errors.New("invalid time, expected HH:MM")
	ErrInvalidStatus = errors.New("invalid status")
	ErrNotFound      = errors.New("appointment not found")
	ErrForbidden     = errors.New("not allowed")
	ErrInternal      = errors.New("internal error")
)

// Service exposes the booking operations.
type Service interface {
	Book(ctx context.Context, patientID string, in dto.BookRequest) (*core.Appointment, error)
	Mine(ctx context.Context, patientID string) ([]core.Appointment, error)
	List(ctx context.Context, page int) ([]core.Appointment, int, error)
	UpdateStatus(ctx context.Context, id string, status string) (*core.Appointment, error)
	Delete(ctx context.Context, actorID string, actorRole core.Role, id string) error
}

// Deps carries the service collaborators.
type Deps struct {
	Repo     core.Repository
	PageSize int
}

type service struct {
	deps Deps
}

// New builds the appointments service.
func New(deps Deps) Service {
	if deps.PageSize <= 0 {
		deps.PageSize = 20
	}
	return &service{deps: deps}
}

func (s *service) Book(ctx context.Context, patientID string, in dto.BookRequest) (*core.Appointment, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("appointments"),
		logger.Op("Book"),
		logger.UserID(patientID),
	)

	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	in.DoctorName = strings.TrimSpace(in.DoctorName)
	in.Reason = strings.TrimSpace(in.Reason)

	if in.Date == "" || in.Time == "" {
		return nil, ErrMissingFields
	}
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		return nil, ErrInvalidDate
	}
	if _, err := time.Parse("15:04", in.Time); err != nil {
		return nil, ErrInvalidTime
	}

	a := &core.Appointment{
		PatientID:  patientID,
		DoctorName: in.DoctorName,
		Date:       in.Date,
		Time:       in.Time,
		Reason:     in.Reason,
		Status:     core.AppointmentPending,
	}
	if err := s.deps.Repo.CreateAppointment(ctx, a); err != nil {
		log.Error("create appointment failed", logger.Err(err))
		return nil, ErrInternal
	}

	log.Info("appointment booked", logger.AppointmentID(a.ID))
	return a, nil
}

func (s *service) Mine(ctx context.Context, patientID string) ([]core.Appointment, error) {
	list, err := s.deps.Repo.ListAppointmentsByPatient(ctx, patientID)
	if err != nil {
		logger.From(ctx).Error("list own appointments failed", logger.Err(err))
		return nil, ErrInternal
	}
	return list, nil
}

func (s *service) List(ctx context.Context, page int) ([]core.Appointment, int, error) {
	if page < 1 {
		page = 1
	}
	list, total, err := s.deps.Repo.ListAppointments(ctx, s.deps.PageSize, (page-1)*s.deps.PageSize)
	if err != nil {
		logger.From(ctx).Error("list appointments failed", logger.Err(err))
		return nil, 0, ErrInternal
	}
	return list, total, nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, status string) (*core.Appointment, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("appointments"),
		logger.Op("UpdateStatus"),
		logger.AppointmentID(id),
	)

	st := core.AppointmentStatus(strings.TrimSpace(status))
	if !core.ValidAppointmentStatus(st) {
		return nil, ErrInvalidStatus
	}

	if err := s.deps.Repo.UpdateAppointmentStatus(ctx, id, st); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrNotFound
		}
		log.Error("status update failed", logger.Err(err))
		return nil, ErrInternal
	}

	a, err := s.deps.Repo.GetAppointment(ctx, id)
	if err != nil {
		log.Error("reload after update failed", logger.Err(err))
		return nil, ErrInternal
	}

	log.Info("appointment status updated", logger.String("status", string(st)))
	return a, nil
}

// Delete removes a booking. Patients may only remove their own; admins may
// remove any.
func (s *service) Delete(ctx context.Context, actorID string, actorRole core.Role, id string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("appointments"),
		logger.Op("Delete"),
		logger.AppointmentID(id),
		logger.UserID(actorID),
	)

	a, err := s.deps.Repo.GetAppointment(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ErrNotFound
		}
		log.Error("appointment lookup failed", logger.Err(err))
		return ErrInternal
	}
	if actorRole != core.RoleAdmin && a.PatientID != actorID {
		log.Info("cross-patient delete rejected")
		return ErrForbidden
	}

	if err := s.deps.Repo.DeleteAppointment(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ErrNotFound
		}
		log.Error("delete failed", logger.Err(err))
		return ErrInternal
	}

	log.Info("appointment deleted")
	return nil
}
