// Package intake implements the medical intake-form rules: patients submit
// and read their own forms, admins read all of them.
package intake

import (
	"context"
	"errors"
	"strings"

	dto "github.com/clinicbook/clinicbook/internal/http/dto/intake"
	"github.com/clinicbook/clinicbook/internal/observability/logger"
	"github.com/clinicbook/clinicbook/internal/store/core"
	"github.com/clinicbook/clinicbook/internal/validation"
)

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrInternal      = errors.New("internal error")
)

// Service exposes the intake-form operations.
type Service interface {
	Submit(ctx context.Context, patientID string, in dto.SubmitRequest) (*core.IntakeForm, error)
	Mine(ctx context.Context, patientID string) ([]core.IntakeForm, error)
	List(ctx context.Context, page int) ([]core.IntakeForm, int, error)
}

// Deps carries the service collaborators.
type Deps struct {
	Repo     core.Repository
	PageSize int
}

type service struct {
	deps Deps
}

// New builds the intake service.
func New(deps Deps) Service {
	if deps.PageSize <= 0 {
		deps.PageSize = 20
	}
	return &service{deps: deps}
}

func (s *service) Submit(ctx context.Context, patientID string, in dto.SubmitRequest) (*core.IntakeForm, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("intake"),
		logger.Op("Submit"),
		logger.UserID(patientID),
	)

	in.MedicalHistory = strings.TrimSpace(in.MedicalHistory)
	in.Insurance = strings.TrimSpace(in.Insurance)
	in.Symptoms = strings.TrimSpace(in.Symptoms)

	if missing := validation.Missing(map[string]string{
		"medicalHistory": in.MedicalHistory,
		"insurance":      in.Insurance,
		"symptoms":       in.Symptoms,
	}); len(missing) > 0 {
		return nil, ErrMissingFields
	}

	f := &core.IntakeForm{
		PatientID:      patientID,
		MedicalHistory: in.MedicalHistory,
		Insurance:      in.Insurance,
		Symptoms:       in.Symptoms,
	}
	if err := s.deps.Repo.CreateIntakeForm(ctx, f); err != nil {
		log.Error("create intake form failed", logger.Err(err))
		return nil, ErrInternal
	}

	log.Info("intake form submitted", logger.FormID(f.ID))
	return f, nil
}

func (s *service) Mine(ctx context.Context, patientID string) ([]core.IntakeForm, error) {
	list, err := s.deps.Repo.ListIntakeFormsByPatient(ctx, patientID)
	if err != nil {
		logger.From(ctx).Error("list own intake forms failed", logger.Err(err))
		return nil, ErrInternal
	}
	return list, nil
}

func (s *service) List(ctx context.Context, page int) ([]core.IntakeForm, int, error) {
	if page < 1 {
		page = 1
	}
	list, total, err := s.deps.Repo.ListIntakeForms(ctx, s.deps.PageSize, (page-1)*s.deps.PageSize)
	if err != nil {
		logger.From(ctx).Error("list intake forms failed", logger.Err(err))
		return nil, 0, ErrInternal
	}
	return list, total, nil
}
