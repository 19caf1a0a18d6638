package pg

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicbook/clinicbook/internal/store/core"
)

func (s *Store) CreateIntakeForm(ctx context.Context, f *core.IntakeForm) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return s.pool.QueryRow(ctx, `
		INSERT INTO intake_forms (id, patient_id, medical_history, insurance, symptoms)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		f.ID, f.PatientID, f.MedicalHistory, f.Insurance, f.Symptoms,
	).Scan(&f.CreatedAt)
}

const intakeCols = `
	f.id, f.patient_id, u.name, u.email, f.medical_history, f.insurance, f.symptoms, f.created_at`

func (s *Store) ListIntakeFormsByPatient(ctx context.Context, patientID string) ([]core.IntakeForm, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+intakeCols+`
		FROM intake_forms f JOIN users u ON u.id = f.patient_id
		WHERE f.patient_id = $1 ORDER BY f.created_at`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIntakeForms(rows)
}

func (s *Store) ListIntakeForms(ctx context.Context, limit, offset int) ([]core.IntakeForm, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM intake_forms`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+intakeCols+`
		FROM intake_forms f JOIN users u ON u.id = f.patient_id
		ORDER BY f.created_at LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := scanIntakeForms(rows)
	return out, total, err
}

func scanIntakeForms(rows pgxRows) ([]core.IntakeForm, error) {
	var out []core.IntakeForm
	for rows.Next() {
		var f core.IntakeForm
		if err := rows.Scan(&f.ID, &f.PatientID, &f.PatientName, &f.PatientEmail, &f.MedicalHistory, &f.Insurance, &f.Symptoms, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
