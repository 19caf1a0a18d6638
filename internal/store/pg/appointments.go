package pg

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicbook/clinicbook/internal/store/core"
)

func (s *Store) CreateAppointment(ctx context.Context, a *core.Appointment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return s.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_name, date, time, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		a.ID, a.PatientID, a.DoctorName, a.Date, a.Time, a.Reason, string(a.Status),
	).Scan(&a.CreatedAt)
}

const appointmentCols = `
	a.id, a.patient_id, u.name, a.doctor_name, a.date, a.time, a.reason, a.status, a.created_at`

func (s *Store) GetAppointment(ctx context.Context, id string) (*core.Appointment, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+appointmentCols+`
		FROM appointments a JOIN users u ON u.id = a.patient_id
		WHERE a.id = $1`, id)

	var a core.Appointment
	var status string
	err := row.Scan(&a.ID, &a.PatientID, &a.PatientName, &a.DoctorName, &a.Date, &a.Time, &a.Reason, &status, &a.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	a.Status = core.AppointmentStatus(status)
	return &a, nil
}

func (s *Store) ListAppointmentsByPatient(ctx context.Context, patientID string) ([]core.Appointment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+appointmentCols+`
		FROM appointments a JOIN users u ON u.id = a.patient_id
		WHERE a.patient_id = $1 ORDER BY a.created_at`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func (s *Store) ListAppointments(ctx context.Context, limit, offset int) ([]core.Appointment, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM appointments`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+appointmentCols+`
		FROM appointments a JOIN users u ON u.id = a.patient_id
		ORDER BY a.created_at LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := scanAppointments(rows)
	return out, total, err
}

func (s *Store) UpdateAppointmentStatus(ctx context.Context, id string, status core.AppointmentStatus) error {
	tag, err := s.pool.Exec(ctx, `UPDATE appointments SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAppointment(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanAppointments(rows pgxRows) ([]core.Appointment, error) {
	var out []core.Appointment
	for rows.Next() {
		var a core.Appointment
		var status string
		if err := rows.Scan(&a.ID, &a.PatientID, &a.PatientName, &a.DoctorName, &a.Date, &a.Time, &a.Reason, &status, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Status = core.AppointmentStatus(status)
		out = append(out, a)
	}
	return out, rows.Err()
}
