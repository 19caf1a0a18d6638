package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicbook/clinicbook/internal/store/core"
)

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	u := &core.User{Name: "Alice", Email: "a@x.com", PasswordHash: "h", Role: core.RolePatient}
	require.NoError(t, s.CreateUser(ctx, u))
	require.NotEmpty(t, u.ID)

	// same email, different case: still a conflict, store unchanged
	dup := &core.User{Name: "Mallory", Email: "A@X.com", PasswordHash: "h2", Role: core.RoleAdmin}
	err := s.CreateUser(ctx, dup)
	assert.ErrorIs(t, err, core.ErrEmailTaken)

	got, err := s.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	_, total, err := s.ListUsers(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestGetUser_NotFound(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.GetUserByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = s.GetUserByID(ctx, "nope")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestMarkEmailVerified(t *testing.T) {
	s := New()
	ctx := context.Background()

	u := &core.User{Name: "Bob", Email: "b@x.com", Role: core.RolePatient}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.False(t, u.EmailVerified)

	require.NoError(t, s.MarkEmailVerified(ctx, u.ID))
	got, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.EmailVerified)

	assert.ErrorIs(t, s.MarkEmailVerified(ctx, "missing"), core.ErrNotFound)
}

func TestUpdateUserRole(t *testing.T) {
	s := New()
	ctx := context.Background()

	u := &core.User{Name: "Bob", Email: "b@x.com", Role: core.RolePatient}
	require.NoError(t, s.CreateUser(ctx, u))

	require.NoError(t, s.UpdateUserRole(ctx, u.ID, core.RoleAdmin))
	got, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, core.RoleAdmin, got.Role)
}

func TestAppointments_Lifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	p := &core.User{Name: "Alice", Email: "a@x.com", Role: core.RolePatient}
	require.NoError(t, s.CreateUser(ctx, p))

	a := &core.Appointment{
		PatientID: p.ID, Date: "2026-09-15", Time: "10:30",
		DoctorName: "Dr. Wu", Reason: "checkup", Status: core.AppointmentPending,
	}
	require.NoError(t, s.CreateAppointment(ctx, a))

	mine, err := s.ListAppointmentsByPatient(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Alice", mine[0].PatientName)

	require.NoError(t, s.UpdateAppointmentStatus(ctx, a.ID, core.AppointmentConfirmed))
	got, err := s.GetAppointment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, core.AppointmentConfirmed, got.Status)

	require.NoError(t, s.DeleteAppointment(ctx, a.ID))
	_, err = s.GetAppointment(ctx, a.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestListAppointments_Pagination(t *testing.T) {
	s := New()
	ctx := context.Background()

	p := &core.User{Name: "Alice", Email: "a@x.com", Role: core.RolePatient}
	require.NoError(t, s.CreateUser(ctx, p))
	for i := 0; i < 5; i++ {
		require.NoError(t, s.CreateAppointment(ctx, &core.Appointment{
			PatientID: p.ID, Date: "2026-09-15", Time: "10:30", Status: core.AppointmentPending,
		}))
	}

	pageOne, total, err := s.ListAppointments(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, pageOne, 2)

	last, _, err := s.ListAppointments(ctx, 2, 4)
	require.NoError(t, err)
	assert.Len(t, last, 1)

	none, _, err := s.ListAppointments(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestIntakeForms(t *testing.T) {
	s := New()
	ctx := context.Background()

	p := &core.User{Name: "Alice", Email: "a@x.com", Role: core.RolePatient}
	require.NoError(t, s.CreateUser(ctx, p))

	f := &core.IntakeForm{PatientID: p.ID, MedicalHistory: "none", Insurance: "acme", Symptoms: "cough"}
	require.NoError(t, s.CreateIntakeForm(ctx, f))

	mine, err := s.ListIntakeFormsByPatient(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	all, total, err := s.ListIntakeForms(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Alice", all[0].PatientName)
	assert.Equal(t, "a@x.com", all[0].PatientEmail)

	other, err := s.ListIntakeFormsByPatient(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, other)
}
