package intake

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/clinicbook/clinicbook/internal/http/dto/intake"
	"github.com/clinicbook/clinicbook/internal/store/core"
	"github.com/clinicbook/clinicbook/internal/store/memory"
)

func seedPatient(t *testing.T, repo *memory.Store, email string) *core.User {
	t.Helper()
	u := &core.User{Name: "Pat", Email: email, PasswordHash: "x", Role: core.RolePatient, EmailVerified: true}
	require.NoError(t, repo.CreateUser(context.Background(), u))
	return u
}

func validSubmit() dto.SubmitRequest {
	return dto.SubmitRequest{
		MedicalHistory: "asthma",
		Insurance:      "acme-health 123",
		Symptoms:       "persistent cough",
	}
}

func TestSubmit(t *testing.T) {
	repo := memory.New()
	u := seedPatient(t, repo, "pat@example.com")
	svc := New(Deps{Repo: repo})

	f, err := svc.Submit(context.Background(), u.ID, validSubmit())
	require.NoError(t, err)
	assert.NotEmpty(t, f.ID)
	assert.Equal(t, u.ID, f.PatientID)
	assert.False(t, f.CreatedAt.IsZero())
}

func TestSubmit_AllFieldsRequired(t *testing.T) {
	repo := memory.New()
	u := seedPatient(t, repo, "pat@example.com")
	svc := New(Deps{Repo: repo})
	ctx := context.Background()

	in := validSubmit()
	in.Insurance = "   "
	_, err := svc.Submit(ctx, u.ID, in)
	assert.ErrorIs(t, err, ErrMissingFields)

	in = validSubmit()
	in.Symptoms = ""
	_, err = svc.Submit(ctx, u.ID, in)
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestMine_OnlyOwnForms(t *testing.T) {
	repo := memory.New()
	alice := seedPatient(t, repo, "alice@example.com")
	bob := seedPatient(t, repo, "bob@example.com")
	svc := New(Deps{Repo: repo})
	ctx := context.Background()

	_, err := svc.Submit(ctx, alice.ID, validSubmit())
	require.NoError(t, err)
	_, err = svc.Submit(ctx, bob.ID, validSubmit())
	require.NoError(t, err)

	mine, err := svc.Mine(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, alice.ID, mine[0].PatientID)
}

func TestList_JoinsPatientIdentity(t *testing.T) {
	repo := memory.New()
	u := seedPatient(t, repo, "pat@example.com")
	svc := New(Deps{Repo: repo, PageSize: 10})
	ctx := context.Background()

	_, err := svc.Submit(ctx, u.ID, validSubmit())
	require.NoError(t, err)

	all, total, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, all, 1)
	assert.Equal(t, "Pat", all[0].PatientName)
	assert.Equal(t, "pat@example.com", all[0].PatientEmail)
}
