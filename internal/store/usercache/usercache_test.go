package usercache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicbook/clinicbook/internal/store/core"
	"github.com/clinicbook/clinicbook/internal/store/memory"
)

func TestGet_CachesAndInvalidates(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	u := &core.User{Name: "Alice", Email: "a@x.com", Role: core.RolePatient}
	require.NoError(t, repo.CreateUser(ctx, u))

	r := New(repo, time.Minute)

	got, err := r.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	// mutate behind the cache: stale read until invalidated
	require.NoError(t, repo.UpdateUserRole(ctx, u.ID, core.RoleAdmin))
	got, err = r.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, core.RolePatient, got.Role)

	r.Invalidate(u.ID)
	got, err = r.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, core.RoleAdmin, got.Role)
}

func TestGet_NotFound(t *testing.T) {
	r := New(memory.New(), time.Minute)
	_, err := r.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
