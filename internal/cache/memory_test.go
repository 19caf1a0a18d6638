package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGetDelete(t *testing.T) {
	c := NewMemory("t")
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Set(ctx, "k", "v1", 0))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", got)

	// Set fully replaces value and TTL
	require.NoError(t, c.Set(ctx, "k", "v2", time.Minute))
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting an absent key is fine
	require.NoError(t, c.Delete(ctx, "k"))
}

func TestMemory_TTLExpiry(t *testing.T) {
	c := NewMemory("")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "ephemeral", "x", 20*time.Millisecond))
	got, err := c.Get(ctx, "ephemeral")
	require.NoError(t, err)
	assert.Equal(t, "x", got)

	time.Sleep(40 * time.Millisecond)
	_, err = c.Get(ctx, "ephemeral")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_PrefixIsolation(t *testing.T) {
	a := NewMemory("a")
	b := NewMemory("b")
	ctx := context.Background()

	require.NoError(t, a.Set(ctx, "k", "from-a", 0))
	_, err := b.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(Config{Driver: "memcached"})
	assert.Error(t, err)
}
