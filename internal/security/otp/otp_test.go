package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCode_Shape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := NewCode()
		require.NoError(t, err)
		assert.Len(t, code, Digits)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "non-digit in code %q", code)
		}
		seen[code] = true
	}
	// 50 draws from a million values virtually never collide down to one
	assert.Greater(t, len(seen), 1)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("042137", "042137"))
	assert.False(t, Equal("042137", "042138"))
	assert.False(t, Equal("42137", "042137"))
	assert.False(t, Equal("", "042137"))
}
