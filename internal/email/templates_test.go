package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderVerify(t *testing.T) {
	subject, html, text, err := RenderVerify(VerifyVars{
		Name:    "Alice",
		Code:    "042137",
		Expires: 10 * time.Minute,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, subject)
	assert.Contains(t, text, "042137")
	assert.Contains(t, text, "10 minutes")
	assert.Contains(t, html, "042137")
	assert.Contains(t, html, "Alice")
}
