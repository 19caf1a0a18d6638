package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	valid := []string{"a@x.com", "first.last@clinic.example.org", "P@X.CO"}
	for _, s := range valid {
		assert.True(t, Email(s), "expected valid: %q", s)
	}
	invalid := []string{"", "nope", "@x.com", "a@", "a@nodot", "a@.com", "a@x.com.", "a b@x.com"}
	for _, s := range invalid {
		assert.False(t, Email(s), "expected invalid: %q", s)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.Com "))
}

func TestMissing(t *testing.T) {
	got := Missing(map[string]string{"email": "a@x.com", "password": "", "name": "  "})
	assert.Equal(t, []string{"name", "password"}, got)

	assert.Empty(t, Missing(map[string]string{"email": "a@x.com"}))
}
