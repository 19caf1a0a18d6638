package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// small params so the test suite stays fast
var testParams = Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func TestHashVerify_RoundTrip(t *testing.T) {
	phc, err := Hash(testParams, "Sup3r-secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(phc, "$argon2id$v=19$"))
	assert.True(t, Verify("Sup3r-secret", phc))
	assert.False(t, Verify("sup3r-secret", phc))
	assert.False(t, Verify("", phc))
}

func TestHash_NeverEqualsPlaintext(t *testing.T) {
	phc, err := Hash(testParams, "plaintext1")
	require.NoError(t, err)
	assert.NotEqual(t, "plaintext1", phc)
}

func TestHash_Salted(t *testing.T) {
	a, err := Hash(testParams, "same-password")
	require.NoError(t, err)
	b, err := Hash(testParams, "same-password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.True(t, Verify("same-password", a))
	assert.True(t, Verify("same-password", b))
}

func TestHash_EmptyPassword(t *testing.T) {
	_, err := Hash(testParams, "")
	assert.Error(t, err)
}

func TestVerify_MalformedHash(t *testing.T) {
	assert.False(t, Verify("whatever", ""))
	assert.False(t, Verify("whatever", "not-a-phc-string"))
	assert.False(t, Verify("whatever", "$argon2id$v=18$m=8,t=1,p=1$abc$def"))
	assert.False(t, Verify("whatever", "$bcrypt$v=19$m=8,t=1,p=1$abc$def"))
	assert.False(t, Verify("whatever", "$argon2id$v=19$m=8,t=1,p=1$!!$??"))
}

func TestPolicy_Validate(t *testing.T) {
	p := Policy{MinLength: 8, RequireUpper: true, RequireLower: true, RequireDigit: true}

	ok, _ := p.Validate("Abcdefg1")
	assert.True(t, ok)

	ok, reasons := p.Validate("short")
	assert.False(t, ok)
	assert.Contains(t, reasons, "too_short")

	ok, reasons = p.Validate("alllowercase1")
	assert.False(t, ok)
	assert.Contains(t, reasons, "missing_upper")

	ok, reasons = p.Validate("NODIGITSHERE")
	assert.False(t, ok)
	assert.Contains(t, reasons, "missing_digit")
}
