package auth

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicbook/clinicbook/internal/cache"
	dto "github.com/clinicbook/clinicbook/internal/http/dto/auth"
	"github.com/clinicbook/clinicbook/internal/http/middlewares"
	jwtx "github.com/clinicbook/clinicbook/internal/jwt"
	"github.com/clinicbook/clinicbook/internal/security/password"
	"github.com/clinicbook/clinicbook/internal/store/core"
	"github.com/clinicbook/clinicbook/internal/store/memory"
	"github.com/clinicbook/clinicbook/internal/store/usercache"
)

// capturingSender records every message so tests can pull codes out of the
// rendered bodies.
type capturingSender struct {
	to    []string
	texts []string
}

func (c *capturingSender) Send(to, subject, htmlBody, textBody string) error {
	c.to = append(c.to, to)
	c.texts = append(c.texts, textBody)
	return nil
}

var codeRE = regexp.MustCompile(`\b(\d{6})\b`)

func (c *capturingSender) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, c.texts)
	m := codeRE.FindStringSubmatch(c.texts[len(c.texts)-1])
	require.Len(t, m, 2, "no code in message body")
	return m[1]
}

type fixture struct {
	repo   *memory.Store
	cache  cache.Client
	sender *capturingSender
	deps   Deps
}

func newFixture(t *testing.T, verify bool) *fixture {
	t.Helper()
	issuer, err := jwtx.NewIssuer("clinicbook-test", []byte("0123456789abcdef0123456789abcdef"), time.Hour)
	require.NoError(t, err)

	repo := memory.New()
	c := cache.NewMemory("test")
	sender := &capturingSender{}

	return &fixture{
		repo:   repo,
		cache:  c,
		sender: sender,
		deps: Deps{
			Repo:          repo,
			Users:         usercache.New(repo, time.Minute),
			Issuer:        issuer,
			Cache:         c,
			Sender:        sender,
			HashParams:    password.Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32},
			Policy:        password.Policy{MinLength: 8, RequireLower: true, RequireDigit: true},
			VerifyEnabled: verify,
			VerifyTTL:     10 * time.Minute,
			MaxAttempts:   5,
		},
	}
}

func validRegister() dto.RegisterRequest {
	return dto.RegisterRequest{
		Name:     "Ada Park",
		Email:    "ada@example.com",
		Password: "sturdy-pass1",
	}
}

func TestRegister_DirectIssue(t *testing.T) {
	f := newFixture(t, false)
	svc := NewRegisterService(f.deps)

	res, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)
	require.NotNil(t, res.Issued)
	assert.Nil(t, res.Pending)
	assert.NotEmpty(t, res.Issued.Token)
	assert.Equal(t, "ada@example.com", res.Issued.User.Email)
	assert.Equal(t, string(core.RolePatient), res.Issued.User.Role)

	u, err := f.repo.GetUserByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.True(t, u.EmailVerified)
	assert.Empty(t, f.sender.texts)
}

func TestRegister_PendingVerification(t *testing.T) {
	f := newFixture(t, true)
	svc := NewRegisterService(f.deps)

	res, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)
	require.NotNil(t, res.Pending)
	assert.Nil(t, res.Issued)
	assert.Equal(t, "ada@example.com", res.Pending.Email)

	u, err := f.repo.GetUserByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.False(t, u.EmailVerified)

	require.Len(t, f.sender.to, 1)
	assert.Equal(t, "ada@example.com", f.sender.to[0])
	assert.Len(t, f.sender.lastCode(t), 6)
}

func TestRegister_EmailNormalized(t *testing.T) {
	f := newFixture(t, false)
	svc := NewRegisterService(f.deps)

	in := validRegister()
	in.Email = "  Ada@Example.COM "
	res, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", res.Issued.User.Email)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t, false)
	svc := NewRegisterService(f.deps)
	ctx := context.Background()

	in := validRegister()
	in.Name = ""
	_, err := svc.Register(ctx, in)
	assert.ErrorIs(t, err, ErrMissingFields)

	in = validRegister()
	in.Email = "not-an-email"
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidEmail)

	in = validRegister()
	in.Password = "short1"
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, ErrPolicyViolation)
}

func TestRegister_DuplicateEmailLeavesStoreUnchanged(t *testing.T) {
	f := newFixture(t, false)
	svc := NewRegisterService(f.deps)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)
	first, err := f.repo.GetUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)

	dup := validRegister()
	dup.Name = "Impostor"
	dup.Email = "ADA@example.com"
	dup.Password = "different-pass9"
	_, err = svc.Register(ctx, dup)
	assert.ErrorIs(t, err, ErrEmailTaken)

	after, err := f.repo.GetUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, first, after)
}

func TestRegister_RoleSelectionDisabledForcesPatient(t *testing.T) {
	f := newFixture(t, false)
	svc := NewRegisterService(f.deps)

	in := validRegister()
	in.Role = "admin"
	res, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, string(core.RolePatient), res.Issued.User.Role)
}

func TestRegister_RoleSelectionEnabled(t *testing.T) {
	f := newFixture(t, false)
	f.deps.AllowRoleSelection = true
	svc := NewRegisterService(f.deps)
	ctx := context.Background()

	in := validRegister()
	in.Role = "admin"
	res, err := svc.Register(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, string(core.RoleAdmin), res.Issued.User.Role)

	in = validRegister()
	in.Email = "other@example.com"
	in.Role = "superuser"
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t, false)
	require.NoError(t, registerUser(f, validRegister()))
	svc := NewLoginService(f.deps)

	res, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "Ada@example.com",
		Password: "sturdy-pass1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "ada@example.com", res.User.Email)

	claims, err := f.deps.Issuer.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, string(core.RolePatient), claims.Role)
}

func TestLogin_InvalidCredentialMessagesMatch(t *testing.T) {
	f := newFixture(t, false)
	require.NoError(t, registerUser(f, validRegister()))
	svc := NewLoginService(f.deps)
	ctx := context.Background()

	_, errUnknown := svc.Login(ctx, dto.LoginRequest{Email: "ghost@example.com", Password: "whatever-1"})
	_, errWrongPw := svc.Login(ctx, dto.LoginRequest{Email: "ada@example.com", Password: "wrong-pass1"})

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	// Same error value, so the caller cannot tell the cases apart.
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestLogin_MissingFields(t *testing.T) {
	f := newFixture(t, false)
	svc := NewLoginService(f.deps)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "ada@example.com"})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestLogin_UnverifiedBlockedOnlyWithCorrectPassword(t *testing.T) {
	f := newFixture(t, true)
	require.NoError(t, registerUser(f, validRegister()))
	svc := NewLoginService(f.deps)
	ctx := context.Background()

	_, err := svc.Login(ctx, dto.LoginRequest{Email: "ada@example.com", Password: "sturdy-pass1"})
	assert.ErrorIs(t, err, ErrEmailNotVerified)

	// A wrong password never reveals that the account exists unverified.
	_, err = svc.Login(ctx, dto.LoginRequest{Email: "ada@example.com", Password: "wrong-pass1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyOTP_Success(t *testing.T) {
	f := newFixture(t, true)
	reg := registerPending(t, f)
	svc := NewVerifyService(f.deps)
	ctx := context.Background()

	res, err := svc.VerifyOTP(ctx, reg.UserID, f.sender.lastCode(t))
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, reg.UserID, res.User.ID)

	u, err := f.repo.GetUserByID(ctx, reg.UserID)
	require.NoError(t, err)
	assert.True(t, u.EmailVerified)

	// The code is single use.
	_, err = svc.VerifyOTP(ctx, reg.UserID, f.sender.lastCode(t))
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	f := newFixture(t, true)
	reg := registerPending(t, f)
	svc := NewVerifyService(f.deps)
	ctx := context.Background()

	_, err := svc.VerifyOTP(ctx, reg.UserID, "000000")
	assert.ErrorIs(t, err, ErrInvalidCode)

	// The real code still works after a bad guess.
	_, err = svc.VerifyOTP(ctx, reg.UserID, f.sender.lastCode(t))
	require.NoError(t, err)
}

func TestVerifyOTP_AttemptLimit(t *testing.T) {
	f := newFixture(t, true)
	f.deps.MaxAttempts = 3
	reg := registerPending(t, f)
	svc := NewVerifyService(f.deps)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.VerifyOTP(ctx, reg.UserID, "000000")
		assert.ErrorIs(t, err, ErrInvalidCode)
	}

	// Exhausted: even the real code is rejected now.
	_, err := svc.VerifyOTP(ctx, reg.UserID, f.sender.lastCode(t))
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestVerifyOTP_Expired(t *testing.T) {
	f := newFixture(t, true)
	reg := registerPending(t, f)
	svc := NewVerifyService(f.deps)
	ctx := context.Background()

	// Rewrite the pending record with an expiry in the past.
	raw, err := f.cache.Get(ctx, otpKey(reg.UserID))
	require.NoError(t, err)
	var rec otpRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	rec.ExpiresAt = time.Now().Add(-time.Second)
	buf, err := json.Marshal(rec)
	require.NoError(t, err)
	require.NoError(t, f.cache.Set(ctx, otpKey(reg.UserID), string(buf), time.Minute))

	_, err = svc.VerifyOTP(ctx, reg.UserID, rec.Code)
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestVerifyOTP_UnknownUser(t *testing.T) {
	f := newFixture(t, true)
	svc := NewVerifyService(f.deps)

	_, err := svc.VerifyOTP(context.Background(), "no-such-user", "123456")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestResendOTP_SupersedesOldCode(t *testing.T) {
	f := newFixture(t, true)
	reg := registerPending(t, f)
	svc := NewVerifyService(f.deps)
	ctx := context.Background()

	oldCode := f.sender.lastCode(t)
	require.NoError(t, svc.ResendOTP(ctx, reg.UserID))
	newCode := f.sender.lastCode(t)
	require.Len(t, f.sender.texts, 2)

	if oldCode != newCode {
		_, err := svc.VerifyOTP(ctx, reg.UserID, oldCode)
		assert.ErrorIs(t, err, ErrInvalidCode)
	}
	_, err := svc.VerifyOTP(ctx, reg.UserID, newCode)
	require.NoError(t, err)
}

func TestResendOTP_ResetsAttempts(t *testing.T) {
	f := newFixture(t, true)
	f.deps.MaxAttempts = 2
	reg := registerPending(t, f)
	svc := NewVerifyService(f.deps)
	ctx := context.Background()

	_, err := svc.VerifyOTP(ctx, reg.UserID, "000000")
	assert.ErrorIs(t, err, ErrInvalidCode)

	require.NoError(t, svc.ResendOTP(ctx, reg.UserID))
	_, err = svc.VerifyOTP(ctx, reg.UserID, f.sender.lastCode(t))
	require.NoError(t, err)
}

func TestResendOTP_VerifiedUser(t *testing.T) {
	f := newFixture(t, true)
	reg := registerPending(t, f)
	svc := NewVerifyService(f.deps)
	ctx := context.Background()

	_, err := svc.VerifyOTP(ctx, reg.UserID, f.sender.lastCode(t))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ResendOTP(ctx, reg.UserID), ErrAlreadyVerified)
}

// countingRepo tallies id lookups so tests can see whether reads were
// served from the user cache.
type countingRepo struct {
	core.Repository
	lookups int
}

func (c *countingRepo) GetUserByID(ctx context.Context, id string) (*core.User, error) {
	c.lookups++
	return c.Repository.GetUserByID(ctx, id)
}

func TestResendOTP_RepeatedCallsHitStoreOnce(t *testing.T) {
	f := newFixture(t, true)
	counting := &countingRepo{Repository: f.repo}
	f.deps.Users = usercache.New(counting, time.Minute)
	reg := registerPending(t, f)
	svc := NewVerifyService(f.deps)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.ResendOTP(ctx, reg.UserID))
	}
	assert.Equal(t, 1, counting.lookups)

	_, err := svc.VerifyOTP(ctx, reg.UserID, f.sender.lastCode(t))
	require.NoError(t, err)
	assert.Equal(t, 1, counting.lookups)

	// Verification invalidates the cached record, so the next read goes
	// back to the store and sees the verified flag.
	_, err = svc.VerifyOTP(ctx, reg.UserID, "000000")
	assert.ErrorIs(t, err, ErrAlreadyVerified)
	assert.Equal(t, 2, counting.lookups)
}

func TestResendOTP_UnknownUser(t *testing.T) {
	f := newFixture(t, true)
	svc := NewVerifyService(f.deps)

	assert.ErrorIs(t, svc.ResendOTP(context.Background(), "no-such-user"), ErrUserNotFound)
}

func TestLogout_RevokesUntilExpiry(t *testing.T) {
	f := newFixture(t, false)
	require.NoError(t, registerUser(f, validRegister()))
	login := NewLoginService(f.deps)
	ctx := context.Background()

	res, err := login.Login(ctx, dto.LoginRequest{Email: "ada@example.com", Password: "sturdy-pass1"})
	require.NoError(t, err)
	claims, err := f.deps.Issuer.Parse(res.Token)
	require.NoError(t, err)

	svc := NewLogoutService(f.deps)
	require.NoError(t, svc.Logout(ctx, claims))

	_, err = f.cache.Get(ctx, middlewares.RevocationKey(claims.JTI))
	require.NoError(t, err)

	// Idempotent.
	require.NoError(t, svc.Logout(ctx, claims))
}

func TestLogout_ExpiredTokenIsNoOp(t *testing.T) {
	f := newFixture(t, false)
	svc := NewLogoutService(f.deps)

	claims := jwtx.Claims{UserID: "u1", JTI: "j1", ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, svc.Logout(context.Background(), claims))

	_, err := f.cache.Get(context.Background(), middlewares.RevocationKey("j1"))
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func registerUser(f *fixture, in dto.RegisterRequest) error {
	_, err := NewRegisterService(f.deps).Register(context.Background(), in)
	return err
}

func registerPending(t *testing.T, f *fixture) *PendingVerification {
	t.Helper()
	res, err := NewRegisterService(f.deps).Register(context.Background(), validRegister())
	require.NoError(t, err)
	require.NotNil(t, res.Pending)
	return res.Pending
}
