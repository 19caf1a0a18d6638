package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, 168*time.Hour, cfg.AccessTTL())
	assert.Equal(t, 10*time.Minute, cfg.Auth.Verify.TTL)
	assert.Equal(t, 5, cfg.Auth.Verify.MaxAttempts)
	assert.False(t, cfg.Register.AllowRoleSelection)
	assert.True(t, cfg.IsDev())
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	p := writeConfig(t, `
server:
  addr: ":9000"
jwt:
  access_ttl: 24h
auth:
  verify:
    enabled: true
    ttl: 5m
`)
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr, "env wins over yaml")
	assert.Equal(t, 24*time.Hour, cfg.AccessTTL())
	assert.True(t, cfg.Auth.Verify.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Auth.Verify.TTL)
	assert.Equal(t, "test-secret", cfg.JWT.Secret)
}

func TestLoad_BadDuration(t *testing.T) {
	p := writeConfig(t, `
jwt:
  access_ttl: "one week"
`)
	_, err := Load(p)
	assert.Error(t, err)
}

func TestValidate_ProdRequiresSecret(t *testing.T) {
	p := writeConfig(t, `
app:
  env: prod
storage:
  driver: postgres
  dsn: postgres://localhost/cb
`)
	t.Setenv("JWT_SECRET", "")
	_, err := Load(p)
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.False(t, cfg.IsDev())
}

func TestValidate_ProdForbidsMemoryStorage(t *testing.T) {
	p := writeConfig(t, `
app:
  env: prod
`)
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	_, err := Load(p)
	assert.Error(t, err)
}

func TestValidate_DevFallbackSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.JWT.Secret)
}
