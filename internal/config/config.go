// Package config loads the service configuration from a YAML file with
// environment-variable overrides on top. Secrets (JWT signing secret, DB DSN,
// SMTP password, admin API key) come from the environment; the YAML file
// holds everything that is safe to commit.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Storage struct {
		Driver   string `yaml:"driver"` // postgres | memory
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxConns        int    `yaml:"max_conns"`
			MinConns        int    `yaml:"min_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		Driver string `yaml:"driver"` // memory | redis
		Redis  struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
		Prefix string `yaml:"prefix"`
	} `yaml:"cache"`

	JWT struct {
		Issuer    string `yaml:"issuer"`
		Secret    string `yaml:"-"` // env only: JWT_SECRET
		AccessTTL string `yaml:"access_ttl"`
	} `yaml:"jwt"`

	Register struct {
		// AllowRoleSelection lets the registration payload pick the role.
		// Off by default: everyone registers as patient and admin is granted
		// through the admin API.
		AllowRoleSelection bool `yaml:"allow_role_selection"`
	} `yaml:"register"`

	Auth struct {
		Verify struct {
			// Enabled switches registration to the email-verification flow:
			// no session until the code is confirmed.
			Enabled     bool          `yaml:"enabled"`
			TTL         time.Duration `yaml:"ttl"`
			MaxAttempts int           `yaml:"max_attempts"`
		} `yaml:"verify"`
	} `yaml:"auth"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		Login   struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"login"`
		Verify struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"verify"`
		Resend struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"resend"`
	} `yaml:"rate"`

	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"-"` // env only: SMTP_PASSWORD
		From     string `yaml:"from"`
		TLS      string `yaml:"tls"` // auto | starttls | ssl | none
	} `yaml:"smtp"`

	Admin struct {
		APIKey string `yaml:"-"` // env only: ADMIN_API_KEY
	} `yaml:"admin"`

	Pagination struct {
		PageSize int `yaml:"page_size"`
	} `yaml:"pagination"`
}

func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = "clinicbook"
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "clinicbook"
	}
	if c.JWT.AccessTTL == "" {
		c.JWT.AccessTTL = "168h" // 7d
	}
	if c.Auth.Verify.TTL == 0 {
		c.Auth.Verify.TTL = 10 * time.Minute
	}
	if c.Auth.Verify.MaxAttempts == 0 {
		c.Auth.Verify.MaxAttempts = 5
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == "" {
		c.Rate.Login.Window = "1m"
	}
	if c.Rate.Verify.Limit == 0 {
		c.Rate.Verify.Limit = 10
	}
	if c.Rate.Verify.Window == "" {
		c.Rate.Verify.Window = "10m"
	}
	if c.Rate.Resend.Limit == 0 {
		c.Rate.Resend.Limit = 3
	}
	if c.Rate.Resend.Window == "" {
		c.Rate.Resend.Window = "10m"
	}
	if c.SMTP.TLS == "" {
		c.SMTP.TLS = "auto"
	}
	if c.Pagination.PageSize == 0 {
		c.Pagination.PageSize = 20
	}

	// validate string durations
	for _, d := range []string{
		c.JWT.AccessTTL,
		c.Rate.Login.Window, c.Rate.Verify.Window, c.Rate.Resend.Window,
	} {
		if _, err := time.ParseDuration(d); err != nil {
			return nil, err
		}
	}
	if c.Storage.Postgres.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(c.Storage.Postgres.ConnMaxLifetime); err != nil {
			return nil, err
		}
	}

	c.applyEnvOverrides()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("APP_ENV"); v != "" {
		c.App.Env = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Storage.Driver = "postgres"
		c.Storage.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Driver = "redis"
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	c.JWT.Secret = os.Getenv("JWT_SECRET")
	if v := os.Getenv("JWT_ACCESS_TTL"); v != "" {
		if _, err := time.ParseDuration(v); err == nil {
			c.JWT.AccessTTL = v
		}
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		c.SMTP.Host = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SMTP.Port = n
		}
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		c.SMTP.Username = v
	}
	c.SMTP.Password = os.Getenv("SMTP_PASSWORD")
	if v := os.Getenv("SMTP_FROM"); v != "" {
		c.SMTP.From = v
	}
	c.Admin.APIKey = os.Getenv("ADMIN_API_KEY")
}

// Validate enforces the invariants that make the process unsafe to start
// when broken.
func (c *Config) Validate() error {
	prod := strings.EqualFold(c.App.Env, "prod")

	if c.JWT.Secret == "" {
		if prod {
			return fmt.Errorf("config: JWT_SECRET is required in prod")
		}
		// dev fallback so `go run` works out of the box
		c.JWT.Secret = "dev-only-insecure-secret"
	}
	if prod && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("config: JWT_SECRET must be at least 32 bytes in prod")
	}
	if c.Storage.Driver == "postgres" && c.Storage.DSN == "" {
		return fmt.Errorf("config: storage driver postgres needs a DSN")
	}
	if prod && c.Storage.Driver == "memory" {
		return fmt.Errorf("config: memory storage is not allowed in prod")
	}
	return nil
}

// IsDev reports whether we run outside prod.
func (c *Config) IsDev() bool { return !strings.EqualFold(c.App.Env, "prod") }

// AccessTTL returns the parsed token lifetime.
func (c *Config) AccessTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWT.AccessTTL)
	return d
}

// RateWindow parses one of the rate window strings.
func RateWindow(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
