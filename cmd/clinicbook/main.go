// clinicbook is the patient-scheduling API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	redis "github.com/redis/go-redis/v9"

	"github.com/clinicbook/clinicbook/internal/cache"
	"github.com/clinicbook/clinicbook/internal/config"
	"github.com/clinicbook/clinicbook/internal/email"
	adminctl "github.com/clinicbook/clinicbook/internal/http/controllers/admin"
	apptctl "github.com/clinicbook/clinicbook/internal/http/controllers/appointments"
	authctl "github.com/clinicbook/clinicbook/internal/http/controllers/auth"
	healthctl "github.com/clinicbook/clinicbook/internal/http/controllers/health"
	intakectl "github.com/clinicbook/clinicbook/internal/http/controllers/intake"
	"github.com/clinicbook/clinicbook/internal/http/router"
	adminsvc "github.com/clinicbook/clinicbook/internal/http/services/admin"
	apptsvc "github.com/clinicbook/clinicbook/internal/http/services/appointments"
	authsvc "github.com/clinicbook/clinicbook/internal/http/services/auth"
	intakesvc "github.com/clinicbook/clinicbook/internal/http/services/intake"
	jwtx "github.com/clinicbook/clinicbook/internal/jwt"
	"github.com/clinicbook/clinicbook/internal/metrics"
	"github.com/clinicbook/clinicbook/internal/observability/logger"
	"github.com/clinicbook/clinicbook/internal/rate"
	"github.com/clinicbook/clinicbook/internal/security/password"
	"github.com/clinicbook/clinicbook/internal/store/core"
	"github.com/clinicbook/clinicbook/internal/store/memory"
	"github.com/clinicbook/clinicbook/internal/store/pg"
	"github.com/clinicbook/clinicbook/internal/store/usercache"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "clinicbook:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", envOr("CONFIG_PATH", ""), "path to config.yaml")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "clinicbook",
		Version:     version,
	})
	defer func() { _ = logger.Sync() }()
	log := logger.L()

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := buildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	cacheClient, err := cache.New(cache.Config{
		Driver:   cfg.Cache.Driver,
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Prefix,
	})
	if err != nil {
		return err
	}
	defer func() { _ = cacheClient.Close() }()

	issuer, err := jwtx.NewIssuer(cfg.JWT.Issuer, []byte(cfg.JWT.Secret), cfg.AccessTTL())
	if err != nil {
		return err
	}

	sender := buildSender(cfg)
	users := usercache.New(repo, 30*time.Second)

	authDeps := authsvc.Deps{
		Repo:               repo,
		Users:              users,
		Issuer:             issuer,
		Cache:              cacheClient,
		Sender:             sender,
		HashParams:         password.Default,
		Policy:             password.DefaultPolicy,
		VerifyEnabled:      cfg.Auth.Verify.Enabled,
		VerifyTTL:          cfg.Auth.Verify.TTL,
		MaxAttempts:        cfg.Auth.Verify.MaxAttempts,
		AllowRoleSelection: cfg.Register.AllowRoleSelection,
	}

	loginLimiter, verifyLimiter, resendLimiter := buildLimiters(cfg)

	handler := router.New(router.Deps{
		Auth: authctl.NewControllers(authctl.Services{
			Register: authsvc.NewRegisterService(authDeps),
			Login:    authsvc.NewLoginService(authDeps),
			Verify:   authsvc.NewVerifyService(authDeps),
			Logout:   authsvc.NewLogoutService(authDeps),
		}),
		Appointments: apptctl.New(apptsvc.New(apptsvc.Deps{Repo: repo, PageSize: cfg.Pagination.PageSize})),
		Intake:       intakectl.New(intakesvc.New(intakesvc.Deps{Repo: repo, PageSize: cfg.Pagination.PageSize})),
		Admin:        adminctl.New(adminsvc.New(adminsvc.Deps{Repo: repo, Users: users, PageSize: cfg.Pagination.PageSize})),
		Health:       healthctl.New(repo, cacheClient),

		Verifier:    issuer,
		Revocations: cacheClient,

		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		AdminAPIKey:        cfg.Admin.APIKey,

		LoginLimiter:  loginLimiter,
		VerifyLimiter: verifyLimiter,
		ResendLimiter: resendLimiter,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			logger.String("addr", cfg.Server.Addr),
			logger.String("env", cfg.App.Env),
			logger.String("storage", cfg.Storage.Driver),
			logger.String("cache", cfg.Cache.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func buildStore(ctx context.Context, cfg *config.Config) (core.Repository, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		lifetime, _ := time.ParseDuration(cfg.Storage.Postgres.ConnMaxLifetime)
		return pg.New(ctx, cfg.Storage.DSN, pg.Config{
			MaxConns:        int32(cfg.Storage.Postgres.MaxConns),
			MinConns:        int32(cfg.Storage.Postgres.MinConns),
			ConnMaxLifetime: lifetime,
		})
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func buildSender(cfg *config.Config) email.Sender {
	if cfg.SMTP.Host == "" {
		// Dev fallback: codes land in the logs instead of a mailbox.
		return email.LogSender{}
	}
	s := email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.Username, cfg.SMTP.Password)
	s.TLSMode = cfg.SMTP.TLS
	return s
}

func buildLimiters(cfg *config.Config) (login, verify, resend rate.Limiter) {
	if !cfg.Rate.Enabled {
		return nil, nil, nil
	}

	if cfg.Cache.Driver == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		prefix := cfg.Cache.Prefix + ":rate"
		login = rate.NewRedisLimiter(client, prefix, cfg.Rate.Login.Limit, config.RateWindow(cfg.Rate.Login.Window))
		verify = rate.NewRedisLimiter(client, prefix, cfg.Rate.Verify.Limit, config.RateWindow(cfg.Rate.Verify.Window))
		resend = rate.NewRedisLimiter(client, prefix, cfg.Rate.Resend.Limit, config.RateWindow(cfg.Rate.Resend.Window))
		return login, verify, resend
	}

	login = rate.NewMemoryLimiter(cfg.Rate.Login.Limit, config.RateWindow(cfg.Rate.Login.Window))
	verify = rate.NewMemoryLimiter(cfg.Rate.Verify.Limit, config.RateWindow(cfg.Rate.Verify.Window))
	resend = rate.NewMemoryLimiter(cfg.Rate.Resend.Limit, config.RateWindow(cfg.Rate.Resend.Window))
	return login, verify, resend
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
