// Package router wires controllers, middlewares and routes into the HTTP
// surface of the service.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clinicbook/clinicbook/internal/cache"
	adminctl "github.com/clinicbook/clinicbook/internal/http/controllers/admin"
	apptctl "github.com/clinicbook/clinicbook/internal/http/controllers/appointments"
	authctl "github.com/clinicbook/clinicbook/internal/http/controllers/auth"
	healthctl "github.com/clinicbook/clinicbook/internal/http/controllers/health"
	intakectl "github.com/clinicbook/clinicbook/internal/http/controllers/intake"
	httperrors "github.com/clinicbook/clinicbook/internal/http/errors"
	"github.com/clinicbook/clinicbook/internal/http/middlewares"
	"github.com/clinicbook/clinicbook/internal/metrics"
	"github.com/clinicbook/clinicbook/internal/rate"
	"github.com/clinicbook/clinicbook/internal/store/core"
)

// Deps carries everything the route table needs.
type Deps struct {
	Auth         *authctl.Controllers
	Appointments *apptctl.Controller
	Intake       *intakectl.Controller
	Admin        *adminctl.Controller
	Health       *healthctl.Controller

	Verifier    middlewares.TokenVerifier
	Revocations cache.Client

	CORSAllowedOrigins []string
	AdminAPIKey        string

	// Nil limiters leave the corresponding route unthrottled.
	LoginLimiter  rate.Limiter
	VerifyLimiter rate.Limiter
	ResendLimiter rate.Limiter
}

// New builds the route table.
func New(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middlewares.WithRequestID())
	r.Use(middlewares.WithLogging())
	r.Use(middlewares.WithMetrics())
	if len(deps.CORSAllowedOrigins) > 0 {
		r.Use(middlewares.WithCORS(deps.CORSAllowedOrigins))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	requireAuth := deps.requireAuth()
	requireAdmin := middlewares.RequireRole(core.RoleAdmin)
	requirePatient := middlewares.RequireRole(core.RolePatient)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", deps.Auth.Register.Register)
			r.With(limit(deps.LoginLimiter, "login")).Post("/login", deps.Auth.Login.Login)
			r.With(limit(deps.VerifyLimiter, "verify")).Post("/verify-otp", deps.Auth.Verify.VerifyOTP)
			r.With(limit(deps.ResendLimiter, "resend")).Post("/resend-otp", deps.Auth.Verify.ResendOTP)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", deps.Auth.Logout.Logout)
				r.Get("/me", deps.Auth.Me.Me)
			})
		})

		r.Route("/appointments", func(r chi.Router) {
			r.Use(requireAuth)

			r.Group(func(r chi.Router) {
				r.Use(requirePatient)
				r.Post("/", deps.Appointments.Book)
				r.Get("/mine", deps.Appointments.Mine)
			})

			// Owner-or-admin; the service checks ownership.
			r.Delete("/{id}", deps.Appointments.Delete)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Get("/", deps.Appointments.List)
				r.Put("/{id}", deps.Appointments.UpdateStatus)
			})
		})

		r.Route("/intake", func(r chi.Router) {
			r.Use(requireAuth)

			r.Group(func(r chi.Router) {
				r.Use(requirePatient)
				r.Post("/", deps.Intake.Submit)
				r.Get("/mine", deps.Intake.Mine)
			})

			r.With(requireAdmin).Get("/", deps.Intake.List)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middlewares.RequireAdminKey(deps.AdminAPIKey))

			r.Get("/users", deps.Admin.ListUsers)
			r.Post("/users/{id}/role", deps.Admin.SetRole)
		})
	})

	return r
}

func (d Deps) requireAuth() middlewares.Middleware {
	return middlewares.RequireAuth(d.Verifier, d.Revocations)
}

// limit throttles a route when a limiter is configured; a nil limiter is a
// pass-through.
func limit(l rate.Limiter, name string) func(http.Handler) http.Handler {
	if l == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return middlewares.WithRateLimit(l, name)
}
