package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/foodshareapp/foodshare-backend/internal/domain"
	"github.com/foodshareapp/foodshare-backend/internal/health"
	"github.com/foodshareapp/foodshare-backend/internal/http/handler"
	"github.com/foodshareapp/foodshare-backend/internal/http/middleware"
	"github.com/foodshareapp/foodshare-backend/internal/http/response"
	"github.com/foodshareapp/foodshare-backend/internal/security"
)

type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	UserHandler       *handler.UserHandler
	DonationHandler   *handler.DonationHandler
	JWTManager        *security.JWTManager
	CORSOrigins       []string
	AuthRateLimitRPM  int
	APIRateLimitRPM   int
	GlobalRateLimiter GlobalRateLimiterFunc
	AuthRateLimiter   AuthRateLimiterFunc
	Idempotency       IdempotencyMiddlewareFactory
	Readiness         *health.ProbeRunner
	EnableOTelHTTP    bool
}

type GlobalRateLimiterFunc func(http.Handler) http.Handler
type AuthRateLimiterFunc func(http.Handler) http.Handler
type IdempotencyMiddlewareFactory func(scope string) func(http.Handler) http.Handler

// Donation payloads carry base64 image data. The enforced image ceiling is
// 5MiB of decoded bytes, so the request body cap leaves room for base64
// expansion plus the rest of the JSON document.
const donationBodyLimit = 8 << 20

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	r.Use(middleware.BodyLimit(1 << 20))
	if dep.GlobalRateLimiter != nil {
		r.Use(dep.GlobalRateLimiter)
	} else {
		r.Use(middleware.NewRateLimiter(dep.APIRateLimitRPM, time.Minute).Middleware())
	}

	authLimiter := dep.AuthRateLimiter
	if authLimiter == nil {
		authLimiter = middleware.NewRateLimiter(dep.AuthRateLimitRPM, time.Minute).Middleware()
	}
	idempotent := func(scope string) func(http.Handler) http.Handler {
		if dep.Idempotency == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return dep.Idempotency(scope)
	}

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": []any{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.Error(w, r, http.StatusServiceUnavailable, "DEPENDENCY_UNREADY", "dependencies are not ready", map[string]any{"checks": results})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(authLimiter, idempotent("auth.signup")).Post("/signup", dep.AuthHandler.Signup)
			r.With(authLimiter).Post("/login", dep.AuthHandler.Login)
			r.Group(func(r chi.Router) {
				r.Use(middleware.CSRFMiddleware)
				r.With(authLimiter).Post("/refresh", dep.AuthHandler.Refresh)
				r.With(middleware.AuthMiddleware(dep.JWTManager)).Post("/logout", dep.AuthHandler.Logout)
			})
		})

		r.Route("/donations", func(r chi.Router) {
			r.Get("/catalog", dep.DonationHandler.Catalog)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthMiddleware(dep.JWTManager))
				r.Get("/", dep.DonationHandler.List)
				r.Get("/{id}", dep.DonationHandler.GetByID)
				r.Post("/shelf-life", dep.DonationHandler.ShelfLife)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthMiddleware(dep.JWTManager))
				r.Use(middleware.CSRFMiddleware)
				createChain := []func(http.Handler) http.Handler{
					middleware.RequireRole(domain.RoleDonor),
					middleware.BodyLimit(donationBodyLimit),
					idempotent("donations.create"),
				}
				r.With(createChain...).Post("/", dep.DonationHandler.Create)
				r.With(middleware.RequireRole(domain.RoleDonor), middleware.BodyLimit(donationBodyLimit)).Put("/{id}", dep.DonationHandler.Update)
				r.Patch("/{id}/status", dep.DonationHandler.UpdateStatus)
				r.With(middleware.RequireRole(domain.RoleDonor)).Delete("/{id}", dep.DonationHandler.Delete)
				r.With(middleware.BodyLimit(donationBodyLimit)).Post("/validate-image", dep.DonationHandler.ValidateImage)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(dep.JWTManager))
			r.Get("/me", dep.UserHandler.Me)
			r.Get("/{id}", dep.UserHandler.Profile)
		})
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
