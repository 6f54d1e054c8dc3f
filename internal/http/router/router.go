package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"ai-samples-api/internal/health"
	"ai-samples-api/internal/http/handler"
	"ai-samples-api/internal/http/middleware"
	"ai-samples-api/internal/http/response"
	"ai-samples-api/internal/security"
)

type Dependencies struct {
	AuthHandler  *handler.AuthHandler
	UserHandler  *handler.UserHandler
	RoleHandler  *handler.RoleHandler
	AgentHandler *handler.AgentHandler

	JWTManager *security.JWTManager

	CORSOrigins      []string
	AuthRateLimitRPM int
	APIRateLimitRPM  int

	Readiness      *health.ProbeRunner
	EnableOTelHTTP bool
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	r.Use(middleware.BodyLimit(1 << 20))
	r.Use(middleware.NewRateLimiter(dep.APIRateLimitRPM, time.Minute, "api").Middleware())

	authLimiter := middleware.NewRateLimiter(dep.AuthRateLimitRPM, time.Minute, "auth").Middleware()
	authenticated := middleware.AuthMiddleware(dep.JWTManager)
	adminOnly := middleware.RequireRole("Admin")

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
		response.JSON(w, r, http.StatusServiceUnavailable, map[string]any{"status": "unready", "checks": results})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(authLimiter).Post("/login", dep.AuthHandler.Login)
			r.With(authenticated).Get("/me", dep.AuthHandler.Me)
		})

		r.Route("/users", func(r chi.Router) {
			// Registration is open; everything else needs a token.
			r.Post("/", dep.UserHandler.Create)
			r.With(authenticated, adminOnly).Get("/", dep.UserHandler.List)
			r.With(authenticated, adminOnly).Get("/{id}", dep.UserHandler.GetByID)
			r.With(authenticated, adminOnly).Put("/{id}", dep.UserHandler.Update)
			r.With(authenticated, adminOnly).Delete("/{id}", dep.UserHandler.Delete)
		})

		r.Route("/roles", func(r chi.Router) {
			r.Use(authenticated, adminOnly)
			r.Get("/", dep.RoleHandler.List)
			r.Get("/users/{userId}", dep.RoleHandler.GetUserRoles)
			r.Post("/users/{userId}/roles", dep.RoleHandler.Assign)
			r.Delete("/users/{userId}/roles/{roleId}", dep.RoleHandler.Remove)
		})

		r.Route("/agents", func(r chi.Router) {
			r.Use(authenticated)
			r.Get("/", dep.AgentHandler.List)
			r.Post("/{name}/tools/{tool}", dep.AgentHandler.InvokeTool)
		})
	})

	if dep.EnableOTelHTTP {
		return otelhttp.NewHandler(r, "http.server")
	}
	return r
}
