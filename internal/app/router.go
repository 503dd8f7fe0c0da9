package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campus-erp/campus-erp/internal/auth"
	"github.com/campus-erp/campus-erp/internal/observability"
	"github.com/campus-erp/campus-erp/internal/platform/httpx"
	"github.com/campus-erp/campus-erp/internal/rbac"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	AuthHandler    *auth.Handler
	RBACHandler    *rbac.Handler
	RBACMiddleware rbac.Middleware
	Resolver       *auth.Resolver
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with campus defaults. Data-access
// routes under /api stand in for the CRUD glue that consumes the auth core;
// they only demonstrate the guards.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	authenticated := Authenticator(params.Resolver)

	r.Route("/auth", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.With(params.RBACMiddleware.RequirePermission(rbac.PermCreateUsers)).
				Post("/register", params.AuthHandler.Register)
			r.Get("/me", params.AuthHandler.Me)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(authenticated)
		params.RBACHandler.MountRoutes(r)

		r.With(params.RBACMiddleware.RequirePermission(rbac.PermMarkAttendance)).
			Post("/attendance", func(w http.ResponseWriter, req *http.Request) {
				httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "recorded"})
			})
		r.With(params.RBACMiddleware.RequireResource(rbac.ResourceNotifications, "create")).
			Post("/notifications", func(w http.ResponseWriter, req *http.Request) {
				httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
			})
		r.With(params.RBACMiddleware.RequireRole(auth.RoleAdmin, auth.RoleManagement)).
			Get("/reports", func(w http.ResponseWriter, req *http.Request) {
				httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
			})
	})

	return r
}
