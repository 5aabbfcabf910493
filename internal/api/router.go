package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"userhub/internal/api/handler"
	"userhub/internal/api/middleware"
	"userhub/internal/api/view"
	"userhub/internal/app/service"
	"userhub/internal/common"
	"userhub/internal/platform/metrics"
)

// RouterDeps collects everything the router wires together. Explicit
// dependencies, no package globals: handler state lives for exactly as
// long as the process.
type RouterDeps struct {
	Auth       *service.AuthService
	Admin      *service.AdminService
	Authorizer *service.Authorizer
	Renderer   *view.Renderer
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	SessionTTL time.Duration
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Base middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	authMw := middleware.NewAuth(deps.Authorizer)

	authHandler := handler.NewAuthHandler(deps.Auth, deps.Renderer, deps.Logger, deps.SessionTTL)
	authHandler.RegisterRoutes(r)

	r.Group(func(protected chi.Router) {
		protected.Use(authMw.RequireUser)
		authHandler.RegisterProtectedRoutes(protected)
	})

	adminHandler := handler.NewAdminHandler(deps.Admin, deps.Renderer, deps.Logger)
	r.Route("/admin", func(admin chi.Router) {
		admin.Use(authMw.RequireUser)
		adminHandler.RegisterRoutes(admin)
	})

	return r
}
