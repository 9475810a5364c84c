package routes

import (
	"net/http"

	"github.com/zatekoja/learnplan/internal/api/handlers"
	"github.com/zatekoja/learnplan/internal/api/middleware"
	"github.com/zatekoja/learnplan/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	planHandler        *handlers.PlanHandler
	contributorHandler *handlers.ContributorHandler
	resourceHandler    *handlers.ResourceHandler
	adminHandler       *handlers.AdminHandler
	healthHandler      *handlers.HealthHandler

	sessions        middleware.SessionVerifier
	adminToken      string
	allowedOrigins  []string
	rateLimiter     *middleware.RateLimiter
	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// Options carries the cross-cutting pieces the router wires around handlers.
// Nil rate limiter and cache middleware are skipped.
type Options struct {
	Sessions        middleware.SessionVerifier
	AdminToken      string
	AllowedOrigins  []string
	RateLimiter     *middleware.RateLimiter
	CacheMiddleware *middleware.CacheMiddleware
	Metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	planHandler *handlers.PlanHandler,
	contributorHandler *handlers.ContributorHandler,
	resourceHandler *handlers.ResourceHandler,
	adminHandler *handlers.AdminHandler,
	healthHandler *handlers.HealthHandler,
	opts Options,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		planHandler:        planHandler,
		contributorHandler: contributorHandler,
		resourceHandler:    resourceHandler,
		adminHandler:       adminHandler,
		healthHandler:      healthHandler,
		sessions:           opts.Sessions,
		adminToken:         opts.AdminToken,
		allowedOrigins:     opts.AllowedOrigins,
		rateLimiter:        opts.RateLimiter,
		cacheMiddleware:    opts.CacheMiddleware,
		metrics:            opts.Metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	authed := middleware.RequireSession(r.sessions)
	admin := middleware.RequireAdmin(r.adminToken)

	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// Contributor accounts
	r.mux.HandleFunc("POST /api/contributor/register", r.contributorHandler.Register)
	r.mux.HandleFunc("POST /api/contributor/login", r.contributorHandler.Login)
	r.mux.HandleFunc("POST /api/contributor/logout", r.contributorHandler.Logout)
	r.mux.Handle("GET /api/contributor/profile", authed(http.HandlerFunc(r.contributorHandler.Profile)))

	// Catalog
	r.mux.Handle("POST /api/resources", authed(http.HandlerFunc(r.resourceHandler.AddResource)))
	r.mux.Handle("PUT /api/resources/{id}", authed(http.HandlerFunc(r.resourceHandler.UpdateResource)))
	r.mux.Handle("DELETE /api/resources/{id}", authed(http.HandlerFunc(r.resourceHandler.DeleteResource)))
	r.mux.Handle("GET /api/resources/my", authed(http.HandlerFunc(r.resourceHandler.MyResources)))
	r.mux.HandleFunc("GET /api/resources/search", r.resourceHandler.SearchResources)
	r.mux.HandleFunc("GET /api/stats/overview", r.resourceHandler.StatsOverview)

	// Plan pipeline
	r.mux.HandleFunc("POST /api/ai/recommend", r.planHandler.Recommend)
	r.mux.HandleFunc("POST /api/ai/generate-plan", r.planHandler.GeneratePlan)

	// Operator endpoints
	r.mux.Handle("GET /api/admin/resources", admin(http.HandlerFunc(r.adminHandler.ListResources)))
	r.mux.Handle("PUT /api/admin/resources/{id}/priority", admin(http.HandlerFunc(r.adminHandler.UpdatePriority)))
	r.mux.Handle("PUT /api/admin/resources/{id}/status", admin(http.HandlerFunc(r.adminHandler.UpdateStatus)))

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS is outermost so rejections and cache hits still carry its headers.
	var handler http.Handler = r.mux
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics, r.mux)(handler)
	if r.rateLimiter != nil {
		handler = r.rateLimiter.Middleware(handler)
	}
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
