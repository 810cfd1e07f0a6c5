package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/geocoder89/homage/internal/auth"
	"github.com/geocoder89/homage/internal/config"
	"github.com/geocoder89/homage/internal/domain/resource"
	"github.com/geocoder89/homage/internal/http/handlers"
	"github.com/geocoder89/homage/internal/http/middlewares"
	"github.com/geocoder89/homage/internal/observability"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Dependencies is everything the router needs from storage and the process.
// Optional fields may be left nil.
type Dependencies struct {
	Users  auth.UserFinder
	Tokens auth.TokenRepository
	Roles  handlers.ResourceStore
	Teams  handlers.ResourceStore

	// RateCounter backs the throttles, in-memory when nil
	RateCounter middlewares.Counter
	// Ping backs /readyz
	Ping func(ctx context.Context) error

	Prom    *observability.Prom
	Metrics http.Handler
}

func NewRouter(log *slog.Logger, cfg config.Config, deps Dependencies) *gin.Engine {
	if cfg.Env != "dev" && cfg.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		observability.ReportPanic(c.Request.Context(), recovered, "route", c.FullPath())
		handlers.RespondError(c, http.StatusInternalServerError, http.StatusInternalServerError, "Internal server error", nil)
	}))
	r.Use(otelgin.Middleware(cfg.ServiceName, otelgin.WithFilter(func(req *http.Request) bool {
		return observability.TraceRequest(req.URL.Path)
	})))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))

	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(middlewares.RequireJSON())

	// health
	h := handlers.NewHealthHandler(deps.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	// docs
	r.GET("/docs", handlers.SwaggerUI)
	r.GET("/docs/openapi.yaml", handlers.OpenAPISpec)

	// wire up auth
	tokenStore := auth.NewTokenStore(deps.Tokens, deps.Users, cfg.TokenHashKey)
	authHandler := handlers.NewAuthHandler(auth.NewVerifier(deps.Users), tokenStore, deps.Prom)
	authMiddleware := middlewares.NewAuthMiddleware(tokenStore, deps.Prom)

	loginLimiter := middlewares.NewRateLimiter("login", cfg.LoginRateLimit, cfg.RateLimitWindow, deps.RateCounter, deps.Prom)
	apiLimiter := middlewares.NewRateLimiter("api", cfg.APIRateLimit, cfg.RateLimitWindow, deps.RateCounter, deps.Prom)

	r.POST("/auth/login", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)

	protected := r.Group("/")
	protected.Use(authMiddleware.RequireAuth())
	protected.Use(apiLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/auth/user", authHandler.User)

	mountResources(protected, "/roles", handlers.NewResourcesHandler(resource.Role, deps.Roles))
	mountResources(protected, "/teams", handlers.NewResourcesHandler(resource.Team, deps.Teams))

	log.Debug("routes registered", "routes", len(r.Routes()))

	return r
}

func mountResources(g *gin.RouterGroup, path string, h *handlers.ResourcesHandler) {
	g.GET(path, h.List)
	g.POST(path, h.Create)
	g.GET(path+"/:id", h.Show)
	g.PUT(path+"/:id", h.Update)
	g.DELETE(path+"/:id", h.Delete)
}
