package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/pawcare/auth-service/docs"
	"github.com/pawcare/auth-service/internal/api/handler"
	"github.com/pawcare/auth-service/internal/api/middleware"
	"github.com/pawcare/auth-service/internal/core/domain"
	"github.com/pawcare/auth-service/internal/core/ports"
)

// Deps is everything the router needs from main.
type Deps struct {
	Auth     ports.AuthService
	Verifier ports.AccessVerifier
	Limiter  ports.RateLimiter // nil disables rate limiting

	Mongo *mongo.Database
	Redis *redis.Client // nil reports redis as disabled on readiness

	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// default registry, which also holds the service's own metrics.
	Registry *prometheus.Registry

	Log           zerolog.Logger
	Development   bool
	SecureCookies bool
	// TrustProxy reads the client IP from X-Forwarded-For, accepting hops
	// only from loopback, link-local and private addresses. Off means the
	// socket peer.
	TrustProxy bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.Development)
	e.Validator = handler.NewValidator()
	e.IPExtractor = echo.ExtractIPDirect()
	if d.TrustProxy {
		e.IPExtractor = echo.ExtractIPFromXFFHeader()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "auth",
		Registerer: registerer,
	}))
	e.Use(middleware.Gate(middleware.DefaultPolicy(), d.Verifier))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, d.SecureCookies)
	adminHandler := handler.NewAdminHandler(d.Auth)
	healthHandler := handler.NewHealthHandler(d.Mongo, d.Redis)

	limited := []echo.MiddlewareFunc{}
	if d.Limiter != nil {
		limited = append(limited, middleware.RateLimit(d.Limiter, d.Log))
	}

	// --- Public ---
	e.GET("/", healthHandler.Root)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	api.GET("/health", healthHandler.Liveness)
	api.GET("/health/ready", healthHandler.Readiness)

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register, limited...)
	auth.POST("/login", authHandler.Login, limited...)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me)
	auth.POST("/logout-all", authHandler.LogoutAll)
	auth.PUT("/password", authHandler.ChangePassword)

	// --- Admin routes (gate enforces /api/admin, RequireRoles guards the handler itself) ---
	admin := api.Group("/admin", middleware.RequireRoles(domain.RoleAdmin))
	admin.PATCH("/users/:id/status", adminHandler.SetStatus)

	return e
}
