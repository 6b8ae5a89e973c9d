package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/dannykhan02/Lenny-media-backend/internal/api/handler"
	"github.com/dannykhan02/Lenny-media-backend/internal/api/middleware"
	"github.com/dannykhan02/Lenny-media-backend/internal/api/session"
	"github.com/dannykhan02/Lenny-media-backend/internal/core/domain"
	"github.com/dannykhan02/Lenny-media-backend/internal/core/ports"
)

const maxBodySize = "1M"

// Deps are the collaborators the HTTP surface is built from. Revocations may
// be nil; health checks run on GET /health/ready.
type Deps struct {
	AuthService  ports.AuthService
	Tokens       ports.TokenVerifier
	Revocations  ports.RevocationStore
	Transport    *session.Transport
	HealthChecks map[string]handler.Check
	Logger       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(middleware.Metrics())
	e.Use(echomiddleware.BodyLimit(maxBodySize))

	authenticate := middleware.Authenticate(deps.Tokens, deps.Transport, deps.Revocations, deps.Logger)
	optionalAuth := middleware.OptionalAuth(deps.Tokens, deps.Transport, deps.Revocations, deps.Logger)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	authHandler := handler.NewAuthHandler(deps.AuthService, deps.Transport)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, optionalAuth)
	auth.POST("/register", authHandler.Register)
	auth.GET("/check-admin", authHandler.CheckAdminExists)
	auth.POST("/register-first-admin", authHandler.RegisterFirstAdmin)

	auth.GET("/profile", authHandler.GetProfile, authenticate)
	auth.PUT("/profile", authHandler.UpdateProfile, authenticate)
	auth.GET("/me", authHandler.Me, authenticate)

	// --- Admin routes ---
	auth.GET("/users", authHandler.ListUsers, authenticate, adminOnly)
	auth.PATCH("/users/:id/status", authHandler.SetUserStatus, authenticate, adminOnly)
	auth.GET("/audit", authHandler.ListAuditEvents, authenticate, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler(deps.HealthChecks)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
