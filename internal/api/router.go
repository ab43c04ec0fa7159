package api

import (
	echoprometheus "github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/bisafix/marketplace-api/docs"
	"github.com/bisafix/marketplace-api/internal/api/handler"
	"github.com/bisafix/marketplace-api/internal/api/middleware"
	"github.com/bisafix/marketplace-api/internal/core/domain"
	"github.com/bisafix/marketplace-api/internal/core/ports"
)

const (
	// BodyLimit caps every request body except identity submissions.
	BodyLimit = "10M"
	// IdentityBodyLimit fits two images at handler.MaxImageSize sent as
	// base64 data URIs (4/3 expansion) plus multipart framing.
	IdentityBodyLimit = "16M"

	identityPath = "/api/v1/artisans/identity"
)

// Dependencies is everything the router needs to serve requests.
type Dependencies struct {
	Auth     ports.AuthService
	Users    ports.UserService
	Artisans ports.ArtisanService
	Media    ports.MediaService
	Sessions ports.SessionProvider
	// Sweeper discards identity uploads whose profile update failed; may be nil.
	Sweeper handler.OrphanSweeper

	// RateLimiter is applied to /api/v1; nil disables rate limiting.
	RateLimiter echomiddleware.RateLimiterStore
	// Checks are pinged by GET /health/ready.
	Checks map[string]handler.Checker

	Log         zerolog.Logger
	ClientURL   string
	Cookie      handler.CookieConfig
	MediaFolder string
	// Metrics registers the HTTP collectors and GET /metrics. The collectors
	// live in the default registry, so it can be enabled once per process.
	Metrics bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{deps.ClientURL},
		AllowCredentials: true,
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization,
		},
		ExposeHeaders: []string{handler.SessionTokenHeader, echo.HeaderXRequestID},
	}))
	e.Use(echomiddleware.Gzip())
	e.Use(echomiddleware.BodyLimitWithConfig(echomiddleware.BodyLimitConfig{
		Limit: BodyLimit,
		Skipper: func(c echo.Context) bool {
			return c.Path() == identityPath
		},
	}))

	if deps.Metrics {
		e.Use(echoprometheus.NewMiddleware("bisafix"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Cookie)
	userHandler := handler.NewUserHandler(deps.Users)
	artisanHandler := handler.NewArtisanHandler(deps.Artisans, deps.Media, deps.Sweeper, deps.MediaFolder)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Checks)

	requireSession := middleware.RequireSession(deps.Sessions, deps.Cookie.Name)
	attachUser := middleware.AttachUser(deps.Users)

	v1 := e.Group("/api/v1")
	if deps.RateLimiter != nil {
		v1.Use(middleware.RateLimit(deps.RateLimiter))
	}

	// --- Health probes (no auth required) ---
	v1.GET("/health", healthHandler.Liveness)            // liveness
	v1.GET("/health/ready", readinessHandler.Readiness) // readiness

	// --- Docs ---
	v1.GET("/docs/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	auth := v1.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, requireSession)

	// --- User routes ---
	users := v1.Group("/users", requireSession)
	users.GET("/me", userHandler.Me)
	users.PUT("/me", userHandler.UpdateMe)
	users.GET("/:id", userHandler.GetByID)

	// --- Artisan routes ---
	artisans := v1.Group("/artisans", requireSession, attachUser, middleware.RequireRole(domain.RoleArtisan))
	artisans.POST("/skills", artisanHandler.UpdateSkills)
	artisans.POST("/identity", artisanHandler.SubmitIdentity, echomiddleware.BodyLimit(IdentityBodyLimit))

	return e
}

// requestLogger writes one structured entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
