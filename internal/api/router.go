package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/ambassador-program/engagement-ledger/docs"
	"github.com/ambassador-program/engagement-ledger/internal/api/handler"
	"github.com/ambassador-program/engagement-ledger/internal/api/middleware"
	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
	"github.com/ambassador-program/engagement-ledger/internal/core/ports"
)

// Dependencies are the collaborators the HTTP surface is built from.
type Dependencies struct {
	Ledger    ports.LedgerService
	Tokens    ports.AuthService
	JWTSecret string

	// Backend names the record store reported by the readiness probe.
	Backend string
	Store   handler.Pinger

	RatePerSecond float64
	RateBurst     int

	// Registry receives the HTTP metrics and backs /metrics. Nil selects the
	// default registry, where the ledger metrics live.
	Registry *prometheus.Registry

	Log zerolog.Logger
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
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "ledger",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Ledger, deps.Tokens)
	meHandler := handler.NewMeHandler(deps.Ledger, deps.Tokens)
	postHandler := handler.NewPostHandler(deps.Ledger)
	boardHandler := handler.NewLeaderboardHandler(deps.Ledger)

	auth := middleware.Auth(deps.JWTSecret)
	limit := middleware.RateLimit(deps.RatePerSecond, deps.RateBurst)

	v1 := e.Group("/v1")

	// --- Auth routes ---
	v1.POST("/auth/signup", authHandler.Signup, limit)
	v1.POST("/auth/login", authHandler.Login, limit)
	v1.POST("/auth/logout", authHandler.Logout, auth)
	v1.GET("/auth/session", authHandler.Session, auth)

	// --- Member routes ---
	me := v1.Group("/me", auth)
	me.GET("", meHandler.Get)
	me.PATCH("", meHandler.Rename)
	me.PUT("/wallet", meHandler.AttachWallet)
	me.GET("/standing", meHandler.Standing, middleware.RBAC(domain.RoleAmbassador))

	posts := v1.Group("/posts", auth)
	posts.GET("", postHandler.List)
	posts.POST("", postHandler.Create, limit)
	posts.POST("/:id/vote", postHandler.Vote, limit)
	posts.DELETE("/:id/vote", postHandler.Unvote)
	posts.GET("/:id/comments", postHandler.ListComments)
	posts.POST("/:id/comments", postHandler.AddComment, limit)

	// --- Public ranking ---
	v1.GET("/leaderboard", boardHandler.Rank)
	v1.GET("/ambassadors/:id", boardHandler.Ambassador)

	v1.GET("/admin/scores/verify", boardHandler.VerifyScores, auth, middleware.RBAC(domain.RoleAmbassador))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Backend, deps.Store)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – is the record store up?

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
