package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/securehello/securehello/internal/auth"
	"github.com/securehello/securehello/internal/config"
	"github.com/securehello/securehello/internal/health"
	"github.com/securehello/securehello/internal/middleware"
	"github.com/securehello/securehello/internal/observability"
	"github.com/securehello/securehello/internal/policy"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Config   *config.Config
	Policy   policy.Policy
	Engine   *policy.Engine
	Verifier auth.TokenVerifier
	Dir      Directory
	Checker  *health.Checker
	Logger   observability.Logger
}

// NewRouter builds the gin engine with the full middleware chain and
// route surface. Identity resolution runs before policy enforcement so
// the engine sees the caller's authorities; enforcement runs before any
// handler so handlers never see requests the policy rejected.
func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = observability.NopLogger()
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logging(logger))
	router.Use(middleware.CORS(deps.Policy.RestrictCORS(deps.Config.CORS)))
	if deps.Policy.StrictTransportSecurity {
		router.Use(middleware.StrictTransportSecurity())
	}
	router.Use(auth.Middleware(deps.Verifier, logger))
	router.Use(policy.Enforce(deps.Engine, logger))

	handlers := NewHandlers(deps.Config, deps.Policy, deps.Dir, logger)

	router.GET("/actuator/health", deps.Checker.Handler())

	gatherers := prometheus.Gatherers{
		prometheus.DefaultGatherer,
		deps.Engine.Metrics().Registry(),
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})))

	router.GET("/login", handlers.LoginRedirect)
	router.GET("/oauth2/authorization/keycloak", handlers.LoginRedirect)

	authGroup := router.Group("/auth")
	{
		authGroup.GET("/login-options", handlers.LoginOptionsHandler)
		authGroup.GET("/logout", handlers.Logout)
	}

	api := router.Group("/api")
	{
		api.GET("/public/hello", handlers.PublicHello)
		api.GET("/hello", handlers.Hello)
		api.GET("/user-info", handlers.CurrentUserInfo)

		admin := api.Group("/admin")
		{
			admin.GET("/dashboard", handlers.AdminDashboard)
			admin.GET("/users", handlers.ListUsers)
			admin.POST("/users", handlers.CreateUser)
			admin.DELETE("/users/:username", handlers.DeleteUser)
		}
	}

	return router
}
