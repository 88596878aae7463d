// Package sssoecho exposes the identity provider over HTTP with echo.
package sssoecho

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ssso "github.com/delbertbeta/s-sso"
	"github.com/delbertbeta/s-sso/log"
)

// HealthChecker reports whether a backing service is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Services are the domain services the API dispatches to.
type Services struct {
	Keys         *ssso.KeyExchange
	Logins       *ssso.LoginService
	Users        *ssso.UserService
	Applications *ssso.ApplicationService
	Authorize    *ssso.AuthorizeService
	Tokens       *ssso.TokenService
	UserInfo     *ssso.UserInfoService
	JWKS         *ssso.JWKSService
}

// Options configures the HTTP surface.
type Options struct {
	// FrontendURL is the public base URL. It is the OIDC issuer and decides
	// whether the session cookie is Secure.
	FrontendURL string
	CookieName  string
	Health      HealthChecker
	Gatherer    prometheus.Gatherer
}

// API holds the handlers of every route.
type API struct {
	svc       Services
	discovery *ssso.OpenIDConfiguration
	cookie    cookieConfig
	health    HealthChecker
	gatherer  prometheus.Gatherer
	logger    log.Logger
}

// NewAPI creates the API.
func NewAPI(svc Services, opts Options, logger log.Logger) *API {
	secure := false
	if u, err := url.Parse(opts.FrontendURL); err == nil {
		secure = u.Scheme == "https"
	}

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	return &API{
		svc:       svc,
		discovery: ssso.NewOpenIDConfiguration(opts.FrontendURL),
		cookie: cookieConfig{
			name:   opts.CookieName,
			secure: secure,
			maxAge: svc.Logins.SessionTTL(),
		},
		health:   opts.Health,
		gatherer: gatherer,
		logger:   logger,
	}
}

// RegisterRoutes registers every route on e.
func (a *API) RegisterRoutes(e *echo.Echo) {
	e.Use(SecurityHeadersMiddleware())

	api := e.Group("/api")
	api.POST("/crypto/rsa", a.KeyExchangeHandler)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", a.RegisterHandler)
	authGroup.POST("/login", a.LoginHandler)
	authGroup.POST("/logout", a.LogoutHandler)

	user := api.Group("/user", a.RequireLogin)
	user.GET("", a.GetProfileHandler)
	user.PATCH("", a.UpdateProfileHandler)

	apps := api.Group("/application", a.RequireLogin)
	apps.GET("", a.ListApplicationsHandler)
	apps.POST("", a.CreateApplicationHandler)
	apps.GET("/:id", a.GetApplicationHandler)
	apps.PATCH("/:id", a.UpdateApplicationHandler)
	apps.DELETE("/:id", a.DeleteApplicationHandler)
	apps.GET("/:id/secret", a.ListSecretsHandler)
	apps.POST("/:id/secret", a.CreateSecretHandler)
	apps.DELETE("/:id/secret/:secretId", a.DeleteSecretHandler)

	oidc := api.Group("/oidc")
	oidc.GET("/authorize", a.AuthorizeHandler)
	oidc.POST("/token", a.TokenHandler)
	oidc.GET("/userinfo", a.UserInfoHandler)

	e.GET("/.well-known/jwks.json", a.JWKSHandler)
	e.GET("/.well-known/openid-configuration", a.OpenIDConfigurationHandler)

	rpc := e.Group("/internal/rpc")
	rpc.POST("/user-id-by-cookie", a.UserIDByCookieHandler)
	rpc.POST("/users", a.UsersHandler)

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{})))
	e.GET("/healthz", a.HealthHandler)
}

// HealthHandler pings the store.
func (a *API) HealthHandler(c echo.Context) error {
	if a.health != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := a.health.Ping(ctx); err != nil {
			a.logger.Warn(ctx, "health check failed", log.Fields{"error": err.Error()})
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
