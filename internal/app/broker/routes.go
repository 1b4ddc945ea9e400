// Package broker собирает HTTP-приложение административного бэкенда.
package broker

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация спецификации Swagger.
	_ "github.com/magabrotheeeer/insurtech-admin/docs"
	"github.com/magabrotheeeer/insurtech-admin/internal/http/handlers/auth/activate"
	"github.com/magabrotheeeer/insurtech-admin/internal/http/handlers/auth/licensestatus"
	"github.com/magabrotheeeer/insurtech-admin/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/insurtech-admin/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/insurtech-admin/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/insurtech-admin/internal/http/handlers/configuration"
	"github.com/magabrotheeeer/insurtech-admin/internal/http/handlers/health"
	"github.com/magabrotheeeer/insurtech-admin/internal/http/handlers/protected"
	"github.com/magabrotheeeer/insurtech-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/insurtech-admin/internal/metrics"
)

// AuthService то, что HTTP-слой использует из сервиса аутентификации.
type AuthService interface {
	register.Service
	login.Service
	activate.Service
	middlewarectx.Authenticator
	middlewarectx.LicenseChecker
}

// RouterDeps зависимости маршрутизатора.
type RouterDeps struct {
	Logger         *slog.Logger
	Auth           AuthService
	Configuration  configuration.Service
	Metrics        *metrics.Metrics
	HealthChecks   map[string]health.Pinger
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter регистрирует все маршруты приложения.
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		d.Metrics.Middleware,
	)

	log := d.Logger
	activeUser := middlewarectx.ActiveUserGate(d.Auth, log, d.Metrics)
	licensed := middlewarectx.LicenseGate(d.Auth, log, d.Metrics)
	cfgHandler := configuration.New(log, d.Configuration)

	// Открытые маршруты
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(log, d.RateLimitRPS, d.RateLimitBurst))
		r.Post("/auth/register", register.New(log, d.Auth).ServeHTTP)
		r.Post("/auth/token", login.New(log, d.Auth).ServeHTTP)
	})

	r.Group(func(r chi.Router) {
		r.Use(activeUser)
		r.Get("/auth/users/me", me.New(log).ServeHTTP)
		r.Get("/auth/license-status", licensestatus.New(log, d.Auth).ServeHTTP)
		r.Post("/auth/license/activate", activate.New(log, d.Auth).ServeHTTP)
	})

	// Требуется действующая лицензия
	r.Group(func(r chi.Router) {
		r.Use(activeUser, licensed)
		r.Get("/protected-route", protected.ServeHTTP)
		r.Get("/configuracion", cfgHandler.Get)
		r.Put("/configuracion", cfgHandler.Update)
		r.Delete("/configuracion", cfgHandler.Delete)
	})

	r.Get("/health", health.New(log, d.HealthChecks).ServeHTTP)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler())
	}
	r.Get("/docs/*", httpSwagger.WrapHandler)
	return r
}
