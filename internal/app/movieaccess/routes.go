package movieaccess

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/movie-access/internal/http/cookie"
	"github.com/magabrotheeeer/movie-access/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/movie-access/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/movie-access/internal/http/handlers/auth/refresh"
	"github.com/magabrotheeeer/movie-access/internal/http/handlers/auth/register"
	contentaccess "github.com/magabrotheeeer/movie-access/internal/http/handlers/content/access"
	"github.com/magabrotheeeer/movie-access/internal/http/handlers/health"
	"github.com/magabrotheeeer/movie-access/internal/http/handlers/roles/adminonly"
	roleslist "github.com/magabrotheeeer/movie-access/internal/http/handlers/roles/list"
	"github.com/magabrotheeeer/movie-access/internal/http/handlers/subscription/byuser"
	"github.com/magabrotheeeer/movie-access/internal/http/handlers/subscription/cancel"
	"github.com/magabrotheeeer/movie-access/internal/http/handlers/subscription/create"
	"github.com/magabrotheeeer/movie-access/internal/http/handlers/subscription/mine"
	"github.com/magabrotheeeer/movie-access/internal/http/handlers/subscription/renew"
	"github.com/magabrotheeeer/movie-access/internal/http/handlers/subscription/subscribe"
	"github.com/magabrotheeeer/movie-access/internal/http/middlewarectx"
	"github.com/magabrotheeeer/movie-access/internal/metrics"
	"github.com/magabrotheeeer/movie-access/internal/models"

	// Документация Swagger.
	_ "github.com/magabrotheeeer/movie-access/docs"
)

// AuthService — операции аутентификации, нужные HTTP-слою.
type AuthService interface {
	register.Service
	login.Service
	refresh.Service
	logout.Service
}

// SubscriptionService — операции с подписками, нужные HTTP-слою.
type SubscriptionService interface {
	create.Service
	subscribe.Service
	mine.Service
	renew.Service
	cancel.Service
}

// Deps — зависимости маршрутов.
type Deps struct {
	Logger        *slog.Logger
	Auth          AuthService
	Subscriptions SubscriptionService
	Roles         roleslist.Service
	Tokens        middlewarectx.TokenVerifier
	ContentGuard  middlewarectx.Guard
	Metrics       *metrics.Metrics
	Health        health.Pinger
	Cookie        cookie.Options
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	logger := d.Logger

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.Metrics(d.Metrics),
	)

	requireAdmin := middlewarectx.RequireRoles(logger, models.RoleAdmin)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, d.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, d.Auth, d.Cookie).ServeHTTP)
		r.Get("/auth/refresh", refresh.New(logger, d.Auth, d.Cookie).ServeHTTP)
		r.Get("/roles", roleslist.New(logger, d.Roles).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(d.Tokens, logger))

			r.Post("/auth/logout", logout.New(logger, d.Auth, d.Cookie).ServeHTTP)

			r.With(requireAdmin).Get("/roles/admin-only", adminonly.New(logger).ServeHTTP)

			r.Route("/subscriptions", func(r chi.Router) {
				r.With(requireAdmin).Post("/", create.New(logger, d.Subscriptions).ServeHTTP)
				r.Post("/subscribe", subscribe.New(logger, d.Subscriptions).ServeHTTP)
				r.Get("/my-subscription", mine.New(logger, d.Subscriptions).ServeHTTP)
				r.Patch("/renew", renew.New(logger, d.Subscriptions).ServeHTTP)
				r.Delete("/cancel", cancel.New(logger, d.Subscriptions).ServeHTTP)
				r.With(requireAdmin).Get("/user/{userID}", byuser.New(logger, d.Subscriptions).ServeHTTP)
			})

			r.With(middlewarectx.RequireSubscription(logger, d.ContentGuard)).
				Get("/content/access", contentaccess.New(logger).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, d.Health).ServeHTTP)
	r.Handle("/metrics", d.Metrics.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
