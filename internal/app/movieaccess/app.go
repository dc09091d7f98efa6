// Package movieaccess собирает сервис доступа к фильмам: хранилище, кэш, события,
// HTTP API и gRPC-сервер AccessService.
package movieaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/magabrotheeeer/movie-access/internal/cache"
	"github.com/magabrotheeeer/movie-access/internal/config"
	"github.com/magabrotheeeer/movie-access/internal/events"
	accesspb "github.com/magabrotheeeer/movie-access/internal/grpc/gen"
	grpcserver "github.com/magabrotheeeer/movie-access/internal/grpc/server"
	"github.com/magabrotheeeer/movie-access/internal/http/cookie"
	"github.com/magabrotheeeer/movie-access/internal/lib/jwt"
	"github.com/magabrotheeeer/movie-access/internal/lib/password"
	"github.com/magabrotheeeer/movie-access/internal/lib/sl"
	"github.com/magabrotheeeer/movie-access/internal/metrics"
	"github.com/magabrotheeeer/movie-access/internal/migrations"
	"github.com/magabrotheeeer/movie-access/internal/models"
	"github.com/magabrotheeeer/movie-access/internal/rabbitmq"
	"github.com/magabrotheeeer/movie-access/internal/services/access"
	authservice "github.com/magabrotheeeer/movie-access/internal/services/auth"
	subservice "github.com/magabrotheeeer/movie-access/internal/services/subscription"
	"github.com/magabrotheeeer/movie-access/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App — HTTP и gRPC серверы вместе с ресурсами, которые нужно закрыть при остановке.
type App struct {
	httpServer   *http.Server
	grpcServer   *grpc.Server
	grpcListener net.Listener
	logger       *slog.Logger
	db           *repository.Storage
	cache        *cache.Cache
	amqpConn     *amqp.Connection
	amqpChannel  *amqp.Channel
}

// New подключает зависимости, применяет миграции, заполняет роли и администратора
// по умолчанию и готовит серверы к запуску.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, err error) {
	const op = "app.movieaccess.New"

	app := &App{logger: logger}
	defer func() {
		if err != nil {
			app.close()
		}
	}()

	app.db, err = repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(app.db.DB, cfg.MigrationsPath); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = repository.CheckDatabaseReady(ctx, app.db); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = app.db.SeedRoles(ctx, models.AllRoles()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app.cache, err = cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	publisher, err := app.setupEvents(cfg.RabbitMQ)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m := metrics.New()
	tokens := jwt.NewJWTMaker(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	hasher := password.New(cfg.Password.BcryptCost)

	authService := authservice.NewAuthService(app.db, hasher, tokens, publisher, m, logger)
	created, err := authService.SeedDefaultAdmin(ctx, authservice.AdminSeed{
		Email:    cfg.DefaultAdmin.Email,
		Username: cfg.DefaultAdmin.Username,
		Password: cfg.DefaultAdmin.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if created {
		logger.Info("default admin seeded", slog.String("email", cfg.DefaultAdmin.Email))
	}

	subscriptionService := subservice.NewSubscriptionService(app.db, app.cache, publisher, logger,
		subservice.WithCacheTTL(cfg.RedisConnection.CacheTTL))
	contentGuard := access.NewPipeline(m, access.NewSubscriptionGuard(app.db, nil))

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Logger:        logger,
		Auth:          authService,
		Subscriptions: subscriptionService,
		Roles:         app.db,
		Tokens:        tokens,
		ContentGuard:  contentGuard,
		Metrics:       m,
		Health:        app.db,
		Cookie:        cookie.Options{Secure: cfg.Cookie.Secure, MaxAge: cfg.JWT.RefreshTTL},
	})

	app.httpServer = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	app.grpcServer = grpc.NewServer()
	accesspb.RegisterAccessServiceServer(app.grpcServer, grpcserver.NewAccessServer(tokens, contentGuard, logger))

	// Порт gRPC занимается последним шагом.
	app.grpcListener, err = net.Listen("tcp", cfg.AddressGRPC)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return app, nil
}

// setupEvents подключает RabbitMQ, если он включён в конфигурации.
func (a *App) setupEvents(cfg config.RabbitMQ) (events.Publisher, error) {
	if !cfg.Enabled {
		a.logger.Info("event publishing disabled")
		return events.Noop{}, nil
	}

	conn, err := rabbitmq.Connect(cfg.URL, 5, 2*time.Second)
	if err != nil {
		return nil, err
	}
	a.amqpConn = conn

	ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange)
	if err != nil {
		return nil, err
	}
	a.amqpChannel = ch

	a.logger.Info("event publishing enabled", slog.String("exchange", cfg.Exchange))
	return events.NewAMQPPublisher(ch, cfg.Exchange), nil
}

// Run запускает HTTP и gRPC серверы и останавливает их при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("HTTP server starting on", slog.String("address", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		a.logger.Info("gRPC server listening on", slog.String("address", a.grpcListener.Addr().String()))
		return a.grpcServer.Serve(a.grpcListener)
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down servers gracefully")

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		a.grpcServer.GracefulStop()
		return a.httpServer.Shutdown(timeoutCtx)
	})

	return g.Wait()
}

func (a *App) close() {
	if a.amqpChannel != nil {
		if err := a.amqpChannel.Close(); err != nil {
			a.logger.Warn("failed to close amqp channel", sl.Err(err))
		}
	}
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Warn("failed to close amqp connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close redis", sl.Err(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close storage", sl.Err(err))
		}
	}
}
