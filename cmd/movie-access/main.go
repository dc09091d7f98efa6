// Package main Movie Access API
//
// @title           Movie Access API
// @version         1.0
// @description     Сервис аутентификации, ролей и доступа к фильмам по подписке

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/movie-access/internal/app/movieaccess"
	"github.com/magabrotheeeer/movie-access/internal/config"
	"github.com/magabrotheeeer/movie-access/internal/lib/logger"
	"github.com/magabrotheeeer/movie-access/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Setup(cfg.Env)

	log.Info("starting movie-access", slog.String("env", cfg.Env), slog.String("version", cfg.Version))
	log.Debug("config loaded", slog.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := movieaccess.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	log.Info("movie-access stopped gracefully")
}
