// Package health реализует HTTP-обработчик проверки состояния сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/movie-access/internal/http/response"
	"github.com/magabrotheeeer/movie-access/internal/lib/sl"
)

// Pinger проверяет доступность зависимости.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler отвечает на проверки живости.
type Handler struct {
	log     *slog.Logger
	storage Pinger
	timeout time.Duration
}

// New создаёт Handler. storage может быть nil.
func New(log *slog.Logger, storage Pinger) *Handler {
	return &Handler{
		log:     log,
		storage: storage,
		timeout: 2 * time.Second,
	}
}

// ServeHTTP godoc
// @Summary Проверка состояния
// @Tags Health
// @Produce  json
// @Success 200 {object} response.Response "Сервис доступен"
// @Failure 503 {object} response.ErrorResponse "База данных недоступна"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	if h.storage != nil {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()
		if err := h.storage.Ping(ctx); err != nil {
			h.log.Error("storage is unavailable", slog.String("op", op), sl.Err(err))
			response.WriteStatus(w, r, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
	}))
}
