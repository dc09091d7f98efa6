// Package cancel реализует HTTP-обработчик отмены подписки.
package cancel

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/movie-access/internal/http/middlewarectx"
	"github.com/magabrotheeeer/movie-access/internal/http/response"
	"github.com/magabrotheeeer/movie-access/internal/lib/sl"
)

// Service описывает отмену подписки.
type Service interface {
	Cancel(ctx context.Context, userUID string) error
}

// Handler обрабатывает запросы отмены.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отмена подписки
// @Description Деактивирует подписку и выключает автопродление.
// @Tags Subscriptions
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Подписка отменена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не аутентифицирован"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Router /subscriptions/cancel [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.cancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	p, ok := middlewarectx.PrincipalFrom(r.Context())
	if !ok {
		log.Error("principal missing in context")
		response.WriteStatus(w, r, http.StatusUnauthorized, "user not authenticated")
		return
	}

	if err := h.service.Cancel(r.Context(), p.UserUID); err != nil {
		log.Error("failed to cancel subscription", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("subscription cancelled", slog.String("user_uid", p.UserUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "subscription cancelled",
	}))
}
