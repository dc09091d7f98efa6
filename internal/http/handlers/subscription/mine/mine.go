// Package mine реализует HTTP-обработчик получения подписки текущего пользователя.
//
// Отсутствие подписки не считается ошибкой: клиент получает 200 с has_subscription=false.
package mine

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/movie-access/internal/apperr"
	"github.com/magabrotheeeer/movie-access/internal/http/middlewarectx"
	"github.com/magabrotheeeer/movie-access/internal/http/response"
	"github.com/magabrotheeeer/movie-access/internal/lib/sl"
	"github.com/magabrotheeeer/movie-access/internal/models"
)

// Service описывает чтение подписки.
type Service interface {
	Get(ctx context.Context, userUID string) (*models.SubscriptionView, error)
}

// Handler обрабатывает запросы подписки текущего пользователя.
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
// @Summary Моя подписка
// @Description Возвращает подписку текущего пользователя с признаком действительности и числом оставшихся дней.
// @Tags Subscriptions
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Подписка или признак её отсутствия"
// @Failure 401 {object} response.ErrorResponse "Пользователь не аутентифицирован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscriptions/my-subscription [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.mine"

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

	view, err := h.service.Get(r.Context(), p.UserUID)
	if apperr.IsNotFound(err) {
		render.JSON(w, r, response.OKWithData(map[string]any{
			"message":          "No active subscription",
			"has_subscription": false,
		}))
		return
	}
	if err != nil {
		log.Error("failed to get subscription", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription":     view,
		"has_subscription": true,
	}))
}
