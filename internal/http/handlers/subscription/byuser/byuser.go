// Package byuser реализует HTTP-обработчик получения подписки пользователя администратором.
package byuser

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/movie-access/internal/http/response"
	"github.com/magabrotheeeer/movie-access/internal/lib/sl"
	"github.com/magabrotheeeer/movie-access/internal/models"
)

// Service описывает чтение подписки.
type Service interface {
	Get(ctx context.Context, userUID string) (*models.SubscriptionView, error)
}

// Handler обрабатывает запросы подписки по идентификатору пользователя.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подписка пользователя
// @Description Возвращает подписку указанного пользователя. Только для администраторов.
// @Tags Subscriptions
// @Produce  json
// @Security BearerAuth
// @Param userID path string true "UUID пользователя"
// @Success 200 {object} response.Response "Подписка"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Failure 422 {object} response.ErrorResponse "Некорректный идентификатор"
// @Router /subscriptions/user/{userID} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.byuser"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID := chi.URLParam(r, "userID")
	if err := h.validate.Var(userID, "required,uuid"); err != nil {
		log.Warn("invalid user id", slog.String("user_id", userID))
		response.WriteStatus(w, r, http.StatusUnprocessableEntity, "field userID can contain only uuid")
		return
	}

	view, err := h.service.Get(r.Context(), userID)
	if err != nil {
		log.Error("failed to get subscription", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription": view,
	}))
}
