// Package renew реализует HTTP-обработчик продления подписки.
//
// Продление перезапускает подписку с текущего момента на срок выбранного плана.
package renew

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/movie-access/internal/http/middlewarectx"
	"github.com/magabrotheeeer/movie-access/internal/http/response"
	"github.com/magabrotheeeer/movie-access/internal/lib/sl"
	"github.com/magabrotheeeer/movie-access/internal/models"
)

// Request — план, на который продлевается подписка.
type Request struct {
	PlanType string `json:"plan_type" validate:"required,oneof=monthly yearly"`
}

// Service описывает продление подписки.
type Service interface {
	Renew(ctx context.Context, userUID string, plan models.PlanType) (*models.Subscription, error)
}

// Handler обрабатывает запросы продления.
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
// @Summary Продление подписки
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Тарифный план"
// @Success 200 {object} response.Response "Подписка продлена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не аутентифицирован"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /subscriptions/renew [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.renew"

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

	var req Request
	if !response.Decode(w, r, h.validate, &req) {
		log.Warn("invalid request body")
		return
	}

	sub, err := h.service.Renew(r.Context(), p.UserUID, models.PlanType(req.PlanType))
	if err != nil {
		log.Error("failed to renew subscription", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("subscription renewed", slog.String("user_uid", p.UserUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription": sub,
	}))
}
