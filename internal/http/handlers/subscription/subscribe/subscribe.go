// Package subscribe реализует HTTP-обработчик оформления подписки текущим пользователем.
package subscribe

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

// Request — выбранный тарифный план.
type Request struct {
	PlanType string `json:"plan_type" validate:"required,oneof=monthly yearly"`
}

// Service описывает оформление подписки.
type Service interface {
	Subscribe(ctx context.Context, userUID string, plan models.PlanType) (*models.Subscription, error)
}

// Handler обрабатывает запросы оформления подписки.
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
// @Summary Оформление подписки
// @Description Оформляет подписку текущего пользователя с текущего момента на срок плана.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Тарифный план"
// @Success 201 {object} response.Response "Подписка оформлена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не аутентифицирован"
// @Failure 409 {object} response.ErrorResponse "Подписка уже существует"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /subscriptions/subscribe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.subscribe"

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

	sub, err := h.service.Subscribe(r.Context(), p.UserUID, models.PlanType(req.PlanType))
	if err != nil {
		log.Error("failed to subscribe", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("user subscribed", slog.String("user_uid", p.UserUID), slog.String("plan_type", req.PlanType))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription": sub,
	}))
}
