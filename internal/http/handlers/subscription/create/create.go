// Package create реализует HTTP-обработчик создания подписки администратором.
//
// Администратор задаёт пользователя, план и явные даты начала и окончания.
package create

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/movie-access/internal/http/response"
	"github.com/magabrotheeeer/movie-access/internal/lib/sl"
	"github.com/magabrotheeeer/movie-access/internal/models"
	"github.com/magabrotheeeer/movie-access/internal/services/subscription"
)

// Request — данные новой подписки. Даты в формате RFC 3339.
type Request struct {
	UserID     string    `json:"user_id" validate:"required,uuid"`
	PlanType   string    `json:"plan_type" validate:"required,oneof=monthly yearly"`
	StartDate  time.Time `json:"start_date" validate:"required"`
	ExpiryDate time.Time `json:"expiry_date" validate:"required"`
	AutoRenew  bool      `json:"auto_renew"`
}

// Service описывает создание подписки.
type Service interface {
	Create(ctx context.Context, in subscription.CreateInput) (*models.Subscription, error)
}

// Handler обрабатывает запросы создания подписки.
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
// @Summary Создание подписки
// @Description Создаёт подписку для пользователя с явными датами. Только для администраторов.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Параметры подписки"
// @Success 201 {object} response.Response "Подписка создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Подписка уже существует"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if !response.Decode(w, r, h.validate, &req) {
		log.Warn("invalid request body")
		return
	}

	sub, err := h.service.Create(r.Context(), subscription.CreateInput{
		UserUID:    req.UserID,
		PlanType:   models.PlanType(req.PlanType),
		StartDate:  req.StartDate,
		ExpiryDate: req.ExpiryDate,
		AutoRenew:  req.AutoRenew,
	})
	if err != nil {
		log.Error("failed to create subscription", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("subscription created", slog.String("user_uid", sub.UserUID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subscription": sub,
	}))
}
