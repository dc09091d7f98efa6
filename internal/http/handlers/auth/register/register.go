// Package register реализует HTTP-обработчик регистрации пользователей.
//
// Обработчик декодирует и валидирует JSON, передаёт данные в сервис аутентификации
// и возвращает пару токенов вместе с публичным представлением пользователя.
package register

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/movie-access/internal/http/response"
	"github.com/magabrotheeeer/movie-access/internal/lib/sl"
	"github.com/magabrotheeeer/movie-access/internal/services/auth"
)

// Request — входные данные регистрации.
//
// Role необязательна, по умолчанию назначается free.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=admin premium free"`
}

// Service описывает регистрацию в сервисе аутентификации.
type Service interface {
	Register(ctx context.Context, in auth.RegisterInput) (*auth.AuthResult, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
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
// @Summary Регистрация пользователя
// @Description Создаёт пользователя и возвращает access- и refresh-токены.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные пользователя"
// @Success 201 {object} response.Response "Пользователь создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Email уже занят или роль не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if !response.Decode(w, r, h.validate, &req) {
		log.Warn("invalid request body")
		return
	}

	res, err := h.service.Register(r.Context(), auth.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		log.Error("registration failed", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("user registered", slog.String("user_uid", res.User.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"access_token":  res.Tokens.AccessToken,
		"refresh_token": res.Tokens.RefreshToken,
		"user":          res.User,
	}))
}
