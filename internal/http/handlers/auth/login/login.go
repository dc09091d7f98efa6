// Package login реализует HTTP-обработчик входа пользователей.
//
// При успешной аутентификации refresh-токен кладётся в HTTP-only cookie,
// а в теле ответа возвращаются access-токен и публичные данные пользователя.
package login

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/movie-access/internal/http/cookie"
	"github.com/magabrotheeeer/movie-access/internal/http/response"
	"github.com/magabrotheeeer/movie-access/internal/lib/sl"
	"github.com/magabrotheeeer/movie-access/internal/services/auth"
)

// Request — учётные данные пользователя.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Service описывает вход в сервисе аутентификации.
type Service interface {
	Login(ctx context.Context, email, password string) (*auth.AuthResult, error)
}

// Handler обрабатывает HTTP-запросы входа.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис аутентификации
	validate *validator.Validate // Валидатор входных данных
	cookie   cookie.Options      // Параметры cookie с refresh-токеном
}

// New создаёт Handler.
func New(log *slog.Logger, service Service, opts cookie.Options) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
		cookie:   opts,
	}
}

// ServeHTTP godoc
// @Summary Авторизация пользователя
// @Description Аутентифицирует пользователя по email и паролю. Refresh-токен выдаётся в cookie.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} response.Response "Успешная авторизация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if !response.Decode(w, r, h.validate, &req) {
		log.Warn("invalid request body")
		return
	}

	res, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Warn("login failed", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	cookie.SetRefreshToken(w, res.Tokens.RefreshToken, h.cookie)
	log.Info("login success", slog.String("user_uid", res.User.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"access_token": res.Tokens.AccessToken,
		"user":         res.User,
	}))
}
