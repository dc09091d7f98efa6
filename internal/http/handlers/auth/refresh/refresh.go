// Package refresh реализует HTTP-обработчик ротации refresh-токена.
package refresh

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/movie-access/internal/http/cookie"
	"github.com/magabrotheeeer/movie-access/internal/http/response"
	"github.com/magabrotheeeer/movie-access/internal/lib/sl"
	"github.com/magabrotheeeer/movie-access/internal/models"
)

// Service описывает обмен refresh-токена на новую пару.
type Service interface {
	RefreshFromToken(ctx context.Context, refreshToken string) (models.TokenPair, error)
}

// Handler обрабатывает запросы обновления токенов.
type Handler struct {
	log     *slog.Logger
	service Service
	cookie  cookie.Options
}

// New создаёт Handler.
func New(log *slog.Logger, service Service, opts cookie.Options) *Handler {
	return &Handler{
		log:     log,
		service: service,
		cookie:  opts,
	}
}

// ServeHTTP godoc
// @Summary Обновление токенов
// @Description Принимает refresh-токен из cookie, выдаёт новую пару. Старый refresh-токен перестаёт действовать.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Новый access-токен"
// @Failure 401 {object} response.ErrorResponse "Refresh-токен отсутствует или недействителен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/refresh [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.refresh"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token, ok := cookie.RefreshToken(r)
	if !ok {
		log.Warn("refresh token cookie missing")
		response.WriteStatus(w, r, http.StatusUnauthorized, "refresh token not found")
		return
	}

	pair, err := h.service.RefreshFromToken(r.Context(), token)
	if err != nil {
		log.Warn("refresh failed", sl.Err(err))
		cookie.ClearRefreshToken(w, h.cookie)
		response.WriteError(w, r, err)
		return
	}

	cookie.SetRefreshToken(w, pair.RefreshToken, h.cookie)
	log.Info("tokens refreshed")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"access_token": pair.AccessToken,
	}))
}
