// Package logout реализует HTTP-обработчик выхода пользователя.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/movie-access/internal/http/cookie"
	"github.com/magabrotheeeer/movie-access/internal/http/middlewarectx"
	"github.com/magabrotheeeer/movie-access/internal/http/response"
	"github.com/magabrotheeeer/movie-access/internal/lib/sl"
)

// Service описывает выход пользователя.
type Service interface {
	Logout(ctx context.Context, userUID string) error
}

// Handler обрабатывает запросы выхода.
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
// @Summary Выход пользователя
// @Description Аннулирует refresh-токен и удаляет cookie. Выданные access-токены действуют до истечения срока.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Выход выполнен"
// @Failure 401 {object} response.ErrorResponse "Пользователь не аутентифицирован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

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

	if err := h.service.Logout(r.Context(), p.UserUID); err != nil {
		log.Error("logout failed", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	cookie.ClearRefreshToken(w, h.cookie)
	log.Info("user logged out", slog.String("user_uid", p.UserUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "logged out successfully",
	}))
}
