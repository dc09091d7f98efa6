// Package access реализует HTTP-обработчик проверки доступа к полным фильмам.
//
// Решение принимает middleware RequireSubscription: отказ возвращается с HTTP 403
// и кодом причины, чтобы клиент мог предложить переход на premium или продление подписки.
// До обработчика доходят только запросы с разрешённым доступом.
package access

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/movie-access/internal/http/middlewarectx"
	"github.com/magabrotheeeer/movie-access/internal/http/response"
)

// Handler подтверждает доступ.
type Handler struct {
	log *slog.Logger
}

// New создаёт Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Проверка доступа к фильмам
// @Description Администраторы и premium-пользователи с действующей подпиской получают доступ. Free-пользователи получают 403 с reason=upgrade_required.
// @Tags Content
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Доступ разрешён"
// @Failure 401 {object} response.ErrorResponse "Пользователь не аутентифицирован"
// @Failure 403 {object} response.ErrorResponse "Доступ запрещён, reason содержит причину"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /content/access [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.access"

	p, ok := middlewarectx.PrincipalFrom(r.Context())
	if !ok {
		response.WriteStatus(w, r, http.StatusUnauthorized, "user not authenticated")
		return
	}

	h.log.Debug("content access granted",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("user_uid", p.UserUID),
	)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"allowed": true,
		"role":    p.Role,
	}))
}
