// Package adminonly реализует HTTP-обработчик, доступный только администраторам.
//
// Проверка роли выполняется middleware RequireRoles, обработчик лишь подтверждает доступ.
package adminonly

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/movie-access/internal/http/middlewarectx"
	"github.com/magabrotheeeer/movie-access/internal/http/response"
)

// Handler отвечает администратору подтверждением доступа.
type Handler struct {
	log *slog.Logger
}

// New создаёт Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Проверка доступа администратора
// @Tags Roles
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Доступ разрешён"
// @Failure 401 {object} response.ErrorResponse "Пользователь не аутентифицирован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Router /roles/admin-only [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.roles.adminonly"

	p, ok := middlewarectx.PrincipalFrom(r.Context())
	if !ok {
		response.WriteStatus(w, r, http.StatusUnauthorized, "user not authenticated")
		return
	}

	h.log.Info("admin area accessed",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("user_uid", p.UserUID),
	)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "welcome, admin",
		"user_id": p.UserUID,
		"role":    p.Role,
	}))
}
