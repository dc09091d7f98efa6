// Package list реализует HTTP-обработчик получения списка ролей.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/movie-access/internal/http/response"
	"github.com/magabrotheeeer/movie-access/internal/lib/sl"
	"github.com/magabrotheeeer/movie-access/internal/models"
)

// Service возвращает роли из хранилища.
type Service interface {
	ListRoles(ctx context.Context) ([]models.Role, error)
}

// Handler обрабатывает запросы списка ролей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список ролей
// @Tags Roles
// @Produce  json
// @Success 200 {object} response.Response "Роли"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /roles [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.roles.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		log.Error("failed to list roles", sl.Err(err))
		response.WriteStatus(w, r, http.StatusInternalServerError, "could not list roles")
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"roles": roles,
	}))
}
