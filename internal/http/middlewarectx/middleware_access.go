package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/movie-access/internal/http/response"
	"github.com/magabrotheeeer/movie-access/internal/lib/sl"
	"github.com/magabrotheeeer/movie-access/internal/models"
	"github.com/magabrotheeeer/movie-access/internal/services/access"
)

// Guard принимает решение о доступе для Principal.
type Guard interface {
	Check(ctx context.Context, p *models.Principal) (access.Decision, error)
	Name() string
}

// RequireRoles пропускает запрос, только если роль пользователя входит в required.
func RequireRoles(log *slog.Logger, required ...models.RoleName) func(http.Handler) http.Handler {
	return RequireAccess(log, access.RoleGuard{Required: required})
}

// RequireAccess прогоняет Principal через guard. Отказ отдаётся с кодом причины.
func RequireAccess(log *slog.Logger, guard Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireAccess"

			log := log.With(
				slog.String("op", op),
				slog.String("guard", guard.Name()),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			p, _ := PrincipalFrom(r.Context())
			decision, err := guard.Check(r.Context(), p)
			if err != nil {
				log.Error("access check failed", sl.Err(err))
				response.WriteError(w, r, err)
				return
			}
			if !decision.Allowed {
				log.Info("access denied", slog.String("reason", string(decision.Reason)))
				response.WriteError(w, r, decision.Err())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSubscription пропускает администраторов и premium-пользователей с действующей подпиской.
func RequireSubscription(log *slog.Logger, guard Guard) func(http.Handler) http.Handler {
	return RequireAccess(log, guard)
}
