// Package middlewarectx содержит HTTP middleware для проверки JWT и доступа.
//
// JWTMiddleware проверяет access-токен в заголовке Authorization и кладёт
// в контекст Principal. RequireRoles и RequireAccess прогоняют Principal через
// проверки доступа и при отказе отвечают 401/403 с кодом причины.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/movie-access/internal/apperr"
	"github.com/magabrotheeeer/movie-access/internal/http/response"
	"github.com/magabrotheeeer/movie-access/internal/lib/jwt"
	"github.com/magabrotheeeer/movie-access/internal/lib/sl"
	"github.com/magabrotheeeer/movie-access/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// PrincipalKey — ключ для аутентифицированного пользователя в контексте.
const PrincipalKey Key = "principal"

// TokenVerifier проверяет access-токен.
type TokenVerifier interface {
	VerifyAccess(token string) (*jwt.Claims, error)
}

// WithPrincipal возвращает контекст с Principal.
func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// PrincipalFrom достаёт Principal из контекста.
func PrincipalFrom(ctx context.Context) (*models.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(*models.Principal)
	return p, ok && p != nil
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Принимается только access-токен. При ошибке отвечает 401 Unauthorized.
func JWTMiddleware(verifier TokenVerifier, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Warn("missing or invalid authorization header")
				response.WriteStatus(w, r, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := verifier.VerifyAccess(tokenStr)
			if err != nil {
				log.Warn("invalid or expired token", sl.Err(err))
				msg := "invalid token"
				if apperr.KindOf(err) == apperr.KindExpiredToken {
					msg = "token expired"
				}
				response.WriteStatus(w, r, http.StatusUnauthorized, msg)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), claims.Principal())))
		})
	}
}
