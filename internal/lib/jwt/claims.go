package jwt

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/magabrotheeeer/movie-access/internal/models"
)

// TokenType отличает access-токен от refresh-токена.
type TokenType string

const (
	// TypeAccess — короткоживущий bearer-токен для вызовов API.
	TypeAccess TokenType = "access"
	// TypeRefresh — долгоживущий токен для обмена на новую пару.
	TypeRefresh TokenType = "refresh"
)

// Claims — данные, зашитые в токен в момент выдачи.
//
// На проводе: {"sub": <uid>, "email": ..., "role": ..., "typ": ..., "jti": ..., "iat": ..., "exp": ...}.
// Claims — снимок на момент выдачи и не перепроверяются против текущей роли.
type Claims struct {
	Email string    `json:"email"`
	Role  string    `json:"role"`
	Type  TokenType `json:"typ,omitempty"`
	jwt.RegisteredClaims
}

// UserUID возвращает идентификатор пользователя из claim sub.
func (c *Claims) UserUID() string {
	return c.Subject
}

// Principal собирает аутентифицированного вызывающего из claims.
func (c *Claims) Principal() *models.Principal {
	return &models.Principal{
		UserUID: c.Subject,
		Email:   c.Email,
		Role:    models.RoleName(c.Role),
	}
}
