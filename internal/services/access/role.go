package access

import (
	"context"
	"slices"

	"github.com/magabrotheeeer/movie-access/internal/models"
)

// Allows сообщает, входит ли role в множество required.
func Allows(role models.RoleName, required ...models.RoleName) bool {
	return slices.Contains(required, role)
}

// Authorize проверяет роль вызывающего.
func Authorize(p *models.Principal, required ...models.RoleName) Decision {
	if p == nil {
		return Deny(ReasonUnauthenticated)
	}
	if !Allows(p.Role, required...) {
		return Deny(ReasonRoleNotAllowed)
	}
	return Allow()
}

// RoleGuard — шаг конвейера, проверяющий роль.
type RoleGuard struct {
	Required []models.RoleName
}

// Check реализует Guard.
func (g RoleGuard) Check(_ context.Context, p *models.Principal) (Decision, error) {
	return Authorize(p, g.Required...), nil
}

// Name реализует Guard.
func (RoleGuard) Name() string { return "role" }
