package models

import "time"

// RoleName — имя роли из замкнутого набора admin / premium / free.
type RoleName string

const (
	// RoleAdmin — администратор с полным доступом.
	RoleAdmin RoleName = "admin"
	// RolePremium — платный пользователь, доступ к полным фильмам при валидной подписке.
	RolePremium RoleName = "premium"
	// RoleFree — бесплатный пользователь, доступ только к трейлерам.
	RoleFree RoleName = "free"
)

// DefaultRole назначается пользователю при регистрации, если роль не указана.
const DefaultRole = RoleFree

// IsValid проверяет, что роль входит в замкнутый набор.
func (r RoleName) IsValid() bool {
	switch r {
	case RoleAdmin, RolePremium, RoleFree:
		return true
	default:
		return false
	}
}

func (r RoleName) String() string {
	return string(r)
}

// ParseRoleName разбирает строку в RoleName. Пустая строка означает роль по умолчанию.
func ParseRoleName(s string) (RoleName, bool) {
	if s == "" {
		return DefaultRole, true
	}
	r := RoleName(s)
	return r, r.IsValid()
}

// AllRoles возвращает все роли вместе с описаниями для первичного заполнения таблицы roles.
func AllRoles() []Role {
	return []Role{
		{Name: RoleAdmin, Description: "Administrator with full access"},
		{Name: RolePremium, Description: "Premium user with full movie access"},
		{Name: RoleFree, Description: "Free user with trailer access only"},
	}
}

// Role — запись роли в хранилище. Пользователь ссылается на роль по ID,
// поэтому смена роли сразу видна следующим проверкам доступа.
type Role struct {
	ID          string    `json:"id"`
	Name        RoleName  `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
