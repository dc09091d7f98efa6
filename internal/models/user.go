// Package models содержит доменные структуры сервиса доступа: пользователей, роли,
// подписки и пары токенов. Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// User представляет учётную запись пользователя (identity).
//
// PasswordHash и RefreshTokenHash никогда не покидают сервис: наружу отдаётся только UserView.
type User struct {
	UUID             string        // Уникальный идентификатор пользователя
	Email            string        // Электронная почта (уникальная)
	Username         string        // Отображаемое имя
	PasswordHash     string        // bcrypt-хэш пароля
	Role             Role          // Текущая роль, подтягивается из таблицы roles при каждой загрузке
	IsActive         bool          // Признак активной учётной записи
	RefreshTokenHash *string       // Хэш текущего refresh-токена, nil после logout
	Subscription     *Subscription // Подписка пользователя, если есть
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// View возвращает публичное представление пользователя.
func (u *User) View(now time.Time) UserView {
	v := UserView{
		ID:       u.UUID,
		Email:    u.Email,
		Username: u.Username,
		Role:     u.Role.Name,
	}
	if u.Subscription != nil {
		sv := u.Subscription.View(now)
		v.Subscription = &sv
	}
	return v
}

// UserView — публичное представление пользователя без пароля и хэша refresh-токена.
type UserView struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	Username     string            `json:"username"`
	Role         RoleName          `json:"role"`
	Subscription *SubscriptionView `json:"subscription"`
}

// Principal — аутентифицированный вызывающий, собранный из проверенных claims access-токена.
type Principal struct {
	UserUID string
	Email   string
	Role    RoleName
}
