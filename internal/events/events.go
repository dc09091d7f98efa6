// Package events публикует доменные события сервиса доступа во внешнюю шину.
//
// Публикация выполняется после фиксации изменения в хранилище. Ошибка публикации
// логируется вызывающей стороной и не откатывает операцию.
package events

import (
	"context"
	"time"
)

// Type — routing key события.
type Type string

// Типы событий.
const (
	UserRegistered        Type = "user.registered"
	UserLoggedIn          Type = "user.logged_in"
	UserLoggedOut         Type = "user.logged_out"
	TokenRefreshed        Type = "user.token_refreshed"
	SubscriptionCreated   Type = "subscription.created"
	SubscriptionRenewed   Type = "subscription.renewed"
	SubscriptionCancelled Type = "subscription.cancelled"
)

// Event — сообщение, отправляемое в шину.
type Event struct {
	Type       Type              `json:"type"`
	UserUID    string            `json:"user_id"`
	Email      string            `json:"email,omitempty"`
	Role       string            `json:"role,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Publisher отправляет события.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Noop отбрасывает события. Используется, когда шина выключена в конфиге.
type Noop struct{}

// Publish ничего не делает.
func (Noop) Publish(context.Context, Event) error { return nil }
