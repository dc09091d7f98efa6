package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/movie-access/internal/models"
	"github.com/magabrotheeeer/movie-access/internal/storage/repository"
)

// SubscriptionLookup находит подписку пользователя. Если подписки нет, возвращает repository.ErrNotFound.
type SubscriptionLookup interface {
	FindSubscriptionByUserID(ctx context.Context, userUID string) (*models.Subscription, error)
}

// SubscriptionGuard пропускает администраторов и premium-пользователей с действующей подпиской.
type SubscriptionGuard struct {
	subs SubscriptionLookup
	now  func() time.Time
}

// NewSubscriptionGuard создаёт guard. now может быть nil.
func NewSubscriptionGuard(subs SubscriptionLookup, now func() time.Time) *SubscriptionGuard {
	if now == nil {
		now = time.Now
	}
	return &SubscriptionGuard{subs: subs, now: now}
}

// Check решает, может ли вызывающий смотреть полные фильмы.
// Ошибка хранилища возвращается как есть, без повторов.
func (g *SubscriptionGuard) Check(ctx context.Context, p *models.Principal) (Decision, error) {
	const op = "services.access.SubscriptionGuard.Check"
	if p == nil {
		return Deny(ReasonUnauthenticated), nil
	}

	switch p.Role {
	case models.RoleAdmin:
		return Allow(), nil
	case models.RoleFree:
		return Deny(ReasonUpgradeRequired), nil
	case models.RolePremium:
		sub, err := g.subs.FindSubscriptionByUserID(ctx, p.UserUID)
		if errors.Is(err, repository.ErrNotFound) {
			return Deny(ReasonNoSubscription), nil
		}
		if err != nil {
			return Decision{}, fmt.Errorf("%s: %w", op, err)
		}
		if !sub.IsValid(g.now()) {
			return Deny(ReasonExpired), nil
		}
		return Allow(), nil
	default:
		return Deny(ReasonUnknownRole), nil
	}
}

// Name реализует Guard.
func (*SubscriptionGuard) Name() string { return "subscription" }
