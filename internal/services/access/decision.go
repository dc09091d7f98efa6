// Package access принимает решения об авторизации: проверку роли и проверку подписки.
//
// Guard-ы не хранят состояния и безопасны для конкурентного использования.
package access

import "github.com/magabrotheeeer/movie-access/internal/apperr"

// Reason — машиночитаемая причина отказа.
type Reason string

// Причины отказа.
const (
	ReasonNone            Reason = ""
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonRoleNotAllowed  Reason = "role_not_allowed"
	ReasonUpgradeRequired Reason = "upgrade_required"
	ReasonNoSubscription  Reason = "no_subscription"
	ReasonExpired         Reason = "subscription_expired"
	ReasonUnknownRole     Reason = "unknown_role"
)

var reasonMessages = map[Reason]string{
	ReasonUnauthenticated: "user not authenticated",
	ReasonRoleNotAllowed:  "insufficient role",
	ReasonUpgradeRequired: "free users cannot access full movies, please upgrade to premium",
	ReasonNoSubscription:  "no active subscription found",
	ReasonExpired:         "your subscription has expired, please renew to continue watching",
	ReasonUnknownRole:     "access denied",
}

// Message возвращает текст для клиента.
func (r Reason) Message() string {
	if m, ok := reasonMessages[r]; ok {
		return m
	}
	return "access denied"
}

// Decision — результат проверки доступа.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Allow — положительное решение.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny — отказ с причиной.
func Deny(r Reason) Decision {
	return Decision{Reason: r}
}

// Err переводит отказ в ошибку apperr. Для разрешения возвращает nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	kind := apperr.KindForbidden
	if d.Reason == ReasonUnauthenticated {
		kind = apperr.KindUnauthorized
	}
	return apperr.New(kind, d.Reason.Message()).WithReason(string(d.Reason))
}
