package models

import (
	"math"
	"time"
)

// PlanType — тарифный план подписки.
type PlanType string

const (
	// PlanMonthly — месячный план, 30 дней.
	PlanMonthly PlanType = "monthly"
	// PlanYearly — годовой план, 365 дней.
	PlanYearly PlanType = "yearly"
)

const day = 24 * time.Hour

// IsValid проверяет, что план входит в допустимый набор.
func (p PlanType) IsValid() bool {
	switch p {
	case PlanMonthly, PlanYearly:
		return true
	default:
		return false
	}
}

// Duration возвращает длительность плана. Для неизвестного плана возвращает 0.
func (p PlanType) Duration() time.Duration {
	switch p {
	case PlanMonthly:
		return 30 * day
	case PlanYearly:
		return 365 * day
	default:
		return 0
	}
}

// Subscription — подписка пользователя. У пользователя не больше одной записи.
//
// Валидность не хранится, а вычисляется через IsValid.
type Subscription struct {
	ID         string    `json:"id"`
	UserUID    string    `json:"user_id"`
	PlanType   PlanType  `json:"plan_type"`
	StartDate  time.Time `json:"start_date"`
	ExpiryDate time.Time `json:"expiry_date"`
	IsActive   bool      `json:"is_active"`
	AutoRenew  bool      `json:"auto_renew"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsValid возвращает true, если подписка активна и ещё не истекла на момент now.
func (s *Subscription) IsValid(now time.Time) bool {
	return s.IsActive && now.Before(s.ExpiryDate)
}

// DaysRemaining возвращает количество оставшихся дней, округлённое вверх.
// Для истёкшей подписки значение может быть отрицательным или нулевым.
func (s *Subscription) DaysRemaining(now time.Time) int {
	return int(math.Ceil(float64(s.ExpiryDate.Sub(now)) / float64(day)))
}

// Renew перезаписывает план и срок действия начиная с now и принудительно активирует подписку.
func (s *Subscription) Renew(plan PlanType, now time.Time) {
	s.PlanType = plan
	s.StartDate = now
	s.ExpiryDate = now.Add(plan.Duration())
	s.IsActive = true
}

// Cancel деактивирует подписку и выключает автопродление.
func (s *Subscription) Cancel() {
	s.IsActive = false
	s.AutoRenew = false
}

// View возвращает представление подписки с вычисленными полями.
func (s *Subscription) View(now time.Time) SubscriptionView {
	return SubscriptionView{
		Subscription:  *s,
		IsValid:       s.IsValid(now),
		DaysRemaining: s.DaysRemaining(now),
	}
}

// SubscriptionView — подписка вместе с валидностью и остатком дней на момент чтения.
type SubscriptionView struct {
	Subscription
	IsValid       bool `json:"is_valid"`
	DaysRemaining int  `json:"days_remaining"`
}
