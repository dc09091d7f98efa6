package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/movie-access/internal/models"
)

// FindSubscriptionByUserID возвращает подписку пользователя.
func (s *Storage) FindSubscriptionByUserID(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.FindSubscriptionByUserID"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, user_uid, plan_type, start_date, expiry_date, is_active, auto_renew,
				  created_at, updated_at
			  FROM subscriptions
			  WHERE user_uid = $1`
	var sub models.Subscription
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(
		&sub.ID, &sub.UserUID, &sub.PlanType, &sub.StartDate, &sub.ExpiryDate,
		&sub.IsActive, &sub.AutoRenew, &sub.CreatedAt, &sub.UpdatedAt,
	); err != nil {
		return nil, translateErr(op, err)
	}
	return &sub, nil
}

// CreateSubscription вставляет подписку. Вторая подписка того же пользователя даёт ErrAlreadyExists.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	const op = "storage.CreateSubscription"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO subscriptions (user_uid, plan_type, start_date, expiry_date, is_active, auto_renew)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, created_at, updated_at`
	if err := s.DB.QueryRowContext(ctx, query,
		sub.UserUID, string(sub.PlanType), sub.StartDate, sub.ExpiryDate, sub.IsActive, sub.AutoRenew,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return nil, translateErr(op, err)
	}
	return &sub, nil
}

// SaveSubscription перезаписывает изменяемые поля подписки пользователя.
func (s *Storage) SaveSubscription(ctx context.Context, sub models.Subscription) error {
	const op = "storage.SaveSubscription"
	if err := ctxErr(ctx, op); err != nil {
		return err
	}

	query := `UPDATE subscriptions
			  SET plan_type = $1, start_date = $2, expiry_date = $3, is_active = $4,
				  auto_renew = $5, updated_at = NOW()
			  WHERE user_uid = $6`
	res, err := s.DB.ExecContext(ctx, query,
		string(sub.PlanType), sub.StartDate, sub.ExpiryDate, sub.IsActive, sub.AutoRenew, sub.UserUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
