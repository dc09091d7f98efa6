package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/movie-access/internal/models"
)

const selectUser = `SELECT
		u.uid, u.email, u.username, u.password_hash, u.is_active, u.refresh_token_hash,
		u.created_at, u.updated_at,
		r.id, r.name, r.description, r.created_at,
		s.id, s.plan_type, s.start_date, s.expiry_date, s.is_active, s.auto_renew,
		s.created_at, s.updated_at
	FROM users u
	JOIN roles r ON r.id = u.role_id
	LEFT JOIN subscriptions s ON s.user_uid = u.uid`

// FindUserByEmail возвращает пользователя вместе с текущей ролью и подпиской.
func (s *Storage) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.FindUserByEmail"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx, selectUser+` WHERE u.email = $1`, email))
	if err != nil {
		return nil, translateErr(op, err)
	}
	return u, nil
}

// FindUserByID возвращает пользователя по его UID.
func (s *Storage) FindUserByID(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.FindUserByID"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx, selectUser+` WHERE u.uid = $1`, userUID))
	if err != nil {
		return nil, translateErr(op, err)
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя и возвращает его UID.
// Роль задаётся через user.Role.ID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	if err := ctxErr(ctx, op); err != nil {
		return "", err
	}

	query := `INSERT INTO users (email, username, password_hash, role_id, is_active)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING uid`
	var newID string
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role.ID, user.IsActive).Scan(&newID); err != nil {
		return "", translateErr(op, err)
	}
	return newID, nil
}

// UpdateRefreshTokenHash перезаписывает хэш refresh-токена. nil очищает его.
func (s *Storage) UpdateRefreshTokenHash(ctx context.Context, userUID string, hash *string) error {
	const op = "storage.UpdateRefreshTokenHash"
	if err := ctxErr(ctx, op); err != nil {
		return err
	}

	query := `UPDATE users SET refresh_token_hash = $1, updated_at = NOW() WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, hash, userUID)
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

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u            models.User
		refreshHash  sql.NullString
		subID        sql.NullString
		subPlan      sql.NullString
		subStart     sql.NullTime
		subExpiry    sql.NullTime
		subActive    sql.NullBool
		subAutoRenew sql.NullBool
		subCreated   sql.NullTime
		subUpdated   sql.NullTime
	)
	if err := row.Scan(
		&u.UUID, &u.Email, &u.Username, &u.PasswordHash, &u.IsActive, &refreshHash,
		&u.CreatedAt, &u.UpdatedAt,
		&u.Role.ID, &u.Role.Name, &u.Role.Description, &u.Role.CreatedAt,
		&subID, &subPlan, &subStart, &subExpiry, &subActive, &subAutoRenew,
		&subCreated, &subUpdated,
	); err != nil {
		return nil, err
	}

	if refreshHash.Valid {
		u.RefreshTokenHash = &refreshHash.String
	}
	if subID.Valid {
		u.Subscription = &models.Subscription{
			ID:         subID.String,
			UserUID:    u.UUID,
			PlanType:   models.PlanType(subPlan.String),
			StartDate:  subStart.Time,
			ExpiryDate: subExpiry.Time,
			IsActive:   subActive.Bool,
			AutoRenew:  subAutoRenew.Bool,
			CreatedAt:  subCreated.Time,
			UpdatedAt:  subUpdated.Time,
		}
	}
	return &u, nil
}
