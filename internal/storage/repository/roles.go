package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/movie-access/internal/models"
)

// FindRoleByName возвращает роль по имени.
func (s *Storage) FindRoleByName(ctx context.Context, name models.RoleName) (*models.Role, error) {
	const op = "storage.FindRoleByName"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, name, description, created_at FROM roles WHERE name = $1`
	var r models.Role
	if err := s.DB.QueryRowContext(ctx, query, string(name)).
		Scan(&r.ID, &r.Name, &r.Description, &r.CreatedAt); err != nil {
		return nil, translateErr(op, err)
	}
	return &r, nil
}

// ListRoles возвращает все роли.
func (s *Storage) ListRoles(ctx context.Context) ([]models.Role, error) {
	const op = "storage.ListRoles"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id, name, description, created_at FROM roles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Role
	for rows.Next() {
		var r models.Role
		if err = rows.Scan(&r.ID, &r.Name, &r.Description, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SeedRoles создаёт отсутствующие роли. Существующие строки не изменяются.
func (s *Storage) SeedRoles(ctx context.Context, roles []models.Role) error {
	const op = "storage.SeedRoles"
	if err := ctxErr(ctx, op); err != nil {
		return err
	}

	query := `INSERT INTO roles (name, description) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`
	for _, r := range roles {
		if _, err := s.DB.ExecContext(ctx, query, string(r.Name), r.Description); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}
