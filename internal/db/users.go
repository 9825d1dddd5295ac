package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jayjaytrn/grocemate/models"
)

const userColumns = `uuid, name, email, password, role, COALESCE(avatar, ''), created_at, updated_at`

func scanUser(row scanner) (models.User, error) {
	var user models.User
	err := row.Scan(&user.UUID, &user.Name, &user.Email, &user.Password, &user.Role,
		&user.Avatar, &user.CreatedAt, &user.UpdatedAt)
	return user, err
}

func (m *Manager) PutUniqueUserData(ctx context.Context, user models.User) error {
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
		user.UpdatedAt = user.CreatedAt
	}

	_, err := m.Db.ExecContext(ctx, `
        INSERT INTO users (uuid, name, email, password, role, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, user.UUID, user.Name, user.Email, user.Password, user.Role, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return storeError("failed to insert user data", err)
	}

	return nil
}

func (m *Manager) GetUserData(ctx context.Context, email string) (models.User, error) {
	user, err := scanUser(m.Db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email))
	if err != nil {
		return user, storeError("failed to get user data", err)
	}

	return user, nil
}

func (m *Manager) GetUserByID(ctx context.Context, id string) (models.User, error) {
	if !validID(id) {
		return models.User{}, fmt.Errorf("user %q: %w", id, ErrNotFound)
	}

	user, err := scanUser(m.Db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE uuid = $1
	`, id))
	if err != nil {
		return user, storeError("failed to get user", err)
	}

	return user, nil
}

func (m *Manager) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := m.Db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, storeError("failed to list users", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, storeError("failed to scan user", err)
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, storeError("failed to list users", err)
	}

	return users, nil
}

// UpdateUserProfile changes name and email; empty values keep the current ones.
func (m *Manager) UpdateUserProfile(ctx context.Context, id, name, email string) (models.User, error) {
	if !validID(id) {
		return models.User{}, fmt.Errorf("user %q: %w", id, ErrNotFound)
	}

	user, err := scanUser(m.Db.QueryRowContext(ctx, `
		UPDATE users
		SET name = COALESCE(NULLIF($2, ''), name),
		    email = COALESCE(NULLIF($3, ''), email),
		    updated_at = $4
		WHERE uuid = $1
		RETURNING `+userColumns,
		id, name, email, time.Now().UTC()))
	if err != nil {
		return user, storeError("failed to update profile", err)
	}

	return user, nil
}

func (m *Manager) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	if !validID(id) {
		return fmt.Errorf("user %q: %w", id, ErrNotFound)
	}

	res, err := m.Db.ExecContext(ctx, `
		UPDATE users SET password = $2, updated_at = $3 WHERE uuid = $1
	`, id, passwordHash, time.Now().UTC())
	if err != nil {
		return storeError("failed to update password", err)
	}

	return checkAffected("failed to update password", res)
}

func (m *Manager) UpdateUserAvatar(ctx context.Context, id, avatar string) (models.User, error) {
	return m.updateUserColumn(ctx, id, "avatar", avatar)
}

func (m *Manager) UpdateUserRole(ctx context.Context, id string, role models.Role) (models.User, error) {
	return m.updateUserColumn(ctx, id, "role", string(role))
}

// column is never user input.
func (m *Manager) updateUserColumn(ctx context.Context, id, column, value string) (models.User, error) {
	if !validID(id) {
		return models.User{}, fmt.Errorf("user %q: %w", id, ErrNotFound)
	}

	user, err := scanUser(m.Db.QueryRowContext(ctx, `
		UPDATE users SET `+column+` = $2, updated_at = $3
		WHERE uuid = $1
		RETURNING `+userColumns,
		id, value, time.Now().UTC()))
	if err != nil {
		return user, storeError("failed to update "+column, err)
	}

	return user, nil
}

func (m *Manager) DeleteUser(ctx context.Context, id string) error {
	return m.deleteByID(ctx, "users", id)
}

// table is never user input.
func (m *Manager) deleteByID(ctx context.Context, table, id string) error {
	if !validID(id) {
		return fmt.Errorf("%s %q: %w", table, id, ErrNotFound)
	}

	res, err := m.Db.ExecContext(ctx, `DELETE FROM `+table+` WHERE uuid = $1`, id)
	if err != nil {
		return storeError("failed to delete from "+table, err)
	}

	return checkAffected("failed to delete from "+table, res)
}

