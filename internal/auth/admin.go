package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jayjaytrn/grocemate/internal/db"
	"github.com/jayjaytrn/grocemate/models"
)

type UserStore interface {
	GetUserData(ctx context.Context, email string) (models.User, error)
	PutUniqueUserData(ctx context.Context, user models.User) error
}

// EnsureAdmin creates an admin account for email unless one exists.
// It reports whether a user was created.
func EnsureAdmin(ctx context.Context, store UserStore, name, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := store.GetUserData(ctx, email)
	if err == nil {
		if existing.Role != models.RoleAdmin {
			return false, errors.New("a non-admin user already uses " + email)
		}
		return false, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return false, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}

	err = store.PutUniqueUserData(ctx, models.User{
		UUID:     uuid.New().String(),
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
