package client

import (
	"context"
	"net/http"

	"github.com/jayjaytrn/grocemate/models"
)

// Login signs in and remembers the session. role may be empty.
func (c *Client) Login(ctx context.Context, email, password string, role models.Role) (models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", models.Credentials{
		Email:    email,
		Password: password,
		Role:     role,
	}, &resp)
	if err != nil {
		return resp, err
	}

	if err = c.Session.Save(ctx, resp.Token, resp.User); err != nil {
		return resp, err
	}
	return resp, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (models.User, error) {
	var resp struct {
		Message string      `json:"message"`
		User    models.User `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/register", models.Credentials{
		Name:     name,
		Email:    email,
		Password: password,
	}, &resp)
	return resp.User, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.Session.Clear(ctx)
}

// Profile falls back to the remembered user when offline.
func (c *Client) Profile(ctx context.Context) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, profileTimeout)
	defer cancel()

	var user models.User
	err := c.do(ctx, http.MethodGet, "/api/users/profile", nil, &user)
	if err == nil {
		return user, c.Session.SetUser(ctx, user)
	}
	if !IsOffline(err) {
		return user, err
	}

	cached, cacheErr := c.Session.User(ctx)
	if cacheErr != nil || cached == nil {
		return user, err
	}
	return *cached, nil
}

// UpdateProfile changes name and email. Offline, only the remembered
// user is changed.
func (c *Client) UpdateProfile(ctx context.Context, name, email string) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodPut, "/api/users/profile", map[string]string{
		"name":  name,
		"email": email,
	}, &user)
	if err == nil {
		return user, c.Session.SetUser(ctx, user)
	}
	if !IsOffline(err) {
		return user, err
	}

	cached, cacheErr := c.Session.User(ctx)
	if cacheErr != nil || cached == nil {
		return user, err
	}
	if name != "" {
		cached.Name = name
	}
	if email != "" {
		cached.Email = email
	}
	c.Logger.Infow("profile updated offline", "uuid", cached.UUID)
	return *cached, c.Session.SetUser(ctx, *cached)
}

// ChangePassword needs the server; there is no offline fallback.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	err := c.do(ctx, http.MethodPut, "/api/users/change-password", map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}, nil)
	if IsOffline(err) {
		return &APIError{Message: "Cannot change password while offline", Err: err}
	}
	return err
}
