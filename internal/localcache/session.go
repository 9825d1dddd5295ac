package localcache

import (
	"context"
	"encoding/json"

	"github.com/jayjaytrn/grocemate/models"
)

const (
	TokenKey = "token"
	UserKey  = "user"
)

// Session remembers the signed-in user between runs.
type Session struct {
	storage Storage
}

func NewSession(storage Storage) *Session {
	return &Session{storage: storage}
}

func (s *Session) Save(ctx context.Context, token string, user models.User) error {
	if err := s.storage.SetItem(ctx, TokenKey, token); err != nil {
		return err
	}
	return s.SetUser(ctx, user)
}

func (s *Session) Token(ctx context.Context) (string, error) {
	token, _, err := s.storage.GetItem(ctx, TokenKey)
	return token, err
}

// User returns nil when nobody is signed in.
func (s *Session) User(ctx context.Context) (*models.User, error) {
	raw, ok, err := s.storage.GetItem(ctx, UserKey)
	if err != nil || !ok {
		return nil, err
	}

	var user models.User
	if err = json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Session) SetUser(ctx context.Context, user models.User) error {
	b, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.storage.SetItem(ctx, UserKey, string(b))
}

func (s *Session) Clear(ctx context.Context) error {
	if err := s.storage.RemoveItem(ctx, TokenKey); err != nil {
		return err
	}
	return s.storage.RemoveItem(ctx, UserKey)
}
