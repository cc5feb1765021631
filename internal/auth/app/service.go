package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dwikikusuma/storefront/internal/session"
	"github.com/google/uuid"
)

// UserAPI authenticates credentials against the remote users service and
// returns the API token this service will act with on the user's behalf.
type UserAPI interface {
	Login(ctx context.Context, email, password string) (UserInfo, error)
}

type UserInfo struct {
	UserID string
	Name   string
	Email  string
	Token  string
}

// CartForgetter drops locally held cart state on logout.
type CartForgetter interface {
	Forget(userID string)
}

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	users    UserAPI
	sessions session.Store
	cart     CartForgetter
}

func NewService(users UserAPI, sessions session.Store, cart CartForgetter) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		cart:     cart,
	}
}

// Login exchanges credentials for an API token and mints a session around it.
func (s *Service) Login(ctx context.Context, email, password string) (session.Session, UserInfo, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return session.Session{}, UserInfo{}, ErrInvalidInput
	}

	info, err := s.users.Login(ctx, email, password)
	if err != nil {
		return session.Session{}, UserInfo{}, err
	}

	sess := session.Session{
		ID:        uuid.NewString(),
		UserID:    info.UserID,
		Token:     info.Token,
		CreatedAt: time.Now(),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return session.Session{}, UserInfo{}, fmt.Errorf("save session: %w", err)
	}
	return sess, info, nil
}

// Logout deletes the session and forgets any cart state held for the user.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.cart.Forget(sess.UserID)
	return nil
}
