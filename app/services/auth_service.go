package services

import (
	"context"
	"errors"
	"time"

	"github.com/mobilemart/server/app/repositories"
	"github.com/mobilemart/server/pkg/auth"
	"github.com/mobilemart/server/pkg/store"
)

// ErrUnknownUser means the presented email has no account. The handler
// maps it to a 403 with an empty token rather than a hard failure so
// the client can show a message.
var ErrUnknownUser = errors.New("no account for that email")

// AuthService turns a known email into a signed identity token.
type AuthService struct {
	users *repositories.UserRepository
	ttl   time.Duration
}

func NewAuthService(users *repositories.UserRepository, ttl time.Duration) *AuthService {
	return &AuthService{users: users, ttl: ttl}
}

// Login issues a token bound to email, provided an account exists.
// The user collection is the only authority here — the token carries no
// role, so nothing issued now goes stale when an admin changes a role.
func (s *AuthService) Login(ctx context.Context, email string) (string, error) {
	_, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrUnknownUser
	}
	if err != nil {
		return "", err
	}

	return auth.Issue(email, s.ttl)
}
