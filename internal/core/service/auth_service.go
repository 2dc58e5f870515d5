package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"

	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
)

// AuthService issues session tokens. The PIN check itself lives in the
// ledger; this only turns an authenticated user into a bearer token.
type AuthService struct {
	jwtSecret string
	tokenTTL  time.Duration
	clock     clockwork.Clock
}

func NewAuthService(jwtSecret string, tokenTTL time.Duration, clock clockwork.Clock) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &AuthService{jwtSecret: jwtSecret, tokenTTL: tokenTTL, clock: clock}
}

// IssueToken signs a token carrying the user's id, role and display name.
// The role is fixed at issue time; attaching a wallet requires a new token.
func (s *AuthService) IssueToken(user *domain.User) (string, error) {
	if user == nil || user.ID == "" {
		return "", errors.New("issue token: user is required")
	}
	now := s.clock.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role(),
		"name": user.DisplayName,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
