package ports

import (
	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
)

// AuthService issues session tokens for authenticated members.
type AuthService interface {
	IssueToken(user *domain.User) (string, error)
}
