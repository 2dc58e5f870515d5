package domain

import "time"

const (
	RoleMember     = "member"
	RoleAmbassador = "ambassador"
)

// User models a registered member. CredentialSecret holds the bcrypt hash of
// the member's PIN and is never rendered outside the ledger.
type User struct {
	ID               string    `json:"id" validate:"required"`
	DisplayName      string    `json:"displayName" validate:"required"`
	Email            string    `json:"email" validate:"required"`
	CredentialSecret string    `json:"credentialSecret"`
	WalletAddress    string    `json:"walletAddress,omitempty" validate:"omitempty,wallet"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Role reports the member's role. A user becomes an ambassador once a wallet
// is attached.
func (u *User) Role() string {
	if u.WalletAddress != "" {
		return RoleAmbassador
	}
	return RoleMember
}

// Ambassador is the leaderboard identity of a user with an attached wallet.
// Score is derived and only the scoring engine writes it.
type Ambassador struct {
	ID            string    `json:"id" validate:"required"`
	DisplayName   string    `json:"displayName" validate:"required"`
	WalletAddress string    `json:"wallet" validate:"required,wallet"`
	Score         int       `json:"score"`
	CreatedAt     time.Time `json:"createdAt"`
}
