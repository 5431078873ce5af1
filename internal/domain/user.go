package domain

import "time"

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User is identified by email; the wallet address is discovered at login
// time and may be empty for users without a custodial wallet.
type User struct {
	ID            uint      `json:"id"`
	Email         string    `json:"email"`
	WalletAddress string    `json:"wallet_address,omitempty"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayName is the attendee name embedded in badge metadata.
func (u User) DisplayName() string {
	for i := 0; i < len(u.Email); i++ {
		if u.Email[i] == '@' {
			return u.Email[:i]
		}
	}

	return u.Email
}
