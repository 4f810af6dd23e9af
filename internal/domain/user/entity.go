package user

import (
	"time"
)

type (
	ID   int64
	User struct {
		ID                ID
		Username          string
		Email             string
		PasswordHash      string
		Role              Role
		IsVerified        bool
		VerificationToken *string

		CreatedAt time.Time
	}
	Users []*User
)

// CanAuthenticate reports whether the account may log in. Client accounts
// have to confirm their email first; operations accounts are created verified.
func (u *User) CanAuthenticate() bool {
	if u.Role == RoleClient {
		return u.IsVerified
	}
	return true
}
