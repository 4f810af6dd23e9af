package session

import (
	"time"

	"file-exchange-api/internal/domain/user"
)

// Session is the server-side alternative to a bearer token for browser
// clients. ID is opaque and only travels in a cookie.
type Session struct {
	ID     string
	UserID user.ID
	Role   user.Role

	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }
