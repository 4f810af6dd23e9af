package download

import (
	"time"

	"file-exchange-api/internal/domain/file"
	"file-exchange-api/internal/domain/user"
)

// Token is a single-use capability granting one download of FileID to UserID.
type Token struct {
	ID       int64
	Token    string
	FileID   file.ID
	UserID   user.ID
	Consumed bool

	CreatedAt time.Time
	ExpiresAt time.Time
}

func (t Token) Expired(now time.Time) bool { return now.After(t.ExpiresAt) }
