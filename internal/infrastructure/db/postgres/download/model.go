package download

import (
	"time"
)

type Token struct {
	ID     int64
	Token  string
	FileID int64
	UserID int64
	IsUsed bool

	CreatedAt  time.Time
	Expiration time.Time
}
