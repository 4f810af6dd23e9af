package session

import (
	"context"
	"time"
)

type Repository interface {
	CreateSession(ctx context.Context, s Session) error
	// FetchSession returns (nil, nil) for unknown ids.
	FetchSession(ctx context.Context, id string) (*Session, error)
	DeleteSession(ctx context.Context, id string) error
	PruneSessions(ctx context.Context, now time.Time) (int64, error)
}
