package download

import (
	"context"
	"time"
)

type Repository interface {
	CreateToken(ctx context.Context, req Token) (*Token, error)
	// ConsumeToken locks the unconsumed row for token, runs check against it
	// and marks it consumed only when check returns nil. Concurrent callers
	// for the same token are serialized; losers see (nil, nil) as if the
	// token never existed. A check error is returned unchanged and leaves the
	// row untouched.
	ConsumeToken(ctx context.Context, token string, check func(Token) error) (*Token, error)
	// PruneTokens removes consumed or expired tokens whose expiry is before
	// cutoff.
	PruneTokens(ctx context.Context, cutoff time.Time) (int64, error)
}
