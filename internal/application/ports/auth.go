package ports

import (
	"context"
	"time"

	"file-exchange-api/internal/domain/user"
	"file-exchange-api/internal/infrastructure/jwt"
)

type TokenIssuer interface {
	GenerateJWT(userID user.ID, role user.Role, expiresIn time.Duration) (string, error)
	ValidateToken(tokenStr string) (*jwt.Identity, error)
}

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(hash, plaintext string) bool
}

type LoginResult struct {
	User             *user.User
	Token            string
	SessionID        string
	SessionExpiresAt time.Time
}

type Auth interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	// ResolveSession returns (nil, nil) when sessionID names no live session,
	// letting the caller fall back to the bearer header.
	ResolveSession(ctx context.Context, sessionID string) (*user.User, error)
	ResolveBearer(ctx context.Context, authHeader string) (*user.User, error)
	Logout(ctx context.Context, sessionID string) error
	PruneSessions(ctx context.Context) (int64, error)
}
