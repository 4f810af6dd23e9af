package ports

import (
	"context"

	"file-exchange-api/internal/domain/user"
)

type NewUser struct {
	Username string
	Email    string
	Password string
}

type SignupResult struct {
	User            *user.User
	VerificationURL string
	EmailSent       bool
}

type UserService interface {
	Signup(ctx context.Context, in NewUser) (*SignupResult, error)
	VerifyEmail(ctx context.Context, token string) (*user.User, error)
	CreateOpsUser(ctx context.Context, in NewUser) (*user.User, error)
}

type Mailer interface {
	SendVerificationEmail(ctx context.Context, u user.User, verifyURL string) error
}
