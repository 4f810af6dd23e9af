package user

import (
	"context"

	"file-exchange-api/internal/apperr"
)

var (
	ErrUsernameTaken = apperr.Duplicate("Username already exists!")
	ErrEmailTaken    = apperr.Duplicate("Email already exists!")
)

// Repository fetch methods return (nil, nil) when no row matches.
type Repository interface {
	FetchUserByID(ctx context.Context, id ID) (*User, error)
	FetchUserByUsername(ctx context.Context, username string) (*User, error)
	FetchUserByEmail(ctx context.Context, email string) (*User, error)
	// CreateUser returns ErrUsernameTaken or ErrEmailTaken when a unique
	// constraint rejects the insert.
	CreateUser(ctx context.Context, req User) (*User, error)
	// VerifyByToken flips is_verified and clears the token in one statement.
	// A token that matches nothing yields (nil, nil).
	VerifyByToken(ctx context.Context, token string) (*User, error)
}
