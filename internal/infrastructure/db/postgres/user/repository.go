package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"file-exchange-api/internal/domain/user"
	"file-exchange-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) user.Repository {
	return &Repository{db: db}
}

func (r *Repository) FetchUserByID(ctx context.Context, id user.ID) (*user.User, error) {
	return r.fetchOne(ctx, SelectUserByID, int64(id))
}

func (r *Repository) FetchUserByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.fetchOne(ctx, SelectUserByUsername, username)
}

func (r *Repository) FetchUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.fetchOne(ctx, SelectUserByEmail, email)
}

func (r *Repository) CreateUser(ctx context.Context, req user.User) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(
		ctx,
		InsertUser,
		req.Username, req.Email, req.PasswordHash, req.Role.String(), req.IsVerified, req.VerificationToken,
	))
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			if postgres.ConstraintName(err) == constraintEmail {
				return nil, user.ErrEmailTaken
			}
			return nil, user.ErrUsernameTaken
		}
		return nil, err
	}

	return fromDBModel(u)
}

func (r *Repository) VerifyByToken(ctx context.Context, token string) (*user.User, error) {
	return r.fetchOne(ctx, VerifyUserByToken, token)
}

func (r *Repository) fetchOne(ctx context.Context, query string, arg any) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(u)
}

func scanUser(row pgx.Row) (*User, error) {
	u := new(User)
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.IsVerified,
		&u.VerificationToken,

		&u.CreatedAt,
	); err != nil {
		return nil, err
	}

	return u, nil
}
