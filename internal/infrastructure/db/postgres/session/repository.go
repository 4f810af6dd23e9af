package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"file-exchange-api/internal/domain/session"
	"file-exchange-api/internal/domain/user"
	"file-exchange-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) session.Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateSession(ctx context.Context, s session.Session) error {
	_, err := r.db.Exec(ctx, InsertSession, s.ID, int64(s.UserID), s.Role.String(), s.CreatedAt, s.ExpiresAt)
	return err
}

func (r *Repository) FetchSession(ctx context.Context, id string) (*session.Session, error) {
	var (
		userID int64
		role   string
		s      session.Session
	)
	err := r.db.QueryRow(ctx, SelectSessionByID, id).Scan(&s.ID, &userID, &role, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	s.UserID = user.ID(userID)
	if s.Role, err = user.ParseRole(role); err != nil {
		return nil, fmt.Errorf("session role: %w", err)
	}

	return &s, nil
}

func (r *Repository) DeleteSession(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, DeleteSessionByID, id)
	return err
}

func (r *Repository) PruneSessions(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, DeleteExpiredSessions, now)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
