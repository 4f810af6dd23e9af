package download

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"file-exchange-api/internal/domain/download"
	"file-exchange-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) download.Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateToken(ctx context.Context, req download.Token) (*download.Token, error) {
	t, err := scanToken(r.db.QueryRow(
		ctx,
		InsertToken,
		req.Token, int64(req.FileID), int64(req.UserID), req.ExpiresAt,
	))
	if err != nil {
		return nil, err
	}

	return fromDBModel(t), nil
}

func (r *Repository) ConsumeToken(
	ctx context.Context,
	token string,
	check func(download.Token) error,
) (*download.Token, error) {
	var consumed *download.Token

	err := postgres.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		row, err := scanToken(tx.QueryRow(ctx, SelectUnusedTokenForUpdate, token))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		}

		t := fromDBModel(row)
		if err = check(*t); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, MarkTokenUsed, row.ID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() != 1 {
			return nil
		}

		t.Consumed = true
		consumed = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	return consumed, nil
}

func (r *Repository) PruneTokens(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, DeleteTokensExpiredBefore, cutoff)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func scanToken(row pgx.Row) (*Token, error) {
	t := new(Token)
	if err := row.Scan(
		&t.ID,
		&t.Token,
		&t.FileID,
		&t.UserID,
		&t.IsUsed,

		&t.CreatedAt,
		&t.Expiration,
	); err != nil {
		return nil, err
	}

	return t, nil
}
