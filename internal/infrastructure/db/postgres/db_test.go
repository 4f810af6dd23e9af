package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPgUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}

	assert.True(t, IsPgUniqueViolation(unique))
	assert.True(t, IsPgUniqueViolation(fmt.Errorf("insert: %w", unique)))
	assert.False(t, IsPgUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsPgUniqueViolation(errors.New("23505")))
	assert.Equal(t, "users_email_key", ConstraintName(unique))
	assert.Equal(t, "", ConstraintName(errors.New("x")))
}

func TestWithTx(t *testing.T) {
	errFn := errors.New("fn failed")

	tests := []struct {
		name    string
		setup   func(m pgxmock.PgxPoolIface)
		fn      func(tx pgx.Tx) error
		wantErr error
	}{
		{
			name: "commit on success",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectBegin()
				m.ExpectCommit()
			},
			fn: func(pgx.Tx) error { return nil },
		},
		{
			name: "rollback on error",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectBegin()
				m.ExpectRollback()
			},
			fn:      func(pgx.Tx) error { return errFn },
			wantErr: errFn,
		},
		{
			name: "commit failure surfaces",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectBegin()
				m.ExpectCommit().WillReturnError(errFn)
			},
			fn:      func(pgx.Tx) error { return nil },
			wantErr: errFn,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()
			tt.setup(mock)

			err = WithTx(context.Background(), mock, tt.fn)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWithTx_PanicRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = WithTx(context.Background(), mock, func(pgx.Tx) error { panic("boom") })
	})
	require.NoError(t, mock.ExpectationsWereMet())
}
