package file

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "file-exchange-api/internal/domain/file"
)

var columns = []string{"id", "filename", "original_filename", "file_path", "file_type", "file_size", "uploader_id", "username", "uploaded_at"}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, domain.Repository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewRepository(mock)
}

func TestRepository_FetchFiles(t *testing.T) {
	mock, repo := newMock(t)
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(SelectFiles)).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(int64(2), "b.docx", "letter.docx", "b.docx", "docx", int64(10), int64(1), "ops", at).
			AddRow(int64(1), "a.xlsx", "report.xlsx", "a.xlsx", "xlsx", int64(500), int64(1), "ops", at))

	got, err := repo.FetchFiles(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "letter.docx", got[0].OriginalName)
	assert.Equal(t, "ops", got[1].UploaderName)
	assert.Equal(t, int64(500), got[1].SizeBytes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FetchFiles_Empty(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(SelectFiles)).WillReturnRows(pgxmock.NewRows(columns))

	got, err := repo.FetchFiles(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRepository_FetchFileByID_NotFound(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(SelectFileByID)).
		WithArgs(int64(9)).
		WillReturnRows(pgxmock.NewRows(columns))

	got, err := repo.FetchFileByID(context.Background(), 9)
	require.NoError(t, err)
	assert.Nil(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateFile(t *testing.T) {
	mock, repo := newMock(t)
	at := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(InsertFile)).
		WithArgs("abc.xlsx", "report.xlsx", "abc.xlsx", "xlsx", int64(500), int64(1)).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(int64(5), "abc.xlsx", "report.xlsx", "abc.xlsx", "xlsx", int64(500), int64(1), "ops", at))

	got, err := repo.CreateFile(context.Background(), domain.File{
		StoredName: "abc.xlsx", OriginalName: "report.xlsx", Path: "abc.xlsx", Type: "xlsx", SizeBytes: 500, UploaderID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ID(5), got.ID)
	assert.Equal(t, "ops", got.UploaderName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteFile(t *testing.T) {
	tests := []struct {
		name    string
		rows    int64
		err     error
		want    bool
		wantErr bool
	}{
		{name: "deleted", rows: 1, want: true},
		{name: "missing", rows: 0, want: false},
		{name: "db error", err: errors.New("conn reset"), wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			mock, repo := newMock(t)
			exp := mock.ExpectExec(regexp.QuoteMeta(DeleteFileByID)).WithArgs(int64(4))
			if tt.err != nil {
				exp.WillReturnError(tt.err)
			} else {
				exp.WillReturnResult(pgxmock.NewResult("DELETE", tt.rows))
			}

			got, err := repo.DeleteFile(context.Background(), 4)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
