package file

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"file-exchange-api/internal/domain/file"
	"file-exchange-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) file.Repository {
	return &Repository{db: db}
}

func (r *Repository) FetchFiles(ctx context.Context) (file.Files, error) {
	rows, err := r.db.Query(ctx, SelectFiles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fs := Files{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		fs = append(fs, f)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(&fs), nil
}

func (r *Repository) FetchFileByID(ctx context.Context, id file.ID) (*file.File, error) {
	f, err := scanFile(r.db.QueryRow(ctx, SelectFileByID, int64(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(f), nil
}

func (r *Repository) CreateFile(ctx context.Context, req file.File) (*file.File, error) {
	f, err := scanFile(r.db.QueryRow(
		ctx,
		InsertFile,
		req.StoredName, req.OriginalName, req.Path, req.Type, req.SizeBytes, int64(req.UploaderID),
	))
	if err != nil {
		return nil, err
	}

	return fromDBModel(f), nil
}

func (r *Repository) DeleteFile(ctx context.Context, id file.ID) (bool, error) {
	tag, err := r.db.Exec(ctx, DeleteFileByID, int64(id))
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func scanFile(row pgx.Row) (*File, error) {
	f := new(File)
	if err := row.Scan(
		&f.ID,
		&f.Filename,
		&f.OriginalFilename,
		&f.FilePath,
		&f.FileType,
		&f.FileSize,
		&f.UploaderID,
		&f.UploaderName,
		&f.UploadedAt,
	); err != nil {
		return nil, err
	}

	return f, nil
}
