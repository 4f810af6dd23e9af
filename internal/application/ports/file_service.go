package ports

import (
	"context"
	"io"
	"time"

	"file-exchange-api/internal/domain/download"
	"file-exchange-api/internal/domain/file"
	"file-exchange-api/internal/domain/user"
)

type FileService interface {
	ListFiles(ctx context.Context) (file.Files, error)
	FindFile(ctx context.Context, id file.ID) (*file.File, error)
	SaveFile(ctx context.Context, uploaderID user.ID, originalName string, size int64, r io.Reader) (*file.File, error)
	DeleteFile(ctx context.Context, actorID user.ID, id file.ID) error
	OpenFile(ctx context.Context, f file.File) (io.ReadCloser, error)
}

type DownloadService interface {
	IssueLink(ctx context.Context, userID user.ID, fileID file.ID) (*download.Token, error)
	Redeem(ctx context.Context, token string, userID user.ID) (*file.File, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}

// BlobStorage holds file bytes under flat generated keys.
type BlobStorage interface {
	Locate(key string) string
	Save(ctx context.Context, key string, r io.Reader, size int64) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
