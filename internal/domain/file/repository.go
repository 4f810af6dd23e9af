package file

import (
	"context"
)

type Repository interface {
	FetchFiles(ctx context.Context) (Files, error)
	// FetchFileByID returns (nil, nil) when the file does not exist.
	FetchFileByID(ctx context.Context, id ID) (*File, error)
	CreateFile(ctx context.Context, req File) (*File, error)
	// DeleteFile reports false when no row was removed.
	DeleteFile(ctx context.Context, id ID) (bool, error)
}
