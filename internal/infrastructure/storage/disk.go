package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

type Disk struct {
	logger *zap.Logger
	root   string
}

func NewDisk(logger *zap.Logger, root string) (*Disk, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	logger.Info("disk storage ready", zap.String("root", root))

	return &Disk{logger: logger, root: root}, nil
}

// Locate returns the on-disk path of key.
func (d *Disk) Locate(key string) string { return filepath.Join(d.root, key) }

// Save refuses to overwrite an existing object and removes partial writes.
func (d *Disk) Save(ctx context.Context, key string, r io.Reader, _ int64) (int64, error) {
	if err := validateKey(key); err != nil {
		return 0, err
	}

	path := filepath.Join(d.root, key)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", key, err)
	}

	n, err := io.Copy(f, readerWithContext(ctx, r))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rerr := os.Remove(path); rerr != nil {
			d.logger.Error("remove partial upload", zap.String("key", key), zap.Error(rerr))
		}
		return 0, fmt.Errorf("write %s: %w", key, err)
	}

	return n, nil
}

func (d *Disk) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(d.root, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return f, nil
}

func (d *Disk) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(d.root, key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}

	return nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
