package services

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"file-exchange-api/internal/apperr"
	"file-exchange-api/internal/application/ports"
	"file-exchange-api/internal/domain/file"
	"file-exchange-api/internal/domain/user"
	"file-exchange-api/internal/infrastructure/metrics"
	"file-exchange-api/internal/infrastructure/mq"
	"file-exchange-api/internal/infrastructure/storage"
)

const (
	maxBaseNameLen     = 100
	maxOriginalNameLen = 255
)

var windowsReserved = map[string]struct{}{
	"con": {}, "prn": {}, "aux": {}, "nul": {},
	"com1": {}, "com2": {}, "com3": {}, "com4": {}, "com5": {}, "com6": {}, "com7": {}, "com8": {}, "com9": {},
	"lpt1": {}, "lpt2": {}, "lpt3": {}, "lpt4": {}, "lpt5": {}, "lpt6": {}, "lpt7": {}, "lpt8": {}, "lpt9": {},
}

type fileEvent struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`
}

func toFileEvent(f *file.File) fileEvent {
	return fileEvent{ID: int64(f.ID), Filename: f.OriginalName, FileType: f.Type, FileSize: f.SizeBytes}
}

type FileService struct {
	logger         *zap.Logger
	blobs          ports.BlobStorage
	fileRepository file.Repository
	events         ports.EventPublisher
	mCounter       *prometheus.CounterVec
	newKey         func(ext string) string
}

func NewFileService(
	logger *zap.Logger,
	blobs ports.BlobStorage,
	fileRepository file.Repository,
	events ports.EventPublisher,
	mCounter *prometheus.CounterVec,
) ports.FileService {
	return &FileService{
		logger:         logger,
		blobs:          blobs,
		fileRepository: fileRepository,
		events:         events,
		mCounter:       mCounter,
		newKey:         storedName,
	}
}

func (fs *FileService) ListFiles(ctx context.Context) (file.Files, error) {
	return fs.fileRepository.FetchFiles(ctx)
}

func (fs *FileService) FindFile(ctx context.Context, id file.ID) (*file.File, error) {
	f, err := fs.fileRepository.FetchFileByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrFileNotFound
	}
	return f, nil
}

// SaveFile writes bytes before metadata and removes the bytes again when
// the insert fails.
func (fs *FileService) SaveFile(
	ctx context.Context,
	uploaderID user.ID,
	originalName string,
	size int64,
	r io.Reader,
) (*file.File, error) {
	ext, ok := file.TypeOf(originalName)
	if !ok {
		fs.mCounter.WithLabelValues(metrics.UploadFailed).Inc()
		return nil, ErrUnsupportedFileType
	}

	key := fs.newKey(ext)
	written, err := fs.blobs.Save(ctx, key, r, size)
	if err != nil {
		fs.mCounter.WithLabelValues(metrics.UploadFailed).Inc()
		return nil, apperr.Storage(err, "Error saving file")
	}

	f, err := fs.fileRepository.CreateFile(ctx, file.File{
		StoredName:   key,
		OriginalName: displayName(originalName),
		Path:         fs.blobs.Locate(key),
		Type:         ext,
		SizeBytes:    written,
		UploaderID:   uploaderID,
	})
	if err != nil {
		if derr := fs.blobs.Delete(context.WithoutCancel(ctx), key); derr != nil {
			fs.logger.Error("remove orphaned upload", zap.String("key", key), zap.Error(derr))
		}
		fs.mCounter.WithLabelValues(metrics.UploadFailed).Inc()
		return nil, apperr.Storage(err, "Error saving file")
	}

	fs.mCounter.WithLabelValues(metrics.UploadOK).Inc()
	publish(ctx, fs.logger, fs.events, fs.mCounter, mq.EventFileUploaded, int64(uploaderID), toFileEvent(f))

	return f, nil
}

// DeleteFile removes bytes then metadata. Bytes that are already gone do
// not block removing the row.
func (fs *FileService) DeleteFile(ctx context.Context, actorID user.ID, id file.ID) error {
	f, err := fs.FindFile(ctx, id)
	if err != nil {
		return err
	}

	if err = fs.blobs.Delete(ctx, f.StoredName); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return apperr.Storage(err, "Error deleting file")
		}
		fs.logger.Warn("file bytes already absent", zap.Int64("file_id", int64(f.ID)), zap.String("key", f.StoredName))
	}

	deleted, err := fs.fileRepository.DeleteFile(ctx, id)
	if err != nil {
		return apperr.Storage(err, "Error deleting file")
	}
	if !deleted {
		return ErrFileNotFound
	}

	fs.mCounter.WithLabelValues(metrics.DeleteOK).Inc()
	publish(ctx, fs.logger, fs.events, fs.mCounter, mq.EventFileDeleted, int64(actorID), toFileEvent(f))

	return nil
}

func (fs *FileService) OpenFile(ctx context.Context, f file.File) (io.ReadCloser, error) {
	rc, err := fs.blobs.Open(ctx, f.StoredName)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrFileMissingOnDisk
		}
		return nil, apperr.Storage(err, "Error reading file")
	}
	return rc, nil
}

// storedName is independent of the client filename except for ext.
func storedName(ext string) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + "." + ext
}

// displayName keeps the client's name for display but drops any directory
// part and control characters.
func displayName(original string) string {
	s := strings.ReplaceAll(strings.TrimSpace(original), "\\", "/")
	s = path.Base(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)

	for utf8.RuneCountInString(s) > maxOriginalNameLen {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
	}

	return s
}

// SafeFileName makes a file name ASCII so it can be used as the plain
// filename parameter of Content-Disposition.
func SafeFileName(original string) string {
	if original == "" {
		return "file"
	}

	s := strings.TrimSpace(original)
	s = strings.ReplaceAll(s, "\\", "/")
	s = path.Base(s)

	if s == "." || s == ".." || s == "" {
		return "file"
	}

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	s, _, _ = transform.String(t, s)

	ext := strings.ToLower(path.Ext(s))
	base := strings.TrimSuffix(s, ext)

	//  [a-z0-9], '-' and '_', dot/space → '-'
	var b strings.Builder
	b.Grow(len(base))
	prevDash := false
	for _, r := range base {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			prevDash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
			prevDash = false
		case r == '-' || r == '_' || r == '.' || unicode.IsSpace(r):
			if !prevDash {
				b.WriteRune('-')
				prevDash = true
			}
		default:
		}
	}
	base = strings.Trim(b.String(), "-")

	if base == "" {
		base = "file"
	}
	if _, bad := windowsReserved[base]; bad {
		base = "_" + base
	}

	for len(base)+len(ext) > maxBaseNameLen && len(base) > 1 {
		base = base[:len(base)-1]
	}

	return base + ext
}

func isMn(r rune) bool { return unicode.Is(unicode.Mn, r) }
