package file

import (
	"path/filepath"
	"strings"
	"time"

	"file-exchange-api/internal/domain/user"
)

type (
	ID   int64
	File struct {
		ID           ID
		StoredName   string
		OriginalName string
		Path         string
		Type         string
		SizeBytes    int64
		UploaderID   user.ID
		UploaderName string

		UploadedAt time.Time
	}
	Files []*File
)

var allowedTypes = map[string]string{
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// TypeOf returns the lowercase extension of name without the dot and whether
// it is on the upload allow-list.
func TypeOf(name string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return "", false
	}
	_, ok := allowedTypes[ext]
	return ext, ok
}

// ContentType is the MIME type served for f.
func (f File) ContentType() string {
	if ct, ok := allowedTypes[f.Type]; ok {
		return ct
	}
	return "application/octet-stream"
}
