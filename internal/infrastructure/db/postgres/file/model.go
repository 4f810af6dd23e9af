package file

import (
	"time"
)

type (
	File struct {
		ID               int64
		Filename         string
		OriginalFilename string
		FilePath         string
		FileType         string
		FileSize         int64
		UploaderID       int64
		UploaderName     string

		UploadedAt time.Time
	}
	Files []*File
)
