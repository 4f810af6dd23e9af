package file

import (
	"file-exchange-api/internal/domain/file"
	"file-exchange-api/internal/interface/api/rest/dto/user"
)

func ToResponseFile(fDomain file.File) File {
	return File{
		ID:         int64(fDomain.ID),
		Filename:   fDomain.OriginalName,
		FileType:   fDomain.Type,
		FileSize:   fDomain.SizeBytes,
		Uploader:   fDomain.UploaderName,
		UploadedAt: fDomain.UploadedAt.UTC().Format(user.TimeLayout),
	}
}

func ToResponseFiles(fsDomain file.Files) Files {
	fs := make(Files, len(fsDomain))
	for idx, f := range fsDomain {
		fs[idx] = ToResponseFile(*f)
	}

	return fs
}
