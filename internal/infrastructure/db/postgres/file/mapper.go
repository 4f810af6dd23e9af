package file

import (
	domain "file-exchange-api/internal/domain/file"
	"file-exchange-api/internal/domain/user"
)

func fromDBModel(model *File) *domain.File {
	var f = &domain.File{
		ID:           domain.ID(model.ID),
		StoredName:   model.Filename,
		OriginalName: model.OriginalFilename,
		Path:         model.FilePath,
		Type:         model.FileType,
		SizeBytes:    model.FileSize,
		UploaderID:   user.ID(model.UploaderID),
		UploaderName: model.UploaderName,

		UploadedAt: model.UploadedAt,
	}

	return f
}

func fromDBModels(models *Files) domain.Files {
	fs := make(domain.Files, len(*models))
	for idx, f := range *models {
		fs[idx] = fromDBModel(f)
	}

	return fs
}
