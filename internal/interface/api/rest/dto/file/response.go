package file

type (
	File struct {
		ID         int64  `json:"id"`
		Filename   string `json:"filename"`
		FileType   string `json:"file_type"`
		FileSize   int64  `json:"file_size"`
		Uploader   string `json:"uploader"`
		UploadedAt string `json:"uploaded_at"`
	}
	Files []File

	ListResponse struct {
		Files Files `json:"files"`
	}
	DetailResponse struct {
		File File `json:"file"`
	}
	UploadResponse struct {
		Message string `json:"message"`
		File    File   `json:"file"`
	}
	LinkResponse struct {
		DownloadLink string `json:"download-link"`
		Message      string `json:"message"`
	}
)
