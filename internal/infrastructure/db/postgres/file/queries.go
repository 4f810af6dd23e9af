package file

const (
	SelectFiles = `
		SELECT f.id, f.filename, f.original_filename, f.file_path, f.file_type, f.file_size, f.uploader_id, u.username, f.uploaded_at
		FROM files f
		JOIN users u ON u.id = f.uploader_id
		ORDER BY f.uploaded_at DESC, f.id DESC
	`
	SelectFileByID = `
		SELECT f.id, f.filename, f.original_filename, f.file_path, f.file_type, f.file_size, f.uploader_id, u.username, f.uploaded_at
		FROM files f
		JOIN users u ON u.id = f.uploader_id
		WHERE f.id = $1
	`
	InsertFile = `
		WITH inserted AS (
			INSERT INTO files (filename, original_filename, file_path, file_type, file_size, uploader_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, filename, original_filename, file_path, file_type, file_size, uploader_id, uploaded_at
		)
		SELECT i.id, i.filename, i.original_filename, i.file_path, i.file_type, i.file_size, i.uploader_id, u.username, i.uploaded_at
		FROM inserted i
		JOIN users u ON u.id = i.uploader_id
	`
	DeleteFileByID = `DELETE FROM files WHERE id = $1`
)
