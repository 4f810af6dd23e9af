package session

const (
	InsertSession = `
		INSERT INTO sessions (id, user_id, role, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	SelectSessionByID = `
		SELECT id, user_id, role, created_at, expires_at
		FROM sessions
		WHERE id = $1
	`
	DeleteSessionByID     = `DELETE FROM sessions WHERE id = $1`
	DeleteExpiredSessions = `DELETE FROM sessions WHERE expires_at <= $1`
)
