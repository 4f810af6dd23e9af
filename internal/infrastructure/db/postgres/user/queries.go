package user

const (
	userColumns = `id, username, email, password_hash, role, is_verified, verification_token, created_at`

	SelectUserByID = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
	SelectUserByUsername = `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1
	`
	SelectUserByEmail = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`
	InsertUser = `
		INSERT INTO users (username, email, password_hash, role, is_verified, verification_token)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns
	VerifyUserByToken = `
		UPDATE users
		SET is_verified = TRUE,
		    verification_token = NULL
		WHERE verification_token = $1
		RETURNING ` + userColumns
)

const (
	constraintUsername = "users_username_key"
	constraintEmail    = "users_email_key"
)
