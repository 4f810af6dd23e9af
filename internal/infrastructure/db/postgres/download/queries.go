package download

const (
	tokenColumns = `id, token, file_id, user_id, is_used, created_at, expiration`

	InsertToken = `
		INSERT INTO download_tokens (token, file_id, user_id, expiration)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + tokenColumns
	// the row lock makes a concurrent redeemer wait; once the winner commits
	// the re-checked is_used predicate no longer matches for the loser.
	SelectUnusedTokenForUpdate = `
		SELECT ` + tokenColumns + `
		FROM download_tokens
		WHERE token = $1 AND is_used = FALSE
		FOR UPDATE
	`
	MarkTokenUsed = `
		UPDATE download_tokens
		SET is_used = TRUE
		WHERE id = $1 AND is_used = FALSE
	`
	DeleteTokensExpiredBefore = `DELETE FROM download_tokens WHERE expiration < $1`
)
