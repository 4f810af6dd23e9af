package services

import (
	"file-exchange-api/internal/apperr"
	"file-exchange-api/internal/domain/user"
)

var (
	ErrMissingToken       = apperr.Authentication("Token is missing!")
	ErrInvalidToken       = apperr.Authentication("Invalid token!")
	ErrTokenExpired       = apperr.Authentication("Token has expired!")
	ErrUserNotFound       = apperr.Authentication("User not found!")
	ErrInvalidCredentials = apperr.Authentication("Invalid username or password!")
	ErrEmailNotVerified   = apperr.Authentication("Please verify your email before logging in!")

	ErrPermissionDenied = apperr.Authorization("Permission denied!")

	ErrInvalidVerificationToken = apperr.NotFound("Invalid verification token!")

	ErrUnsupportedFileType = apperr.New(apperr.KindUnsupportedFileType, "File type not allowed")
	ErrFileNotFound        = apperr.NotFound("File not found!")
	ErrFileMissingOnDisk   = apperr.NotFound("File not found on the server!")

	// Every redemption failure is an authentication failure of the link
	// itself, so callers see 401 regardless of the reason.
	ErrInvalidOrUsedToken = apperr.Authentication("Invalid or used download token")
	ErrDownloadExpired    = apperr.Authentication("Download token has expired")
	ErrNotTokenOwner      = apperr.Authentication("You are not authorized to use this download token")
)

// Re-exported so the HTTP layer can match on them without importing the domain.
var (
	ErrUsernameTaken = user.ErrUsernameTaken
	ErrEmailTaken    = user.ErrEmailTaken
)
