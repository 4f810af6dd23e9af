package user

import (
	"file-exchange-api/internal/domain/user"
)

const TimeLayout = "2006-01-02 15:04:05"

func ToResponseUser(uDomain user.User) User {
	return User{
		ID:       int64(uDomain.ID),
		Username: uDomain.Username,
		Email:    uDomain.Email,
		Role:     uDomain.Role.String(),
	}
}

func ToProfile(uDomain user.User) Profile {
	return Profile{
		User:       ToResponseUser(uDomain),
		IsVerified: uDomain.IsVerified,
		CreatedAt:  uDomain.CreatedAt.UTC().Format(TimeLayout),
	}
}
