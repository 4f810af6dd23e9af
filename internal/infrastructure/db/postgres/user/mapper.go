package user

import (
	"fmt"

	domain "file-exchange-api/internal/domain/user"
)

func fromDBModel(model *User) (*domain.User, error) {
	role, err := domain.ParseRole(model.Role)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", model.ID, err)
	}

	var u = &domain.User{
		ID:                domain.ID(model.ID),
		Username:          model.Username,
		Email:             model.Email,
		PasswordHash:      model.PasswordHash,
		Role:              role,
		IsVerified:        model.IsVerified,
		VerificationToken: model.VerificationToken,

		CreatedAt: model.CreatedAt,
	}

	return u, nil
}
