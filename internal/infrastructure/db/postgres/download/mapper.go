package download

import (
	domain "file-exchange-api/internal/domain/download"
	"file-exchange-api/internal/domain/file"
	"file-exchange-api/internal/domain/user"
)

func fromDBModel(model *Token) *domain.Token {
	var t = &domain.Token{
		ID:       model.ID,
		Token:    model.Token,
		FileID:   file.ID(model.FileID),
		UserID:   user.ID(model.UserID),
		Consumed: model.IsUsed,

		CreatedAt: model.CreatedAt,
		ExpiresAt: model.Expiration,
	}

	return t
}
