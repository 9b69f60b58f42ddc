package model

import "time"

// RefreshToken : запись хранилища refresh-токенов.
// Ключом служит сама строка токена: наличие записи и есть признак валидности
type RefreshToken struct {
	UUID      string    `db:"uuid"`
	Token     string    `db:"token"`
	Email     string    `db:"email"`
	ExpireAt  time.Time `db:"expire_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TokensPair содержит пару access и refresh токенов
// swagger:model
type TokensPair struct {
	// Access токен (JWT)
	// example: eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9...
	AccessToken string `json:"accessToken"`

	// Refresh токен (JWT, хранится в httpOnly куке)
	// example: eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9...
	RefreshToken string `json:"refreshToken"`
}
