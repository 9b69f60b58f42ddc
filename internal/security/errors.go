package security

import (
	"encoding/json"
	"errors"
	"net/http"

	"grinder-web-server/internal/model/requestresponse"
)

var (
	ErrInvalidCredentials = errors.New("неверный логин или пароль")
	ErrNoAccessToken      = errors.New("отсутствует access токен")
	ErrMalformedToken     = errors.New("невалидный токен")
	ErrExpiredToken       = errors.New("токен просрочен")
	ErrRevokedToken       = errors.New("токен отозван")
)

// ErrorCase — машиночитаемые коды ошибок refresh/logout, уходят клиенту как есть
type ErrorCase string

const (
	NoRefresh  ErrorCase = "NO_REFRESH"
	OldRefresh ErrorCase = "OLD_REFRESH"
	BadAccess  ErrorCase = "BAD_ACCESS"
)

// RefreshTokenError — единственный тип ошибки, пересекающий границу
// запрос/ответ в потоках refresh и logout
type RefreshTokenError struct {
	Case ErrorCase
}

func NewRefreshTokenError(errorCase ErrorCase) *RefreshTokenError {
	return &RefreshTokenError{Case: errorCase}
}

func (e *RefreshTokenError) Error() string {
	return string(e.Case)
}

func (e *RefreshTokenError) StatusCode() int {
	if e.Case == BadAccess {
		return http.StatusBadRequest
	}
	return http.StatusUnauthorized
}

// SendResponseError пишет {errorCase} со статусом, соответствующим коду ошибки
func (e *RefreshTokenError) SendResponseError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode())
	json.NewEncoder(w).Encode(requestresponse.RefreshErrorResponse{
		ErrorCase: string(e.Case),
	})
}
