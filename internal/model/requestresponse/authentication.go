package requestresponse

// LoginRequest : тело запроса на аутентификацию
type LoginRequest struct {
	Email    string `json:"email" example:"user1@grinder.com"`
	Password string `json:"password" example:"P@ssw0rd123"`
}

// TokenResponse : ответ на успешную аутентификацию или обновление токенов
type TokenResponse struct {
	Response struct {
		AccessToken  string `json:"access_token" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
		RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
	} `json:"response"`
}

// CurrentMemberResponse : информация о текущем пользователе
type CurrentMemberResponse struct {
	Response struct {
		Email string `json:"email" example:"user1@grinder.com"`
	} `json:"response"`
}

// ErrorResponse : тело ответа при ошибке аутентификации
type ErrorResponse struct {
	Status  int    `json:"status" example:"401"`
	Message string `json:"message" example:"неверный логин или пароль"`
}

// RefreshErrorResponse : тело ответа при ошибке refresh/logout
type RefreshErrorResponse struct {
	ErrorCase string `json:"errorCase" example:"OLD_REFRESH"`
}

// LogoutResponse : ответ на завершение сессии
type LogoutResponse struct {
	Response struct {
		LoggedOut bool `json:"logged_out" example:"true"`
	} `json:"response"`
}
