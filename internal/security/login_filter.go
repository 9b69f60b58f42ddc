package security

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"grinder-web-server/config"
	"grinder-web-server/internal/model"
	"grinder-web-server/internal/model/requestresponse"
	"grinder-web-server/internal/ports"
	"grinder-web-server/internal/util"
)

const RefreshCookieName = "refresh"

// LoginFilter godoc
// @Summary Аутентификация пользователя
// @Description Выдает пару токенов по email и паролю: access в заголовке Authorization, refresh в httpOnly куке
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LoginRequest true "Тело запроса"
// @Success 200 {object} requestresponse.TokenResponse "Успешная аутентификация"
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или пустые поля"
// @Failure 401 {object} requestresponse.ErrorResponse "Неверный логин или пароль"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/login [post]
func LoginFilter(cfg *config.AuthConfig, cookieCfg *config.CookieConfig, authService ports.AuthenticationService) Filter {
	return Filter{
		Name: "login",
		Matches: func(r *http.Request) bool {
			return r.URL.Path == cfg.LoginPath && r.Method == http.MethodPost
		},
		Serve: func(w http.ResponseWriter, r *http.Request, _ http.Handler) {
			w.Header().Set("Content-Type", "application/json")

			var req requestresponse.LoginRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
				return
			}
			if req.Email == "" || req.Password == "" {
				util.HandleError(w, "email и password обязательны", http.StatusBadRequest)
				return
			}

			tokens, err := authService.Login(r.Context(), req.Email, req.Password)
			if err != nil {
				log.Println(err)
				switch {
				case errors.Is(err, ErrInvalidCredentials):
					util.HandleError(w, "неверный логин или пароль", http.StatusUnauthorized)
				default:
					util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
				}
				return
			}

			sendTokens(w, tokens, cookieCfg)
		},
	}
}

// sendTokens отправляет готовую пару: access в заголовок, refresh в httpOnly куку
func sendTokens(w http.ResponseWriter, tokens *model.TokensPair, cookieCfg *config.CookieConfig) {
	w.Header().Set("Authorization", "Bearer "+tokens.AccessToken)
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    tokens.RefreshToken,
		MaxAge:   cookieCfg.MaxAge,
		Path:     cookieCfg.Path,
		Secure:   cookieCfg.Secure,
		HttpOnly: true,
	})

	resp := requestresponse.TokenResponse{}
	resp.Response.AccessToken = tokens.AccessToken
	resp.Response.RefreshToken = tokens.RefreshToken

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Println("ошибка кодирования ответа:", err)
	}
}

// readRefreshCookie достает refresh-куку; пустой набор кук — такая же ошибка
func readRefreshCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(RefreshCookieName)
	if err != nil {
		return "", http.ErrNoCookie
	}
	if cookie.Value == "" {
		return "", http.ErrNoCookie
	}
	return cookie.Value, nil
}
