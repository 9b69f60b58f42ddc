package security

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"grinder-web-server/config"
	"grinder-web-server/internal/model/requestresponse"
	"grinder-web-server/internal/ports"
	"grinder-web-server/internal/util"
)

// AccessHeaderName — заголовок, в котором logout получает access токен
// для помещения в блэклист
const AccessHeaderName = "access"

// LogoutFilter godoc
// @Summary Завершение сессии
// @Description Удаляет refresh-токен из хранилища, помещает access токен в блэклист и обнуляет refresh-куку
// @Tags Authentication
// @Produce json
// @Param access header string true "Access токен (JWT)"
// @Success 200 {object} requestresponse.LogoutResponse
// @Failure 400 {object} requestresponse.RefreshErrorResponse "BAD_ACCESS"
// @Failure 401 {object} requestresponse.RefreshErrorResponse "OLD_REFRESH"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/logout [post]
func LogoutFilter(cfg *config.AuthConfig, cookieCfg *config.CookieConfig, authService ports.AuthenticationService) Filter {
	return Filter{
		Name: "logout",
		// метод должен совпадать точно: другой метод на этом пути — не ошибка,
		// а сквозной проход по цепочке
		Matches: func(r *http.Request) bool {
			return r.URL.Path == cfg.LogoutPath && r.Method == http.MethodPost
		},
		Serve: func(w http.ResponseWriter, r *http.Request, _ http.Handler) {
			w.Header().Set("Content-Type", "application/json")

			refreshToken, err := readRefreshCookie(r)
			if err != nil {
				NewRefreshTokenError(BadAccess).SendResponseError(w)
				return
			}

			accessToken := r.Header.Get(AccessHeaderName)

			if err := authService.Logout(r.Context(), refreshToken, accessToken); err != nil {
				var refreshErr *RefreshTokenError
				if errors.As(err, &refreshErr) {
					refreshErr.SendResponseError(w)
					return
				}
				log.Println(err)
				util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
				return
			}

			// обнуляем refresh-куку на клиенте
			http.SetCookie(w, &http.Cookie{
				Name:     RefreshCookieName,
				Value:    "",
				MaxAge:   -1,
				Path:     cookieCfg.Path,
				Secure:   cookieCfg.Secure,
				HttpOnly: true,
			})

			resp := requestresponse.LogoutResponse{}
			resp.Response.LoggedOut = true

			w.WriteHeader(http.StatusOK)
			if err := json.NewEncoder(w).Encode(resp); err != nil {
				log.Println("ошибка кодирования ответа:", err)
			}
		},
	}
}
