package security

import (
	"errors"
	"log"
	"net/http"

	"grinder-web-server/config"
	"grinder-web-server/internal/ports"
	"grinder-web-server/internal/util"
)

// RefreshTokenFilter godoc
// @Summary Обновление токенов
// @Description Выдает новый access токен по refresh-куке; сам refresh ротируется, когда его срок подходит к концу
// @Tags Authentication
// @Produce json
// @Success 200 {object} requestresponse.TokenResponse "Новая пара токенов"
// @Failure 401 {object} requestresponse.RefreshErrorResponse "NO_REFRESH или OLD_REFRESH"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/refresh [post]
func RefreshTokenFilter(cfg *config.AuthConfig, cookieCfg *config.CookieConfig, authService ports.AuthenticationService) Filter {
	return Filter{
		Name: "refreshToken",
		Matches: func(r *http.Request) bool {
			return r.URL.Path == cfg.RefreshPath && r.Method == http.MethodPost
		},
		Serve: func(w http.ResponseWriter, r *http.Request, _ http.Handler) {
			w.Header().Set("Content-Type", "application/json")

			refreshToken, err := readRefreshCookie(r)
			if err != nil {
				NewRefreshTokenError(NoRefresh).SendResponseError(w)
				return
			}

			tokens, err := authService.Refresh(r.Context(), refreshToken)
			if err != nil {
				var refreshErr *RefreshTokenError
				if errors.As(err, &refreshErr) {
					refreshErr.SendResponseError(w)
					return
				}
				log.Println(err)
				util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
				return
			}

			sendTokens(w, tokens, cookieCfg)
		},
	}
}
