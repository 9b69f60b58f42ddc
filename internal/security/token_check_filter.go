package security

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"grinder-web-server/config"
	"grinder-web-server/internal/ports"
	"grinder-web-server/internal/util"
)

// TokenCheckFilter — сторож защищенных маршрутов. Проверяет bearer-токен,
// блэклист и подпись, кладет email принципала в контекст и пропускает запрос
// дальше. Сам токенов не выдает и не меняет.
// Login и refresh исключены, иначе до них не дойти без валидного access
// токена; logout проверяет свои учетные данные сам
func TokenCheckFilter(cfg *config.AuthConfig, jwtService ports.JWTServiceInterface, blacklist ports.BlacklistRepository) Filter {
	return Filter{
		Name: "tokenCheck",
		Matches: func(r *http.Request) bool {
			path := r.URL.Path
			if !strings.HasPrefix(path, "/api/") {
				return false
			}
			return path != cfg.LoginPath && path != cfg.RefreshPath && path != cfg.LogoutPath
		},
		Serve: func(w http.ResponseWriter, r *http.Request, next http.Handler) {
			authorizationHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authorizationHeader, "Bearer ") {
				util.HandleError(w, ErrNoAccessToken.Error(), http.StatusUnauthorized)
				return
			}
			token := strings.TrimPrefix(authorizationHeader, "Bearer ")

			revoked, err := blacklist.Contains(r.Context(), token)
			if err != nil {
				util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
				return
			}
			if revoked {
				log.Printf("токен находится в блэклисте")
				util.HandleError(w, ErrRevokedToken.Error(), http.StatusUnauthorized)
				return
			}

			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				log.Printf("невалидный токен: %v", err)
				switch {
				case errors.Is(err, ErrExpiredToken):
					util.HandleError(w, ErrExpiredToken.Error(), http.StatusUnauthorized)
				default:
					util.HandleError(w, ErrMalformedToken.Error(), http.StatusUnauthorized)
				}
				return
			}

			email, err := EmailFromClaims(claims)
			if err != nil {
				util.HandleError(w, ErrMalformedToken.Error(), http.StatusUnauthorized)
				return
			}

			req := r.WithContext(context.WithValue(r.Context(), MemberContextKey, email))
			next.ServeHTTP(w, req)
		},
	}
}
