package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"grinder-web-server/config"
	"grinder-web-server/internal/util"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	MemberContextKey contextKey = "member"
)

// JWTService кодирует и проверяет подписанные токены.
// Секретный ключ загружается один раз при старте и больше не меняется
type JWTService struct {
	secretKey         []byte
	accessTokenTTL    time.Duration
	refreshTokenTTL   time.Duration
	rotationThreshold time.Duration
}

func NewJWTService(cfg *config.JWTConfig) (*JWTService, error) {
	accessTTL, err := time.ParseDuration(cfg.AccessTokenTTL)
	if err != nil {
		return nil, util.LogError("ошибка парсинга access_token_ttl", err)
	}
	refreshTTL, err := time.ParseDuration(cfg.RefreshTokenTTL)
	if err != nil {
		return nil, util.LogError("ошибка парсинга refresh_token_ttl", err)
	}
	threshold, err := time.ParseDuration(cfg.RotationThreshold)
	if err != nil {
		return nil, util.LogError("ошибка парсинга rotation_threshold", err)
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("secret_key не задан")
	}

	return &JWTService{
		secretKey:         []byte(cfg.SecretKey),
		accessTokenTTL:    accessTTL,
		refreshTokenTTL:   refreshTTL,
		rotationThreshold: threshold,
	}, nil
}

func (service *JWTService) RefreshTokenTTL() time.Duration {
	return service.refreshTokenTTL
}

func (service *JWTService) RotationThreshold() time.Duration {
	return service.rotationThreshold
}

// GenerateToken проставляет iat/exp и подписывает claims секретом процесса
func (service *JWTService) GenerateToken(claims map[string]any, validity time.Duration) (string, error) {
	now := time.Now()

	mapClaims := jwt.MapClaims{}
	for key, value := range claims {
		mapClaims[key] = value
	}
	mapClaims["iat"] = jwt.NewNumericDate(now)
	mapClaims["exp"] = jwt.NewNumericDate(now.Add(validity))

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, mapClaims)
	signed, err := jwtToken.SignedString(service.secretKey)
	if err != nil {
		return "", util.LogError("ошибка подписи токена", err)
	}

	return signed, nil
}

func (service *JWTService) GenerateAccessToken(email string) (string, error) {
	return service.GenerateToken(PrincipalClaims(email), service.accessTokenTTL)
}

func (service *JWTService) GenerateRefreshToken(email string) (string, error) {
	return service.GenerateToken(PrincipalClaims(email), service.refreshTokenTTL)
}

// ValidateToken проверяет подпись и срок жизни токена.
// Возвращает ErrExpiredToken для просроченного и ErrMalformedToken
// для токена с чужой подписью или сломанной структурой
func (service *JWTService) ValidateToken(jwtTokenStr string) (map[string]any, error) {
	claims := jwt.MapClaims{}

	jwtToken, err := jwt.ParseWithClaims(jwtTokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return service.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrMalformedToken
	}
	if !jwtToken.Valid {
		return nil, ErrMalformedToken
	}

	return claims, nil
}

// ExtractEmail читает идентификатор принципала без проверки подписи.
// Доверять результату можно только после ValidateToken
func (service *JWTService) ExtractEmail(jwtTokenStr string) (string, error) {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(jwtTokenStr, claims)
	if err != nil {
		return "", ErrMalformedToken
	}
	return EmailFromClaims(claims)
}

// TokenRemaining возвращает остаток жизни токена по его exp, без проверки подписи
func (service *JWTService) TokenRemaining(jwtTokenStr string) (time.Duration, error) {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(jwtTokenStr, claims)
	if err != nil {
		return 0, ErrMalformedToken
	}
	expireAt, err := ExpirationFromClaims(claims)
	if err != nil {
		return 0, err
	}
	return time.Until(expireAt), nil
}

// PrincipalClaims : идентификатор принципала вложен в claim "mid"
func PrincipalClaims(email string) map[string]any {
	return map[string]any{
		"mid": map[string]any{
			"email": email,
		},
	}
}

func EmailFromClaims(claims map[string]any) (string, error) {
	mid, ok := claims["mid"].(map[string]any)
	if !ok {
		return "", ErrMalformedToken
	}
	email, ok := mid["email"].(string)
	if !ok || email == "" {
		return "", ErrMalformedToken
	}
	return email, nil
}

func ExpirationFromClaims(claims map[string]any) (time.Time, error) {
	expireAt, err := jwt.MapClaims(claims).GetExpirationTime()
	if err != nil || expireAt == nil {
		return time.Time{}, ErrMalformedToken
	}
	return expireAt.Time, nil
}

// MemberFromContext возвращает email принципала, положенный туда фильтром TokenCheck
func MemberFromContext(ctx context.Context) (string, error) {
	email, ok := ctx.Value(MemberContextKey).(string)
	if !ok || email == "" {
		return "", fmt.Errorf("пользователь не авторизован")
	}
	return email, nil
}
