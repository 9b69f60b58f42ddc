package ports

import (
	"context"
	"time"

	"grinder-web-server/internal/model"
)

type JWTServiceInterface interface {
	GenerateAccessToken(email string) (string, error)
	GenerateRefreshToken(email string) (string, error)
	ValidateToken(tokenStr string) (map[string]any, error)
	ExtractEmail(tokenStr string) (string, error)
	TokenRemaining(tokenStr string) (time.Duration, error)
	RefreshTokenTTL() time.Duration
	RotationThreshold() time.Duration
}

type RefreshTokenRepositoryInterface interface {
	Save(ctx context.Context, token *model.RefreshToken) error
	Exists(ctx context.Context, token string) (bool, error)
	DeleteByToken(ctx context.Context, token string) (bool, error)
	Rotate(ctx context.Context, oldToken string, newToken *model.RefreshToken) (bool, error)
}
