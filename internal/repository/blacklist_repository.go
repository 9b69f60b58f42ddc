package repository

import (
	"context"
	"fmt"
	"time"

	"grinder-web-server/config"
	"grinder-web-server/internal/util"
)

// BlacklistRepository : Redis-слой с отозванными access токенами.
// Записи исчезают сами по истечении TTL, явного удаления нет
type BlacklistRepository struct {
	client *config.RedisClient
}

func NewBlacklistRepository(rdb *config.RedisClient) *BlacklistRepository {
	return &BlacklistRepository{rdb}
}

// Add помещает access токен в блэклист на время ttl.
// Повторное добавление просто переписывает запись
func (r *BlacklistRepository) Add(ctx context.Context, accessToken string, ttl time.Duration) error {
	cmd := r.client.Client.Set(ctx, r.key(accessToken), "accessToken", ttl)
	if err := cmd.Err(); err != nil {
		return util.LogError("ошибка сохранения в Redis", err)
	}
	if cmd.Val() != "OK" {
		return fmt.Errorf("неожиданный ответ Redis: %s", cmd.Val())
	}

	return nil
}

// Contains проверяет, отозван ли access токен
func (r *BlacklistRepository) Contains(ctx context.Context, accessToken string) (bool, error) {
	count, err := r.client.Client.Exists(ctx, r.key(accessToken)).Result()
	if err != nil {
		return false, util.LogError("ошибка чтения из Redis", err)
	}
	return count > 0, nil
}

func (r *BlacklistRepository) key(token string) string {
	return fmt.Sprintf("blacklist:%s", token)
}
