package ports

import (
	"context"
	"time"
)

// BlacklistRepository : Redis слой с отозванными access токенами
type BlacklistRepository interface {
	Add(ctx context.Context, accessToken string, ttl time.Duration) error
	Contains(ctx context.Context, accessToken string) (bool, error)
}
