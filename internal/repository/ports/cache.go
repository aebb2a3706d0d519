package ports

import (
	"context"
	"time"
)

// Cache stores JSON-encodable values. Get reports false on a miss or an
// expired entry. A ttl <= 0 means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
