package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/observability"
)

type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(addr, password string, db int) *Redis {
	return NewRedisWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}))
}

func NewRedisWithClient(client *redis.Client) *Redis {
	return &Redis{client: client, prefix: "dogatlas:"}
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveCache("redis", "hit")
	return true, json.Unmarshal(data, dst)
}

func (r *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}
	observability.ObserveCache("redis", "set")
	return r.client.Set(ctx, r.prefix+key, data, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	observability.ObserveCache("redis", "del")
	return r.client.Del(ctx, r.prefix+key).Err()
}
