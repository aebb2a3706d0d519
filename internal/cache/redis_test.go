package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisWithClient(client), srv
}

func TestRedisRoundTripAndExpiry(t *testing.T) {
	c, srv := newTestRedis(t)
	ctx := context.Background()

	if err := c.Set(ctx, "cities:active", entryValue{Name: "Berlin"}, time.Minute); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if !srv.Exists("dogatlas:cities:active") {
		t.Fatalf("expected key to be namespaced")
	}

	var got entryValue
	hit, err := c.Get(ctx, "cities:active", &got)
	if err != nil || !hit || got.Name != "Berlin" {
		t.Fatalf("expected hit with Berlin, got hit=%v value=%v err=%v", hit, got, err)
	}

	srv.FastForward(2 * time.Minute)
	hit, err = c.Get(ctx, "cities:active", &got)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if hit {
		t.Fatalf("expected entry to expire")
	}
}

func TestRedisDelete(t *testing.T) {
	c, _ := newTestRedis(t)
	ctx := context.Background()
	_ = c.Set(ctx, "k", entryValue{Name: "a"}, 0)
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	var got entryValue
	if hit, _ := c.Get(ctx, "k", &got); hit {
		t.Fatalf("expected miss after delete")
	}
}

func TestRedisPropagatesConnectionErrors(t *testing.T) {
	c, srv := newTestRedis(t)
	srv.Close()
	var got entryValue
	if _, err := c.Get(context.Background(), "k", &got); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}
