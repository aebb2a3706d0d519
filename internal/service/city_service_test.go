package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/cache"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
)

type brokenCache struct{}

func (brokenCache) Get(context.Context, string, any) (bool, error) {
	return false, errors.New("redis: connection refused")
}
func (brokenCache) Set(context.Context, string, any, time.Duration) error {
	return errors.New("redis: connection refused")
}
func (brokenCache) Delete(context.Context, string) error {
	return errors.New("redis: connection refused")
}

func TestCityService_ListActiveCaches(t *testing.T) {
	repo := &stubCityRepo{cities: []domain.City{{ID: uuid.New(), Name: "Berlin", Country: "Germany", Slug: "berlin", Active: true}}}
	svc := NewCityService(repo, cache.NewMemory(), time.Minute, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		cities, err := svc.ListActive(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cities) != 1 || cities[0].Slug != "berlin" {
			t.Fatalf("unexpected cities %+v", cities)
		}
	}
	if repo.calls != 1 {
		t.Fatalf("expected one repository call, got %d", repo.calls)
	}

	repo.cities = append(repo.cities, domain.City{ID: uuid.New(), Name: "Vancouver", Country: "Canada", Slug: "vancouver", Active: true})
	if err := svc.InvalidateCities(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	cities, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cities) != 2 || repo.calls != 2 {
		t.Fatalf("expected reload after invalidation, got %d cities after %d calls", len(cities), repo.calls)
	}
}

func TestCityService_CacheFailuresFallBackToRepository(t *testing.T) {
	repo := &stubCityRepo{}
	svc := NewCityService(repo, brokenCache{}, time.Minute, zerolog.Nop())

	cities, err := svc.ListActive(context.Background())
	if err != nil {
		t.Fatalf("cache errors must not fail the request: %v", err)
	}
	if cities == nil || len(cities) != 0 {
		t.Fatalf("expected empty list, got %v", cities)
	}

	repo.err = errors.New("db down")
	if _, err := svc.ListActive(context.Background()); err == nil {
		t.Fatalf("expected repository error")
	}
}

func TestCityService_WithoutCache(t *testing.T) {
	repo := &stubCityRepo{cities: []domain.City{{Slug: "berlin"}}}
	svc := NewCityService(repo, nil, 0, zerolog.Nop())
	if _, err := svc.ListActive(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.ListActive(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.calls != 2 {
		t.Fatalf("expected every call to hit the repository, got %d", repo.calls)
	}
	if err := svc.InvalidateCities(context.Background()); err != nil {
		t.Fatalf("invalidate without cache: %v", err)
	}
}
