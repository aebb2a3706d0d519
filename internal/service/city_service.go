package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/repository/ports"
)

const activeCitiesCacheKey = "cities:active"

// CityService serves the active city list through a cache. Writers that
// create cities call InvalidateCities after their transaction commits.
type CityService struct {
	repo   ports.CityRepository
	cache  ports.Cache
	ttl    time.Duration
	logger zerolog.Logger
}

func NewCityService(repo ports.CityRepository, cache ports.Cache, ttl time.Duration, logger zerolog.Logger) *CityService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CityService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

func (s *CityService) ListActive(ctx context.Context) ([]domain.City, error) {
	if s.cache != nil {
		var cached []domain.City
		hit, err := s.cache.Get(ctx, activeCitiesCacheKey, &cached)
		if err != nil {
			s.logger.Warn().Err(err).Msg("city cache read failed")
		} else if hit {
			return cached, nil
		}
	}

	cities, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if cities == nil {
		cities = []domain.City{}
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, activeCitiesCacheKey, cities, s.ttl); err != nil {
			s.logger.Warn().Err(err).Msg("city cache write failed")
		}
	}
	return cities, nil
}

func (s *CityService) FindBySlug(ctx context.Context, slug string) (*domain.City, error) {
	return s.repo.FindBySlug(ctx, slug)
}

func (s *CityService) InvalidateCities(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, activeCitiesCacheKey)
}
