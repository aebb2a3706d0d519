package ports

import (
	"context"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
)

type PlaceRepository interface {
	// ListNear returns places inside the bounding box of the circle around
	// (lat, lng), nearest first, at most limit of them.
	ListNear(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]domain.Place, error)
	ListByCitySlug(ctx context.Context, citySlug string) ([]domain.Place, error)
}

type CityRepository interface {
	ListActive(ctx context.Context) ([]domain.City, error)
	FindBySlug(ctx context.Context, slug string) (*domain.City, error)
}
