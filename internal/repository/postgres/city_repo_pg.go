package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/repository/ports"
)

type CityRepository struct {
	db *sqlx.DB
}

func NewCityRepo(db *sqlx.DB) *CityRepository {
	return &CityRepository{db: db}
}

func (r *CityRepository) ListActive(ctx context.Context) ([]domain.City, error) {
	const query = `
		SELECT id, name, country, slug, latitude, longitude, active, created_at, updated_at
		FROM city
		WHERE active
		ORDER BY name ASC
	`
	var cities []domain.City
	if err := r.db.SelectContext(ctx, &cities, query); err != nil {
		return nil, err
	}
	return cities, nil
}

func (r *CityRepository) FindBySlug(ctx context.Context, slug string) (*domain.City, error) {
	const query = `
		SELECT id, name, country, slug, latitude, longitude, active, created_at, updated_at
		FROM city
		WHERE slug = $1
	`
	var city domain.City
	if err := r.db.GetContext(ctx, &city, query, slug); err != nil {
		return nil, err
	}
	return &city, nil
}

var _ ports.CityRepository = (*CityRepository)(nil)
