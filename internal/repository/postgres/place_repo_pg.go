package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/repository/ports"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/util"
)

type PlaceRepository struct {
	db *sqlx.DB
}

func NewPlaceRepo(db *sqlx.DB) *PlaceRepository {
	return &PlaceRepository{db: db}
}

// ListNear orders by the equirectangular distance to the origin, which is
// exact enough at bounding box scale and keeps the nearest rows when the
// limit cuts a dense area.
func (r *PlaceRepository) ListNear(ctx context.Context, lat, lng, radiusMeters float64, limit int) ([]domain.Place, error) {
	if limit <= 0 {
		limit = 200
	}
	minLat, maxLat, minLng, maxLng := util.BoundingBox(lat, lng, radiusMeters)
	query := `
		SELECT ` + placeColumns + `
		FROM place
		WHERE latitude BETWEEN $1 AND $2
		  AND longitude BETWEEN $3 AND $4
		ORDER BY power(latitude - $5, 2) + power((longitude - $6) * cos(radians($5)), 2) ASC, id ASC
		LIMIT $7
	`
	var rows []placeRow
	if err := r.db.SelectContext(ctx, &rows, query, minLat, maxLat, minLng, maxLng, lat, lng, limit); err != nil {
		return nil, err
	}
	return placesFromRows(rows), nil
}

func (r *PlaceRepository) ListByCitySlug(ctx context.Context, citySlug string) ([]domain.Place, error) {
	const query = `
		SELECT p.id, p.city_id, p.slug, p.name, p.type, p.city, p.region, p.country,
		       p.latitude, p.longitude, p.short_description, p.full_description,
		       p.image_url, p.gallery_urls, p.dog_friendly_level, p.amenities, p.rules,
		       p.website_url, p.contact_phone, p.contact_email, p.price_range,
		       p.opening_hours, p.rating, p.tags, p.created_at, p.updated_at
		FROM place p
		JOIN city c ON c.id = p.city_id
		WHERE c.slug = $1
		ORDER BY p.name ASC, p.id ASC
	`
	var rows []placeRow
	if err := r.db.SelectContext(ctx, &rows, query, citySlug); err != nil {
		return nil, err
	}
	return placesFromRows(rows), nil
}

var _ ports.PlaceRepository = (*PlaceRepository)(nil)
