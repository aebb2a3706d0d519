package postgres

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
)

const placeColumns = `
	id, city_id, slug, name, type, city, region, country, latitude, longitude,
	short_description, full_description, image_url, gallery_urls, dog_friendly_level,
	amenities, rules, website_url, contact_phone, contact_email, price_range,
	opening_hours, rating, tags, created_at, updated_at`

// placeRow mirrors the place table. Array columns go through pq.StringArray.
type placeRow struct {
	ID               string          `db:"id"`
	CityID           uuid.UUID       `db:"city_id"`
	Slug             string          `db:"slug"`
	Name             string          `db:"name"`
	Type             string          `db:"type"`
	City             string          `db:"city"`
	Region           sql.NullString  `db:"region"`
	Country          string          `db:"country"`
	Latitude         float64         `db:"latitude"`
	Longitude        float64         `db:"longitude"`
	ShortDescription string          `db:"short_description"`
	FullDescription  sql.NullString  `db:"full_description"`
	ImageURL         sql.NullString  `db:"image_url"`
	GalleryURLs      pq.StringArray  `db:"gallery_urls"`
	DogFriendlyLevel sql.NullInt64   `db:"dog_friendly_level"`
	Amenities        pq.StringArray  `db:"amenities"`
	Rules            sql.NullString  `db:"rules"`
	WebsiteURL       sql.NullString  `db:"website_url"`
	Phone            sql.NullString  `db:"contact_phone"`
	Email            sql.NullString  `db:"contact_email"`
	PriceRange       sql.NullString  `db:"price_range"`
	OpeningHours     sql.NullString  `db:"opening_hours"`
	Rating           sql.NullFloat64 `db:"rating"`
	Tags             pq.StringArray  `db:"tags"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

func (r placeRow) toDomain() domain.Place {
	return domain.Place{
		PlaceCandidate: domain.PlaceCandidate{
			ID:               r.ID,
			Name:             r.Name,
			Category:         domain.PlaceCategory(r.Type),
			City:             r.City,
			Region:           stringPtr(r.Region),
			Country:          r.Country,
			Latitude:         r.Latitude,
			Longitude:        r.Longitude,
			ShortDescription: r.ShortDescription,
			FullDescription:  stringPtr(r.FullDescription),
			ImageURL:         stringPtr(r.ImageURL),
			GalleryURLs:      nonNil(r.GalleryURLs),
			DogFriendlyLevel: intPtr(r.DogFriendlyLevel),
			Amenities:        nonNil(r.Amenities),
			Rules:            stringPtr(r.Rules),
			WebsiteURL:       stringPtr(r.WebsiteURL),
			Phone:            stringPtr(r.Phone),
			Email:            stringPtr(r.Email),
			PriceRange:       stringPtr(r.PriceRange),
			OpeningHours:     stringPtr(r.OpeningHours),
			Rating:           floatPtr(r.Rating),
			Tags:             nonNil(r.Tags),
		},
		CityID:    r.CityID,
		Slug:      r.Slug,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// placeArgs returns the positional arguments for every writable column,
// in placeColumns order minus the timestamps.
func placeArgs(p *domain.Place) []any {
	return []any{
		p.ID,
		p.CityID,
		p.Slug,
		p.Name,
		string(p.Category),
		p.City,
		nullString(p.Region),
		p.Country,
		p.Latitude,
		p.Longitude,
		p.ShortDescription,
		nullString(p.FullDescription),
		nullString(p.ImageURL),
		pq.StringArray(nonNil(p.GalleryURLs)),
		nullInt(p.DogFriendlyLevel),
		pq.StringArray(nonNil(p.Amenities)),
		nullString(p.Rules),
		nullString(p.WebsiteURL),
		nullString(p.Phone),
		nullString(p.Email),
		nullString(p.PriceRange),
		nullString(p.OpeningHours),
		nullFloat(p.Rating),
		pq.StringArray(nonNil(p.Tags)),
	}
}

func placesFromRows(rows []placeRow) []domain.Place {
	out := make([]domain.Place, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
