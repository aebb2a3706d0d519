package domain

import (
	"time"

	"github.com/google/uuid"
)

type PlaceCategory string

const (
	PlaceCategoryTrail    PlaceCategory = "trail"
	PlaceCategoryPark     PlaceCategory = "park"
	PlaceCategoryCafe     PlaceCategory = "cafe"
	PlaceCategoryVet      PlaceCategory = "vet"
	PlaceCategoryGrooming PlaceCategory = "grooming"
	PlaceCategoryActivity PlaceCategory = "activity"
	PlaceCategoryBeach    PlaceCategory = "beach"
	PlaceCategoryHotel    PlaceCategory = "hotel"
	PlaceCategoryStore    PlaceCategory = "store"
	PlaceCategoryEvent    PlaceCategory = "event"
)

var PlaceCategoriesOrdered = []PlaceCategory{
	PlaceCategoryTrail,
	PlaceCategoryPark,
	PlaceCategoryCafe,
	PlaceCategoryVet,
	PlaceCategoryGrooming,
	PlaceCategoryActivity,
	PlaceCategoryBeach,
	PlaceCategoryHotel,
	PlaceCategoryStore,
	PlaceCategoryEvent,
}

func (c PlaceCategory) Valid() bool {
	for _, known := range PlaceCategoriesOrdered {
		if c == known {
			return true
		}
	}
	return false
}

// PlaceCandidate is a validated place that has not been bound to a City yet.
// The normalizer only ever returns fully valid candidates.
type PlaceCandidate struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Category         PlaceCategory `json:"type"`
	City             string        `json:"city"`
	Region           *string       `json:"region,omitempty"`
	Country          string        `json:"country"`
	Latitude         float64       `json:"latitude"`
	Longitude        float64       `json:"longitude"`
	ShortDescription string        `json:"short_description"`
	FullDescription  *string       `json:"full_description,omitempty"`
	ImageURL         *string       `json:"image_url,omitempty"`
	GalleryURLs      []string      `json:"gallery_urls"`
	DogFriendlyLevel *int          `json:"dog_friendly_level,omitempty"`
	Amenities        []string      `json:"amenities"`
	Rules            *string       `json:"rules,omitempty"`
	WebsiteURL       *string       `json:"website_url,omitempty"`
	Phone            *string       `json:"contact_phone,omitempty"`
	Email            *string       `json:"contact_email,omitempty"`
	PriceRange       *string       `json:"price_range,omitempty"`
	OpeningHours     *string       `json:"opening_hours,omitempty"`
	Rating           *float64      `json:"rating,omitempty"`
	Tags             []string      `json:"tags"`
}

type Place struct {
	PlaceCandidate
	CityID    uuid.UUID `json:"city_id"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type City struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Country   string    `db:"country" json:"country"`
	Slug      string    `db:"slug" json:"slug"`
	Latitude  *float64  `db:"latitude" json:"latitude,omitempty"`
	Longitude *float64  `db:"longitude" json:"longitude,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PlaceUpsertAction is the outcome of the keyed lookup that precedes every
// place write.
type PlaceUpsertAction string

const (
	PlaceUpsertInsert PlaceUpsertAction = "insert"
	PlaceUpsertUpdate PlaceUpsertAction = "update"
)

// GeoName is the minimal shape the duplicate detector compares.
type GeoName struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func (p Place) GeoName() GeoName {
	lat, lng := p.Latitude, p.Longitude
	return GeoName{Name: p.Name, Latitude: &lat, Longitude: &lng}
}

// PlaceDuplicatePair is a likely duplicate found in one city. Original is
// the entry that sorts first.
type PlaceDuplicatePair struct {
	Original       Place   `json:"original"`
	Duplicate      Place   `json:"duplicate"`
	DistanceMeters float64 `json:"distance_meters"`
}
