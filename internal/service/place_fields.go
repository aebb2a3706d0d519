package service

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/validation"
)

// PlaceImportColumns is the recognized CSV header, in template order.
var PlaceImportColumns = []string{
	"id", "name", "type", "city", "region", "country", "latitude", "longitude",
	"short_description", "full_description", "image_url", "gallery_urls",
	"dog_friendly_level", "amenities", "rules", "website_url", "contact_phone",
	"contact_email", "price_range", "opening_hours", "rating", "tags",
}

// PlaceIDNamespace seeds the UUIDv5 ids derived for rows without an id, so
// the same logical row maps to the same place on every import.
var PlaceIDNamespace = uuid.MustParse("6f1c7a52-3f0e-5b8e-9a57-4d6f0c1b2e93")

// PlaceFields is the raw place input shared by CSV rows and JSON
// submissions. Validation rules live on the tags.
type PlaceFields struct {
	ID               string   `json:"id" validate:"omitempty,max=128"`
	Name             string   `json:"name" validate:"required,max=200"`
	Type             string   `json:"type" validate:"required,oneof=trail park cafe vet grooming activity beach hotel store event"`
	City             string   `json:"city" validate:"required,max=120"`
	Region           string   `json:"region" validate:"omitempty,max=120"`
	Country          string   `json:"country" validate:"required,max=120"`
	Latitude         *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude        *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	ShortDescription string   `json:"short_description" validate:"required"`
	FullDescription  string   `json:"full_description"`
	ImageURL         string   `json:"image_url" validate:"omitempty,http_url"`
	GalleryURLs      []string `json:"gallery_urls" validate:"dive,http_url"`
	DogFriendlyLevel *int     `json:"dog_friendly_level" validate:"omitempty,gte=1,lte=5"`
	Amenities        []string `json:"amenities"`
	Rules            string   `json:"rules"`
	WebsiteURL       string   `json:"website_url" validate:"omitempty,http_url"`
	Phone            string   `json:"contact_phone"`
	Email            string   `json:"contact_email" validate:"omitempty,email"`
	PriceRange       string   `json:"price_range"`
	OpeningHours     string   `json:"opening_hours"`
	Rating           *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Tags             []string `json:"tags"`
}

// PlaceRowError lists every field that failed for one row or submission.
type PlaceRowError struct {
	Fields []validation.FieldError
}

func (e *PlaceRowError) Error() string {
	return validation.Join(e.Fields)
}

func (e *PlaceRowError) Unwrap() error {
	return ErrPlaceRowInvalid
}

// NormalizePlaceRow turns one CSV record, keyed by lower-cased header name,
// into a valid candidate. Missing columns read as empty.
func NormalizePlaceRow(values map[string]string) (domain.PlaceCandidate, error) {
	fields, coercion := placeFieldsFromRecord(values)
	return fields.candidate(coercion)
}

// Candidate validates f and returns the normalized place.
func (f PlaceFields) Candidate() (domain.PlaceCandidate, error) {
	return f.candidate(nil)
}

func (f PlaceFields) candidate(pre []validation.FieldError) (domain.PlaceCandidate, error) {
	f = f.normalized()

	failed := pre
	verrs, err := validation.Struct(f)
	if err != nil {
		return domain.PlaceCandidate{}, err
	}
	for _, fe := range verrs {
		if !hasFieldError(failed, fe.Field) {
			failed = append(failed, fe)
		}
	}
	if len(failed) > 0 {
		sortFieldErrors(failed)
		return domain.PlaceCandidate{}, &PlaceRowError{Fields: failed}
	}

	id := f.ID
	if id == "" {
		id = derivePlaceID(f.Name, f.City, f.Country, *f.Latitude, *f.Longitude)
	}

	return domain.PlaceCandidate{
		ID:               id,
		Name:             f.Name,
		Category:         domain.PlaceCategory(f.Type),
		City:             f.City,
		Region:           optional(f.Region),
		Country:          f.Country,
		Latitude:         *f.Latitude,
		Longitude:        *f.Longitude,
		ShortDescription: f.ShortDescription,
		FullDescription:  optional(f.FullDescription),
		ImageURL:         optional(f.ImageURL),
		GalleryURLs:      f.GalleryURLs,
		DogFriendlyLevel: f.DogFriendlyLevel,
		Amenities:        f.Amenities,
		Rules:            optional(f.Rules),
		WebsiteURL:       optional(f.WebsiteURL),
		Phone:            optional(f.Phone),
		Email:            optional(f.Email),
		PriceRange:       optional(f.PriceRange),
		OpeningHours:     optional(f.OpeningHours),
		Rating:           f.Rating,
		Tags:             f.Tags,
	}, nil
}

func (f PlaceFields) normalized() PlaceFields {
	f.ID = strings.TrimSpace(f.ID)
	f.Name = strings.TrimSpace(f.Name)
	f.Type = strings.ToLower(strings.TrimSpace(f.Type))
	f.City = strings.TrimSpace(f.City)
	f.Region = strings.TrimSpace(f.Region)
	f.Country = strings.TrimSpace(f.Country)
	f.ShortDescription = strings.TrimSpace(f.ShortDescription)
	f.FullDescription = strings.TrimSpace(f.FullDescription)
	f.ImageURL = strings.TrimSpace(f.ImageURL)
	f.Rules = strings.TrimSpace(f.Rules)
	f.WebsiteURL = strings.TrimSpace(f.WebsiteURL)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Email = strings.TrimSpace(f.Email)
	f.PriceRange = strings.TrimSpace(f.PriceRange)
	f.OpeningHours = strings.TrimSpace(f.OpeningHours)
	f.GalleryURLs = cleanList(f.GalleryURLs, false)
	f.Amenities = cleanList(f.Amenities, true)
	f.Tags = cleanList(f.Tags, true)
	return f
}

// decimalPattern keeps ParseFloat to plain decimals. It would otherwise
// accept hex floats ("0x1p4") and "Inf".
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

func placeFieldsFromRecord(values map[string]string) (PlaceFields, []validation.FieldError) {
	get := func(key string) string { return strings.TrimSpace(values[key]) }
	var failed []validation.FieldError

	fields := PlaceFields{
		ID:               get("id"),
		Name:             get("name"),
		Type:             get("type"),
		City:             get("city"),
		Region:           get("region"),
		Country:          get("country"),
		ShortDescription: get("short_description"),
		FullDescription:  get("full_description"),
		ImageURL:         get("image_url"),
		GalleryURLs:      strings.Split(get("gallery_urls"), ";"),
		Amenities:        strings.Split(get("amenities"), ","),
		Rules:            get("rules"),
		WebsiteURL:       get("website_url"),
		Phone:            get("contact_phone"),
		Email:            get("contact_email"),
		PriceRange:       get("price_range"),
		OpeningHours:     get("opening_hours"),
		Tags:             strings.Split(get("tags"), ","),
	}

	floatField := func(key string) *float64 {
		raw := get(key)
		if raw == "" {
			return nil
		}
		if !decimalPattern.MatchString(raw) {
			failed = append(failed, validation.FieldError{Field: key, Message: "must be a number"})
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			failed = append(failed, validation.FieldError{Field: key, Message: "must be a number"})
			return nil
		}
		return &v
	}
	fields.Latitude = floatField("latitude")
	fields.Longitude = floatField("longitude")
	fields.Rating = floatField("rating")

	if raw := get("dog_friendly_level"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			fields.DogFriendlyLevel = &v
		} else {
			failed = append(failed, validation.FieldError{Field: "dog_friendly_level", Message: "must be a whole number"})
		}
	}

	return fields, failed
}

// derivePlaceID hashes the identifying tuple. Coordinates use the shortest
// round-trip form so "52.50" and "52.5" agree.
func derivePlaceID(name, city, country string, lat, lng float64) string {
	key := strings.Join([]string{
		strings.ToLower(name),
		strings.ToLower(city),
		strings.ToLower(country),
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lng, 'f', -1, 64),
	}, "|")
	return uuid.NewSHA1(PlaceIDNamespace, []byte(key)).String()
}

// cleanList trims entries and drops empties. With dedupe set, later
// case-insensitive repeats are dropped too.
func cleanList(values []string, dedupe bool) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if dedupe {
			key := strings.ToLower(v)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, v)
	}
	return out
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func hasFieldError(errs []validation.FieldError, field string) bool {
	for _, fe := range errs {
		if fe.Field == field {
			return true
		}
	}
	return false
}

var columnOrder = func() map[string]int {
	order := make(map[string]int, len(PlaceImportColumns))
	for i, c := range PlaceImportColumns {
		order[c] = i
	}
	return order
}()

func sortFieldErrors(errs []validation.FieldError) {
	rank := func(field string) int {
		if i := strings.IndexByte(field, '['); i >= 0 {
			field = field[:i]
		}
		if r, ok := columnOrder[field]; ok {
			return r
		}
		return len(columnOrder)
	}
	sort.SliceStable(errs, func(i, j int) bool {
		return rank(errs[i].Field) < rank(errs[j].Field)
	})
}
