package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/repository/ports"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/util"
)

// placeWriter binds candidates to cities and upserts them inside one
// PlaceTx. Resolved cities are memoized for the lifetime of the writer.
type placeWriter struct {
	tx            ports.PlaceTx
	cities        map[string]*domain.City
	citiesCreated int
}

func newPlaceWriter(tx ports.PlaceTx) *placeWriter {
	return &placeWriter{tx: tx, cities: make(map[string]*domain.City)}
}

func (w *placeWriter) upsert(ctx context.Context, candidate domain.PlaceCandidate) (*domain.Place, domain.PlaceUpsertAction, error) {
	city, err := w.resolveCity(ctx, candidate)
	if err != nil {
		return nil, "", err
	}

	place := &domain.Place{
		PlaceCandidate: candidate,
		CityID:         city.ID,
		Slug:           placeSlug(candidate),
	}

	_, err = w.tx.FindPlaceForUpdate(ctx, candidate.ID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		inserted, err := w.tx.InsertPlace(ctx, place)
		if err != nil {
			return nil, "", err
		}
		return inserted, domain.PlaceUpsertInsert, nil
	case err != nil:
		return nil, "", err
	}

	updated, err := w.tx.UpdatePlace(ctx, place)
	if err != nil {
		return nil, "", err
	}
	return updated, domain.PlaceUpsertUpdate, nil
}

func (w *placeWriter) resolveCity(ctx context.Context, candidate domain.PlaceCandidate) (*domain.City, error) {
	key := strings.ToLower(candidate.City) + "|" + strings.ToLower(candidate.Country)
	if city, ok := w.cities[key]; ok {
		return city, nil
	}

	city, err := w.tx.FindCity(ctx, candidate.City, candidate.Country)
	if errors.Is(err, sql.ErrNoRows) {
		var slug string
		slug, err = w.freeCitySlug(ctx, candidate.City, candidate.Country)
		if err != nil {
			return nil, err
		}
		lat, lng := candidate.Latitude, candidate.Longitude
		city, err = w.tx.CreateCity(ctx, &domain.City{
			Name:      candidate.City,
			Country:   candidate.Country,
			Slug:      slug,
			Latitude:  &lat,
			Longitude: &lng,
			Active:    true,
		})
		if err != nil {
			return nil, err
		}
		w.citiesCreated++
	} else if err != nil {
		return nil, err
	}

	w.cities[key] = city
	return city, nil
}

// freeCitySlug returns the first unused slug out of the plain name slug,
// the name qualified by country ("paris-united-states"), and that form with
// a hash of the (name, country) pair.
func (w *placeWriter) freeCitySlug(ctx context.Context, name, country string) (string, error) {
	base := citySlug(name, country)
	qualified := base
	if c := util.Slugify(country); c != "" {
		qualified = base + "-" + c
	}
	candidates := []string{base, qualified, qualified + "-" + cityHash(name, country)}
	for _, slug := range candidates {
		taken, err := w.tx.CitySlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
	}
	return "", fmt.Errorf("city slug %q is taken", candidates[len(candidates)-1])
}

// citySlug falls back to a short hash when the name has no [a-z0-9]
// content after folding (for example non-latin scripts).
func citySlug(name, country string) string {
	if slug := util.Slugify(name); slug != "" {
		return slug
	}
	return "city-" + cityHash(name, country)
}

func cityHash(name, country string) string {
	key := strings.ToLower(name) + "|" + strings.ToLower(country)
	return uuid.NewSHA1(PlaceIDNamespace, []byte(key)).String()[:8]
}

func placeSlug(candidate domain.PlaceCandidate) string {
	if slug := util.Slugify(candidate.Name); slug != "" {
		return slug
	}
	compact := util.Slugify(strings.ReplaceAll(candidate.ID, "-", ""))
	if len(compact) > 8 {
		compact = compact[:8]
	}
	if compact == "" {
		return "place"
	}
	return "place-" + compact
}
