package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/repository/ports"
)

const duplicateSearchLimit = 500

type cityLookup interface {
	FindBySlug(ctx context.Context, slug string) (*domain.City, error)
}

// PlaceDuplicateService runs the DuplicateDetector against stored places.
type PlaceDuplicateService struct {
	places   ports.PlaceRepository
	cities   cityLookup
	detector *DuplicateDetector
}

func NewPlaceDuplicateService(places ports.PlaceRepository, cities cityLookup, detector *DuplicateDetector) *PlaceDuplicateService {
	if detector == nil {
		detector = NewDuplicateDetector(DefaultDuplicateRadiusMeters)
	}
	return &PlaceDuplicateService{places: places, cities: cities, detector: detector}
}

// Check looks for a stored place that candidate duplicates. Only the
// nearest places around the candidate are loaded.
func (s *PlaceDuplicateService) Check(ctx context.Context, candidate domain.GeoName) (*domain.Place, bool, error) {
	if candidate.Latitude == nil || candidate.Longitude == nil {
		return nil, false, nil
	}
	nearby, err := s.places.ListNear(ctx, *candidate.Latitude, *candidate.Longitude, s.detector.Radius(), duplicateSearchLimit)
	if err != nil {
		return nil, false, fmt.Errorf("load nearby places: %w", err)
	}

	existing := make([]domain.GeoName, len(nearby))
	for i := range nearby {
		existing[i] = nearby[i].GeoName()
	}
	idx, ok := s.detector.FindDuplicate(candidate, existing)
	if !ok {
		return nil, false, nil
	}
	match := nearby[idx]
	return &match, true, nil
}

// ScanCity reports every place in the city that duplicates an earlier one
// in the repository's order.
func (s *PlaceDuplicateService) ScanCity(ctx context.Context, citySlug string) ([]domain.PlaceDuplicatePair, error) {
	if _, err := s.cities.FindBySlug(ctx, citySlug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCityNotFound
		}
		return nil, err
	}
	places, err := s.places.ListByCitySlug(ctx, citySlug)
	if err != nil {
		return nil, fmt.Errorf("load city places: %w", err)
	}

	buckets := make(map[string][]int)
	pairs := make([]domain.PlaceDuplicatePair, 0)
	for i := range places {
		key := nameKey(places[i].Name)
		earlier := buckets[key]

		existing := make([]domain.GeoName, len(earlier))
		for j, idx := range earlier {
			existing[j] = places[idx].GeoName()
		}
		candidate := places[i].GeoName()
		if match, ok := s.detector.FindDuplicate(candidate, existing); ok {
			original := places[earlier[match]]
			pairs = append(pairs, domain.PlaceDuplicatePair{
				Original:       original,
				Duplicate:      places[i],
				DistanceMeters: s.detector.distance(original.GeoName(), candidate),
			})
		}
		buckets[key] = append(earlier, i)
	}
	return pairs, nil
}
