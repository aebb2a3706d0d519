package service

import (
	"strings"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/util"
)

const DefaultDuplicateRadiusMeters = 50.0

// DuplicateDetector flags a candidate when an existing place lies within
// the radius and carries the same normalized name. It holds no state beyond
// the radius and is safe for concurrent use.
type DuplicateDetector struct {
	radius float64
}

func NewDuplicateDetector(radiusMeters float64) *DuplicateDetector {
	if radiusMeters <= 0 {
		radiusMeters = DefaultDuplicateRadiusMeters
	}
	return &DuplicateDetector{radius: radiusMeters}
}

func (d *DuplicateDetector) Radius() float64 {
	return d.radius
}

func (d *DuplicateDetector) IsDuplicate(candidate domain.GeoName, existing []domain.GeoName) bool {
	_, ok := d.FindDuplicate(candidate, existing)
	return ok
}

// FindDuplicate returns the index of the first matching entry. A candidate
// without coordinates never matches; entries without coordinates are
// skipped.
func (d *DuplicateDetector) FindDuplicate(candidate domain.GeoName, existing []domain.GeoName) (int, bool) {
	if candidate.Latitude == nil || candidate.Longitude == nil {
		return -1, false
	}
	key := nameKey(candidate.Name)
	for i, e := range existing {
		if e.Latitude == nil || e.Longitude == nil {
			continue
		}
		if d.distance(candidate, e) > d.radius {
			continue
		}
		if nameKey(e.Name) == key {
			return i, true
		}
	}
	return -1, false
}

func (d *DuplicateDetector) distance(a, b domain.GeoName) float64 {
	return util.HaversineMeters(*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude)
}

// nameKey is util.NormalizeName, except that names with no [a-z0-9]
// content (for example non-latin scripts) compare by their lower-cased
// text instead of all collapsing to "".
func nameKey(name string) string {
	if key := util.NormalizeName(name); key != "" {
		return key
	}
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
