package service

import (
	"testing"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
)

func geo(name string, lat, lng float64) domain.GeoName {
	return domain.GeoName{Name: name, Latitude: &lat, Longitude: &lng}
}

func TestDuplicateDetector(t *testing.T) {
	d := NewDuplicateDetector(0)
	if d.Radius() != DefaultDuplicateRadiusMeters {
		t.Fatalf("expected default radius, got %v", d.Radius())
	}

	candidate := geo("Café Einstein", 52.5023, 13.3617)

	t.Run("same name within radius", func(t *testing.T) {
		if !d.IsDuplicate(candidate, []domain.GeoName{geo("cafe einstein!!", 52.50235, 13.36175)}) {
			t.Fatalf("expected duplicate")
		}
	})

	t.Run("same name far away", func(t *testing.T) {
		if d.IsDuplicate(candidate, []domain.GeoName{geo("Café Einstein", 52.52, 13.40)}) {
			t.Fatalf("places kilometres apart must not match")
		}
	})

	t.Run("different name nearby", func(t *testing.T) {
		if d.IsDuplicate(candidate, []domain.GeoName{geo("Einstein Kaffee", 52.5023, 13.3617)}) {
			t.Fatalf("different names must not match")
		}
	})

	t.Run("missing coordinates", func(t *testing.T) {
		if d.IsDuplicate(domain.GeoName{Name: "Café Einstein"}, []domain.GeoName{candidate}) {
			t.Fatalf("candidate without coordinates must not match")
		}
		if d.IsDuplicate(candidate, []domain.GeoName{{Name: "Café Einstein"}}) {
			t.Fatalf("existing entry without coordinates must be skipped")
		}
	})

	t.Run("empty list", func(t *testing.T) {
		if d.IsDuplicate(candidate, nil) {
			t.Fatalf("empty list must not match")
		}
	})

	t.Run("first match wins", func(t *testing.T) {
		existing := []domain.GeoName{
			geo("Tiergarten", 52.5145, 13.3501),
			geo("CAFE EINSTEIN", 52.50232, 13.36172),
			geo("Café Einstein", 52.5023, 13.3617),
		}
		idx, ok := d.FindDuplicate(candidate, existing)
		if !ok || idx != 1 {
			t.Fatalf("expected index 1, got %d (%v)", idx, ok)
		}
	})

	t.Run("non latin names", func(t *testing.T) {
		a := geo("東京 ドッグラン", 35.6812, 139.7671)
		if !d.IsDuplicate(a, []domain.GeoName{geo("東京  ドッグラン", 35.6812, 139.7671)}) {
			t.Fatalf("names without ascii content must still compare")
		}
		if d.IsDuplicate(a, []domain.GeoName{geo("大阪 ドッグラン", 35.6812, 139.7671)}) {
			t.Fatalf("different non latin names must not collapse to the same key")
		}
	})

	t.Run("custom radius", func(t *testing.T) {
		wide := NewDuplicateDetector(5000)
		if !wide.IsDuplicate(candidate, []domain.GeoName{geo("Café Einstein", 52.52, 13.40)}) {
			t.Fatalf("expected match within 5km radius")
		}
	})
}
