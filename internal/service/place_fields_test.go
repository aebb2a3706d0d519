package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
)

func validRow() map[string]string {
	return map[string]string{
		"name":              "Café Einstein",
		"type":              "cafe",
		"city":              "Berlin",
		"country":           "Germany",
		"latitude":          "52.5023",
		"longitude":         "13.3617",
		"short_description": "Viennese coffee house with a dog bowl at the door",
	}
}

func withValue(row map[string]string, key, value string) map[string]string {
	out := make(map[string]string, len(row)+1)
	for k, v := range row {
		out[k] = v
	}
	out[key] = value
	return out
}

func rowErrorFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var rowErr *PlaceRowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("expected *PlaceRowError, got %T (%v)", err, err)
	}
	if !errors.Is(err, ErrPlaceRowInvalid) {
		t.Fatalf("row error must wrap ErrPlaceRowInvalid")
	}
	fields := map[string]string{}
	for _, fe := range rowErr.Fields {
		fields[fe.Field] = fe.Message
	}
	return fields
}

func TestNormalizePlaceRowValid(t *testing.T) {
	row := withValue(validRow(), "amenities", " water bowl, shade ,, water bowl,Shade ")
	row["tags"] = "coffee,,indoor"
	row["gallery_urls"] = "https://img.dogatlas.test/1.jpg; ;https://img.dogatlas.test/2.jpg"
	row["dog_friendly_level"] = "4"
	row["rating"] = "4.5"
	row["type"] = "  CAFE "
	row["region"] = ""

	candidate, err := NormalizePlaceRow(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if candidate.Category != domain.PlaceCategoryCafe {
		t.Fatalf("expected type to be lower-cased, got %q", candidate.Category)
	}
	if got := strings.Join(candidate.Amenities, "|"); got != "water bowl|shade" {
		t.Fatalf("unexpected amenities %q", got)
	}
	if got := strings.Join(candidate.Tags, "|"); got != "coffee|indoor" {
		t.Fatalf("unexpected tags %q", got)
	}
	if len(candidate.GalleryURLs) != 2 {
		t.Fatalf("expected 2 gallery urls, got %v", candidate.GalleryURLs)
	}
	if candidate.DogFriendlyLevel == nil || *candidate.DogFriendlyLevel != 4 {
		t.Fatalf("unexpected dog friendly level %v", candidate.DogFriendlyLevel)
	}
	if candidate.Region != nil {
		t.Fatalf("empty optional column must stay absent")
	}
	if candidate.ID == "" {
		t.Fatalf("expected derived id")
	}
}

func TestNormalizePlaceRowCategoryClosure(t *testing.T) {
	_, err := NormalizePlaceRow(withValue(validRow(), "type", "spa"))
	fields := rowErrorFields(t, err)
	if _, ok := fields["type"]; !ok || len(fields) != 1 {
		t.Fatalf("expected exactly a type error, got %v", fields)
	}
	if !strings.Contains(err.Error(), "type must be one of: trail, park, cafe") {
		t.Fatalf("unexpected message %q", err.Error())
	}

	if _, err := NormalizePlaceRow(withValue(validRow(), "type", "trail")); err != nil {
		t.Fatalf("trail must be accepted: %v", err)
	}
}

func TestNormalizePlaceRowRanges(t *testing.T) {
	cases := []struct {
		column string
		value  string
		ok     bool
	}{
		{"latitude", "90", true},
		{"latitude", "-90", true},
		{"latitude", "0", true},
		{"latitude", "95", false},
		{"latitude", "-90.0001", false},
		{"longitude", "180", true},
		{"longitude", "-180", true},
		{"longitude", "180.5", false},
		{"dog_friendly_level", "1", true},
		{"dog_friendly_level", "5", true},
		{"dog_friendly_level", "0", false},
		{"dog_friendly_level", "6", false},
		{"rating", "0", true},
		{"rating", "5", true},
		{"rating", "5.1", false},
		{"rating", "-0.5", false},
	}
	for _, tc := range cases {
		t.Run(tc.column+"="+tc.value, func(t *testing.T) {
			_, err := NormalizePlaceRow(withValue(validRow(), tc.column, tc.value))
			if tc.ok && err != nil {
				t.Fatalf("expected %s=%s to be accepted: %v", tc.column, tc.value, err)
			}
			if !tc.ok {
				fields := rowErrorFields(t, err)
				if _, ok := fields[tc.column]; !ok {
					t.Fatalf("expected error on %s, got %v", tc.column, fields)
				}
			}
		})
	}
}

func TestNormalizePlaceRowCoercionFailures(t *testing.T) {
	row := withValue(validRow(), "latitude", "north")
	row["dog_friendly_level"] = "3.5"
	row["rating"] = "NaN"

	_, err := NormalizePlaceRow(row)
	fields := rowErrorFields(t, err)
	if fields["latitude"] != "must be a number" {
		t.Fatalf("unexpected latitude message %q", fields["latitude"])
	}
	if fields["dog_friendly_level"] != "must be a whole number" {
		t.Fatalf("unexpected level message %q", fields["dog_friendly_level"])
	}
	if fields["rating"] != "must be a number" {
		t.Fatalf("unexpected rating message %q", fields["rating"])
	}
	if len(fields) != 3 {
		t.Fatalf("a failed coercion must not also be reported as missing: %v", fields)
	}
}

func TestNormalizePlaceRowDecimalNumbersOnly(t *testing.T) {
	rejected := []string{"0x1p4", "0X1P-2", "Inf", "-infinity", "1_0", "52,5", "1e", "."}
	for _, raw := range rejected {
		t.Run("reject "+raw, func(t *testing.T) {
			row := withValue(validRow(), "latitude", raw)
			row["rating"] = raw
			_, err := NormalizePlaceRow(row)
			fields := rowErrorFields(t, err)
			if fields["latitude"] != "must be a number" || fields["rating"] != "must be a number" {
				t.Fatalf("expected both fields rejected, got %v", fields)
			}
		})
	}

	accepted := map[string]float64{"52.5": 52.5, "+52": 52, "-.5": -0.5, "5.": 5, "5e-1": 0.5, "4.2E0": 4.2}
	for raw, want := range accepted {
		t.Run("accept "+raw, func(t *testing.T) {
			candidate, err := NormalizePlaceRow(withValue(validRow(), "latitude", raw))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if candidate.Latitude != want {
				t.Fatalf("expected %v, got %v", want, candidate.Latitude)
			}
		})
	}
}

func TestNormalizePlaceRowReportsEveryMissingField(t *testing.T) {
	_, err := NormalizePlaceRow(map[string]string{"name": "  "})
	fields := rowErrorFields(t, err)
	for _, column := range []string{"name", "type", "city", "country", "latitude", "longitude", "short_description"} {
		if fields[column] != "is required" {
			t.Fatalf("expected %s to be required, got %v", column, fields)
		}
	}
	if !strings.HasPrefix(err.Error(), "name is required; type is required") {
		t.Fatalf("errors must follow column order, got %q", err.Error())
	}
}

func TestNormalizePlaceRowURLsAndEmail(t *testing.T) {
	row := withValue(validRow(), "image_url", "not a url")
	row["website_url"] = "ftp://dogatlas.test"
	row["gallery_urls"] = "https://img.dogatlas.test/1.jpg;javascript:alert(1)"
	row["contact_email"] = "hello-at-dogatlas"

	_, err := NormalizePlaceRow(row)
	fields := rowErrorFields(t, err)
	for _, field := range []string{"image_url", "website_url", "gallery_urls[1]", "contact_email"} {
		if _, ok := fields[field]; !ok {
			t.Fatalf("expected error on %s, got %v", field, fields)
		}
	}
}

func TestNormalizePlaceRowDerivedIDIsStable(t *testing.T) {
	first, err := NormalizePlaceRow(validRow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := NormalizePlaceRow(withValue(validRow(), "latitude", "52.50230"))
	if first.ID != second.ID {
		t.Fatalf("equivalent coordinates must derive the same id: %s vs %s", first.ID, second.ID)
	}

	moved, _ := NormalizePlaceRow(withValue(validRow(), "longitude", "13.3618"))
	if moved.ID == first.ID {
		t.Fatalf("different coordinates must derive a different id")
	}

	explicit, _ := NormalizePlaceRow(withValue(validRow(), "id", "berlin-cafe-einstein"))
	if explicit.ID != "berlin-cafe-einstein" {
		t.Fatalf("explicit id must be kept, got %s", explicit.ID)
	}
}

func TestPlaceFieldsCandidateSharesRules(t *testing.T) {
	lat, lng := 52.52, 13.40
	fields := PlaceFields{
		Name:             "Tiergarten",
		Type:             "Park",
		City:             "Berlin",
		Country:          "Germany",
		Latitude:         &lat,
		Longitude:        &lng,
		ShortDescription: "Big park",
		Tags:             []string{" off-leash ", "off-leash", ""},
	}
	candidate, err := fields.Candidate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if candidate.Category != domain.PlaceCategoryPark || len(candidate.Tags) != 1 {
		t.Fatalf("unexpected candidate %+v", candidate)
	}

	fields.Type = "zoo"
	if _, err := fields.Candidate(); !errors.Is(err, ErrPlaceRowInvalid) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
