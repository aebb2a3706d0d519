package util

import (
	"math"
	"testing"
)

func TestHaversineMeters(t *testing.T) {
	if d := HaversineMeters(52.5023, 13.3617, 52.5023, 13.3617); d != 0 {
		t.Fatalf("expected zero distance for identical points, got %f", d)
	}

	// Berlin Hbf to Paris Gare du Nord, roughly 878 km.
	d := HaversineMeters(52.5251, 13.3694, 48.8809, 2.3553)
	if math.Abs(d-878000) > 5000 {
		t.Fatalf("unexpected Berlin-Paris distance %f", d)
	}

	near := HaversineMeters(52.5023, 13.3617, 52.50235, 13.36175)
	if near < 5 || near > 8 {
		t.Fatalf("expected roughly 6.5m, got %f", near)
	}
}

func TestBoundingBoxContainsRadius(t *testing.T) {
	minLat, maxLat, minLng, maxLng := BoundingBox(52.52, 13.40, 50)
	if !(minLat < 52.52 && maxLat > 52.52 && minLng < 13.40 && maxLng > 13.40) {
		t.Fatalf("origin must lie inside its bounding box")
	}
	if HaversineMeters(52.52, 13.40, maxLat, 13.40) < 49.9 {
		t.Fatalf("box must extend at least the radius north")
	}
	if HaversineMeters(52.52, 13.40, 52.52, maxLng) < 49.9 {
		t.Fatalf("box must extend at least the radius east")
	}
}
