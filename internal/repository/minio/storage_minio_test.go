package minio

import "testing"

func TestStorageObjectURL(t *testing.T) {
	s := NewStorage(nil, "https://cdn.dogatlas.app/")
	got := s.ObjectURL("dogatlas-imports", "places/imports/2024/07/abc/berlin.csv")
	want := "https://cdn.dogatlas.app/dogatlas-imports/places/imports/2024/07/abc/berlin.csv"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if NewStorage(nil, "").ObjectURL("b", "k") != "" {
		t.Fatalf("expected empty url without public base")
	}
}
