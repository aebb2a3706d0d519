package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRegisterSwaggerServesJSON(t *testing.T) {
	e := echo.New()
	if err := RegisterSwagger(e, filepath.Join("..", "..", "..", "docs", "swagger.yaml")); err != nil {
		t.Fatalf("register swagger: %v", err)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var doc struct {
		Paths map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("doc.json is not JSON: %v", err)
	}
	if _, ok := doc.Paths["/api/v1/admin/place-imports"]; !ok {
		t.Fatalf("import path missing from document")
	}
}

func TestRegisterSwaggerRejectsBadFiles(t *testing.T) {
	if err := RegisterSwagger(echo.New(), "does-not-exist.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "swagger.yaml")
	if err := os.WriteFile(bad, []byte("paths: [unclosed"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := RegisterSwagger(echo.New(), bad); err == nil {
		t.Fatalf("expected error for invalid yaml")
	}
}
