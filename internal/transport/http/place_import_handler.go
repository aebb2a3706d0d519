package http

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/service"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/util"
)

var (
	errUploadMissing    = errors.New("csv file is required")
	errUploadUnreadable = errors.New("unable to read upload")
)

type csvUpload struct {
	filename string
	size     int64
	body     io.ReadSeekCloser
}

type PlaceImportHandler struct {
	service       *service.PlaceImportService
	maxUploadSize int64
}

func RegisterPlaceImports(e *echo.Echo, tokens *util.JWTManager, svc *service.PlaceImportService, enabled bool) {
	if !enabled || svc == nil {
		return
	}
	handler := &PlaceImportHandler{
		service:       svc,
		maxUploadSize: svc.MaxFileBytes(),
	}

	// The editor/admin rule for ingest is enforced by the service so the CLI
	// gets the same check.
	group := e.Group("/api/v1/admin/place-imports", RequireAuth(tokens))
	group.GET("/template", handler.template)
	group.POST("/preview", handler.preview)
	group.POST("", handler.ingest)
	group.GET("/:id", handler.run)
}

func (h *PlaceImportHandler) template(c echo.Context) error {
	sample := map[string]string{
		"name":               "Café Einstein Stammhaus",
		"type":               "cafe",
		"city":               "Berlin",
		"region":             "Berlin",
		"country":            "Germany",
		"latitude":           "52.5023",
		"longitude":          "13.3617",
		"short_description":  "Viennese coffee house with a shaded garden.",
		"website_url":        "https://cafeeinstein.com",
		"dog_friendly_level": "4",
		"amenities":          "water bowl,shade,outdoor seating",
		"opening_hours":      "Mo-Su 08:00-22:00",
		"rating":             "4.5",
		"tags":               "coffee,garden",
	}
	row := make([]string, len(service.PlaceImportColumns))
	for i, column := range service.PlaceImportColumns {
		row[i] = sample[column]
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	_ = writer.Write(service.PlaceImportColumns)
	_ = writer.Write(row)
	writer.Flush()
	if err := writer.Error(); err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("could not generate template"))
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="place-import-template.csv"`)
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *PlaceImportHandler) preview(c echo.Context) error {
	upload, err := h.openUpload(c)
	if err != nil {
		return h.writeError(c, err)
	}
	defer upload.body.Close()

	preview, err := h.service.Preview(c.Request().Context(), upload.body)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, preview)
}

func (h *PlaceImportHandler) ingest(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	if !user.IsCurator() {
		return h.writeError(c, service.ErrImportUnauthorized)
	}

	upload, err := h.openUpload(c)
	if err != nil {
		return h.writeError(c, err)
	}
	defer upload.body.Close()

	result, err := h.service.Ingest(c.Request().Context(), user, service.PlaceImportUpload{
		Filename: upload.filename,
		Body:     upload.body,
		Size:     upload.size,
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *PlaceImportHandler) run(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	if !user.IsCurator() {
		return h.writeError(c, service.ErrImportUnauthorized)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid import run id"))
	}

	run, err := h.service.GetRun(c.Request().Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, run)
}

// openUpload rejects oversize files by their declared size before any
// byte is read; the service still enforces the limit while decoding.
func (h *PlaceImportHandler) openUpload(c echo.Context) (*csvUpload, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, errUploadMissing
	}
	if h.maxUploadSize > 0 && file.Size > h.maxUploadSize {
		return nil, service.ErrImportTooLarge
	}
	src, err := file.Open()
	if err != nil {
		return nil, errUploadUnreadable
	}
	return &csvUpload{filename: file.Filename, size: file.Size, body: src}, nil
}

func (h *PlaceImportHandler) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrImportUnauthorized):
		return c.JSON(http.StatusForbidden, util.Error(err.Error()))
	case errors.Is(err, service.ErrImportRunNotFound):
		return c.JSON(http.StatusNotFound, util.Error(err.Error()))
	case errors.Is(err, service.ErrImportTooLarge):
		return c.JSON(http.StatusRequestEntityTooLarge, util.Error(err.Error()))
	case errors.Is(err, errUploadMissing), errors.Is(err, errUploadUnreadable),
		errors.Is(err, service.ErrImportEmptyFile), errors.Is(err, service.ErrImportMalformed):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrImportArchive):
		c.Logger().Errorf("place import archive: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error(service.ErrImportArchive.Error()))
	case errors.Is(err, service.ErrImportPersistence):
		c.Logger().Errorf("place import: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error(service.ErrImportPersistence.Error()))
	default:
		c.Logger().Errorf("place import: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("internal error"))
	}
}
