package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/service"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/util"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/validation"
)

type PlaceHandler struct {
	cities     *service.CityService
	duplicates *service.PlaceDuplicateService
}

func RegisterPlaces(e *echo.Echo, tokens *util.JWTManager, cities *service.CityService, duplicates *service.PlaceDuplicateService) {
	handler := &PlaceHandler{cities: cities, duplicates: duplicates}

	e.GET("/api/v1/cities", handler.listCities)

	admin := e.Group("/api/v1/admin/places", RequireAuth(tokens), RequireRole(domain.CuratorRoles...))
	admin.POST("/duplicates", handler.checkDuplicate)
	admin.GET("/duplicates", handler.scanCity)
}

type duplicateCheckRequest struct {
	Name      string   `json:"name" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

func (h *PlaceHandler) listCities(c echo.Context) error {
	cities, err := h.cities.ListActive(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("list cities: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("internal error"))
	}
	return c.JSON(http.StatusOK, util.Envelope{"cities": cities})
}

func (h *PlaceHandler) checkDuplicate(c echo.Context) error {
	var req duplicateCheckRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return writeValidationError(c, err)
	}

	match, found, err := h.duplicates.Check(c.Request().Context(), domain.GeoName{
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		c.Logger().Errorf("duplicate check: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("internal error"))
	}

	resp := util.Envelope{"duplicate": found}
	if found {
		resp["match"] = match
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *PlaceHandler) scanCity(c echo.Context) error {
	slug := strings.TrimSpace(c.QueryParam("city"))
	if slug == "" {
		return c.JSON(http.StatusBadRequest, util.Error("city is required"))
	}
	pairs, err := h.duplicates.ScanCity(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, service.ErrCityNotFound) {
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		}
		c.Logger().Errorf("duplicate scan: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("internal error"))
	}
	return c.JSON(http.StatusOK, util.Envelope{"city": slug, "duplicates": pairs})
}

// writeValidationError reports every failed field, keyed by its json name.
func writeValidationError(c echo.Context, err error) error {
	var verrs *validation.Errors
	if errors.As(err, &verrs) {
		return c.JSON(http.StatusBadRequest, util.Envelope{
			"error":  verrs.Error(),
			"fields": fieldErrorMap(verrs.Fields),
		})
	}
	return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
}

func fieldErrorMap(fields []validation.FieldError) map[string]string {
	out := make(map[string]string, len(fields))
	for _, fe := range fields {
		if _, exists := out[fe.Field]; !exists {
			out[fe.Field] = fe.Message
		}
	}
	return out
}
