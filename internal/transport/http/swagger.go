package http

import (
	"fmt"
	"net/http"
	"os"

	"github.com/ghodss/yaml"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RegisterSwagger serves the YAML document at specPath as JSON under
// /swagger/doc.json, next to the Swagger UI. The document is converted once
// at startup so a broken file fails the boot instead of the first request.
func RegisterSwagger(e *echo.Echo, specPath string) error {
	data, err := os.ReadFile(specPath)
	if err != nil {
		return fmt.Errorf("load swagger spec: %w", err)
	}
	jsonSpec, err := yaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("convert swagger spec: %w", err)
	}

	e.GET("/swagger/doc.json", func(c echo.Context) error {
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, jsonSpec)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	return nil
}
