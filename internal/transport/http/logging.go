package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

const (
	requestBodyLogKey  = "http.request.body.summary"
	responseBodyLogKey = "http.response.body.summary"
	maxLoggedBody      = 2048
)

var sensitiveKeys = []string{"password", "token", "secret", "authorization"}

func registerLogging(e *echo.Echo, logger zerolog.Logger) {
	skipper := func(c echo.Context) bool {
		path := c.Request().URL.Path
		return path == "/health" || path == "/metrics" || strings.HasPrefix(path, "/swagger")
	}

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper:     skipper,
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			userID := "anonymous"
			if user, ok := CurrentUser(c); ok {
				userID = user.ID.String()
			}

			event := logger.Info()
			if v.Status >= 500 {
				event = logger.Error()
			} else if v.Status >= 400 {
				event = logger.Warn()
			}

			event = event.
				Str("user_uuid", userID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Int64("latency_ms", v.Latency.Milliseconds())
			if summary := c.Get(requestBodyLogKey); summary != nil {
				event = event.Interface("request_body", summary)
			}
			if summary := c.Get(responseBodyLogKey); summary != nil {
				event = event.Interface("response_body", summary)
			}
			if v.Error != nil {
				event = event.Err(v.Error)
			}
			event.Msg("http request")
			return nil
		},
	}))

	e.Use(middleware.BodyDumpWithConfig(middleware.BodyDumpConfig{
		Skipper: skipper,
		Handler: func(c echo.Context, reqBody, resBody []byte) {
			if summary := sanitizeBody(reqBody, c.Request().Header.Get(echo.HeaderContentType)); summary != nil {
				c.Set(requestBodyLogKey, summary)
			}
			if summary := sanitizeBody(resBody, c.Response().Header().Get(echo.HeaderContentType)); summary != nil {
				c.Set(responseBodyLogKey, summary)
			}
		},
	}))
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// sanitizeBody summarizes a body for the request log. Uploaded files are
// logged as "binary"; sensitive keys are redacted.
func sanitizeBody(body []byte, contentType string) any {
	if len(body) == 0 {
		return nil
	}

	trimmedType := strings.TrimSpace(contentType)
	loweredType := strings.ToLower(trimmedType)

	switch {
	case strings.HasPrefix(loweredType, "multipart/form-data"):
		return sanitizeMultipart(body, trimmedType)
	case strings.HasPrefix(loweredType, "text/csv"):
		return "csv"
	}

	if strings.HasPrefix(loweredType, "application/json") || json.Valid(body) {
		var data any
		if err := json.Unmarshal(body, &data); err == nil {
			return limitJSONSize(sanitizeJSON(data, ""))
		}
	}

	if strings.HasPrefix(loweredType, "application/x-www-form-urlencoded") {
		if values, err := url.ParseQuery(string(body)); err == nil && len(values) > 0 {
			fields := make(map[string]any, len(values))
			for key, vals := range values {
				for _, v := range vals {
					addFormField(fields, key, sanitizeStringValue(v, key))
				}
			}
			return limitJSONSize(fields)
		}
	}

	if containsBinaryBytes(body) {
		return "binary"
	}
	return clampString(string(body))
}

func limitJSONSize(value any) any {
	buf, err := json.Marshal(value)
	if err != nil || len(buf) <= maxLoggedBody {
		return value
	}
	return map[string]any{
		"_truncated": true,
		"_preview":   summarizeJSONPreview(value, 0),
	}
}

func sanitizeJSON(value any, keyHint string) any {
	switch v := value.(type) {
	case map[string]any:
		result := make(map[string]any, len(v))
		for key, val := range v {
			if isSensitiveKey(key) {
				result[key] = "redacted"
				continue
			}
			result[key] = sanitizeJSON(val, key)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = sanitizeJSON(item, keyHint)
		}
		return result
	case string:
		return sanitizeStringValue(v, keyHint)
	default:
		return v
	}
}

func sanitizeStringValue(value, keyHint string) string {
	if keyHint != "" && isSensitiveKey(keyHint) {
		return "redacted"
	}
	if containsBinaryBytes([]byte(value)) {
		return "binary"
	}
	return clampString(value)
}

func sanitizeMultipart(body []byte, contentType string) any {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
		return "binary"
	}

	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	fields := make(map[string]any)
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "binary"
		}

		name := part.FormName()
		if name == "" {
			_ = part.Close()
			continue
		}

		var value any = "binary"
		if filename := part.FileName(); filename != "" {
			value = map[string]any{"file": clampString(filename)}
		} else if data, err := io.ReadAll(part); err == nil {
			value = sanitizeStringValue(string(data), name)
		}
		_ = part.Close()
		addFormField(fields, name, value)
	}

	if len(fields) == 0 {
		return "binary"
	}
	return limitJSONSize(fields)
}

func summarizeJSONPreview(value any, depth int) any {
	const (
		maxDepth         = 3
		maxMapEntries    = 6
		maxArraySamples  = 3
		maxStringPreview = 256
	)

	if depth >= maxDepth {
		return "...(omitted)..."
	}

	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		result := make(map[string]any, min(len(keys), maxMapEntries)+1)
		for i, key := range keys {
			if i == maxMapEntries {
				result["_omitted_fields"] = len(keys) - i
				break
			}
			result[key] = summarizeJSONPreview(v[key], depth+1)
		}
		return result
	case []any:
		total := len(v)
		sample := make([]any, 0, min(total, maxArraySamples))
		for i := 0; i < total && i < maxArraySamples; i++ {
			sample = append(sample, summarizeJSONPreview(v[i], depth+1))
		}
		out := map[string]any{"_total_items": total, "_sample": sample}
		if total > len(sample) {
			out["_omitted_items"] = total - len(sample)
		}
		return out
	case string:
		return truncateUTF8(v, maxStringPreview)
	default:
		return v
	}
}

func containsBinaryBytes(data []byte) bool {
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			return true
		}
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return true
		}
		data = data[size:]
	}
	return false
}

func clampString(value string) string {
	return truncateUTF8(value, maxLoggedBody)
}

func truncateUTF8(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	truncated := value[:limit]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}
	return truncated + "...(truncated)"
}

func addFormField(fields map[string]any, key string, value any) {
	existing, ok := fields[key]
	if !ok {
		fields[key] = value
		return
	}
	if items, isList := existing.([]any); isList {
		fields[key] = append(items, value)
		return
	}
	fields[key] = []any{existing, value}
}
