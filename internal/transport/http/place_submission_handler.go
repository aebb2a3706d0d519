package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/domain"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/service"
	"github.com/njprem/DogAtlas_APP_BackEnd/internal/util"
)

type PlaceSubmissionHandler struct {
	service *service.PlaceSubmissionService
}

func RegisterPlaceSubmissions(e *echo.Echo, tokens *util.JWTManager, svc *service.PlaceSubmissionService) {
	handler := &PlaceSubmissionHandler{service: svc}

	member := e.Group("/api/v1/place-submissions", RequireAuth(tokens))
	member.POST("", handler.create)
	member.GET("", handler.list)
	member.GET("/:id", handler.get)

	admin := e.Group("/api/v1/admin/place-submissions", RequireAuth(tokens), RequireRole(domain.CuratorRoles...))
	admin.GET("", handler.list)
	admin.GET("/:id", handler.get)
	admin.POST("/:id/approve", handler.approve)
	admin.POST("/:id/reject", handler.reject)
}

type reviewRequest struct {
	Message string `json:"message"`
}

func (h *PlaceSubmissionHandler) create(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	var fields service.PlaceFields
	if err := c.Bind(&fields); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	submission, err := h.service.Submit(c.Request().Context(), user, fields)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, util.Envelope{"submission": submission})
}

func (h *PlaceSubmissionHandler) list(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	filter, err := parseSubmissionFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	submissions, err := h.service.List(c.Request().Context(), user, filter)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Envelope{"submissions": submissions})
}

func (h *PlaceSubmissionHandler) get(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid submission id"))
	}

	submission, err := h.service.Get(c.Request().Context(), user, id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Envelope{"submission": submission})
}

func (h *PlaceSubmissionHandler) approve(c echo.Context) error {
	return h.decide(c, h.service.Approve)
}

func (h *PlaceSubmissionHandler) reject(c echo.Context) error {
	return h.decide(c, h.service.Reject)
}

type reviewFunc func(ctx context.Context, actor *domain.User, id uuid.UUID, message string) (*domain.PlaceSubmission, error)

func (h *PlaceSubmissionHandler) decide(c echo.Context, review reviewFunc) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid submission id"))
	}

	var req reviewRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
		}
	}

	submission, err := review(c.Request().Context(), user, id, req.Message)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, util.Envelope{"submission": submission})
}

func (h *PlaceSubmissionHandler) writeError(c echo.Context, err error) error {
	var rowErr *service.PlaceRowError
	switch {
	case errors.As(err, &rowErr):
		return c.JSON(http.StatusUnprocessableEntity, util.Envelope{
			"error":  rowErr.Error(),
			"fields": fieldErrorMap(rowErr.Fields),
		})
	case errors.Is(err, service.ErrSubmissionNotFound):
		return c.JSON(http.StatusNotFound, util.Error(err.Error()))
	case errors.Is(err, service.ErrSubmissionForbidden), errors.Is(err, service.ErrSubmissionSelfReview):
		return c.JSON(http.StatusForbidden, util.Error(err.Error()))
	case errors.Is(err, service.ErrSubmissionNotPending):
		return c.JSON(http.StatusConflict, util.Error(err.Error()))
	case errors.Is(err, service.ErrSubmissionReasonRequired):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	default:
		c.Logger().Errorf("place submission: %v", err)
		return c.JSON(http.StatusInternalServerError, util.Error("internal error"))
	}
}

func parseSubmissionFilter(c echo.Context) (domain.PlaceSubmissionFilter, error) {
	var filter domain.PlaceSubmissionFilter

	for _, raw := range strings.Split(c.QueryParam("status"), ",") {
		raw = strings.ToLower(strings.TrimSpace(raw))
		if raw == "" {
			continue
		}
		status := domain.PlaceSubmissionStatus(raw)
		if !status.Valid() {
			return filter, fmt.Errorf("invalid status %q", raw)
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return filter, errors.New("limit must be a positive integer")
		}
		filter.Limit = limit
	}
	if raw := strings.TrimSpace(c.QueryParam("offset")); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filter, errors.New("offset must be a non-negative integer")
		}
		filter.Offset = offset
	}
	return filter, nil
}
