// Package handler exposes the HTTP endpoints.  Handlers bind and
// validate transport-level input, call the services and translate
// service errors into the JSON error envelope.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/room-reservation/internal/service"
)

// errorBody is the envelope for every non-2xx response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// listMeta accompanies collection responses.
type listMeta struct {
	Total int `json:"total"`
}

// respondError writes a service error as 400 or 404 depending on its
// kind.  Anything that is not a *service.Error is unexpected: it gets
// logged and masked as a generic 500.
func respondError(c echo.Context, err error) error {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		status := http.StatusBadRequest
		if svcErr.NotFound {
			status = http.StatusNotFound
		}
		return c.JSON(status, errorBody{Error: errorDetail{Code: svcErr.Code, Message: svcErr.Message}})
	}

	zap.L().Error("request failed",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, errorBody{Error: errorDetail{
		Code:    "INTERNAL_ERROR",
		Message: "An unexpected error occurred.",
	}})
}

// respondData wraps a single resource.
func respondData(c echo.Context, status int, data any) error {
	return c.JSON(status, map[string]any{"data": data})
}

// respondList wraps a collection together with its total count.
func respondList(c echo.Context, data any, total int) error {
	return c.JSON(http.StatusOK, map[string]any{
		"data": data,
		"meta": listMeta{Total: total},
	})
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, service.Validation("id must be a positive integer")
	}
	return id, nil
}
