package controller

import (
	"context"
	"errors"
	"net/http"

	"countries-informer/internal/domain/gateway/cache"
	"countries-informer/internal/domain/model"
	"countries-informer/internal/domain/usecase/cacheaside"
	"countries-informer/internal/domain/usecase/country"
	"countries-informer/internal/domain/usecase/importer"
	"countries-informer/pkg/log"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error  string             `json:"error"`
	Fields []model.FieldError `json:"fields,omitempty"`
}

// statusOf maps domain errors to HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadGateway
	case errors.Is(err, cache.ErrUnknownNamespace):
		return http.StatusNotFound
	case errors.Is(err, cacheaside.ErrCacheUnavailable),
		errors.Is(err, country.ErrStoreDisabled),
		errors.Is(err, importer.ErrStoreDisabled),
		errors.Is(err, importer.ErrQueueDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c echo.Context, err error) error {
	status := statusOf(err)
	response := ErrorResponse{Error: err.Error()}

	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		response.Fields = validationErr.Fields
	}
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.String("path", c.Path()), zap.Int("status", status), zap.Error(err))
	}
	return c.JSON(status, response)
}

func respondNotFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, ErrorResponse{Error: message})
}
