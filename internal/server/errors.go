package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/emission-renderer/internal/db"
	"github.com/jonathan/emission-renderer/internal/pipeline"
	"github.com/jonathan/emission-renderer/internal/schemas"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrStorageUnavailable is returned by routes that need persistence when the
// server runs without a database.
type ErrStorageUnavailable struct{}

func (e *ErrStorageUnavailable) Error() string {
	return "storage not configured"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation *ErrValidation
		missing    *pipeline.MissingTemplateError
		schemaErr  *schemas.ValidationError
		notFound   *db.NotFoundError
		lifecycle  *db.LifecycleError
		storage    *ErrStorageUnavailable
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &missing):
		return http.StatusBadRequest
	case errors.As(err, &schemaErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &lifecycle):
		return http.StatusConflict
	case errors.As(err, &storage):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
