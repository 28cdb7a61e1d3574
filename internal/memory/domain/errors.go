package domain

import (
	"errors"
	"net/http"
)

// Sentinel error kinds per the service's error-handling design. Handlers
// classify these via errors.Is into an HTTP status (see HTTPStatus);
// internal callers wrap with fmt.Errorf(%w).
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrStore      = errors.New("store error")
	ErrEmbedding  = errors.New("embedding error")
	ErrReranker   = errors.New("reranker error")
	ErrPlanner    = errors.New("planner error")
)

// HTTPStatus maps a sentinel error kind to the status the HTTP boundary
// should respond with: 200 for a nil error, 500 for unrecognized errors.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
