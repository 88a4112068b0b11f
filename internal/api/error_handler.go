package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/signaltracker/tracker-api/internal/api/metrics"
	"github.com/signaltracker/tracker-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps each domain error kind to exactly one HTTP status code.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known error kinds map to deterministic codes. Order matters:
	// ErrOwnershipAnomaly wraps ErrConflict, so the Conflict arm covers it,
	// and ErrReferenceNotFound is distinct from ErrNotFound on purpose (a
	// missing foreign key is the caller's payload problem, but both render
	// as 404).
	switch {
	case errors.Is(err, domain.ErrMissingFields), errors.Is(err, domain.ErrInvalidValue):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrForbidden):
		metrics.AuthzDenialsTotal.WithLabelValues(c.Request().Method, c.Path()).Inc()
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrReferenceNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrAccountLocked):
		metrics.AccountLocksTotal.Inc()
		return http.StatusTooManyRequests, "account temporarily locked"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
