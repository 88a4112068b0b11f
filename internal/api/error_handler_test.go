package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/signaltracker/tracker-api/internal/core/domain"
)

func render(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/readings/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)
	return rec
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"missing fields", domain.ErrMissingFields, http.StatusBadRequest},
		{"invalid value", fmt.Errorf("%w: latitude", domain.ErrInvalidValue), http.StatusBadRequest},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"reference not found", fmt.Errorf("%w: user 9", domain.ErrReferenceNotFound), http.StatusNotFound},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"conflict", fmt.Errorf("%w: email already in use", domain.ErrConflict), http.StatusConflict},
		{"ownership anomaly", domain.ErrOwnershipAnomaly, http.StatusConflict},
		{"account locked", domain.ErrAccountLocked, http.StatusTooManyRequests},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := render(t, tc.err)
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
		})
	}
}

// A broken ownership chain is a data problem, never a permission answer, so
// it must not render as 403.
func TestErrorHandler_AnomalyIsNotForbidden(t *testing.T) {
	rec := render(t, domain.ErrOwnershipAnomaly)
	if rec.Code == http.StatusForbidden {
		t.Fatalf("ownership anomaly rendered as 403")
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestErrorHandler_InternalErrorHidesCause(t *testing.T) {
	rec := render(t, errors.New("mongo: socket was unexpectedly closed"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := rec.Body.String(); body == "" || strings.Contains(body, "mongo") {
		t.Fatalf("internal details leaked or body empty: %s", body)
	}
}

func TestErrorHandler_EchoErrorPassThrough(t *testing.T) {
	rec := render(t, echo.NewHTTPError(http.StatusUnauthorized, "invalid token"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
