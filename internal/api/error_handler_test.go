package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/openlis/lis-backend/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrDuplicateIdentity, http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{fmt.Errorf("wrapped: %w", domain.ErrUnauthenticated), http.StatusUnauthorized},
		{fmt.Errorf("%w: role \"doctor\" not allowed", domain.ErrForbidden), http.StatusForbidden},
		{domain.ErrPatientNotFound, http.StatusNotFound},
		{fmt.Errorf("create order: %w", domain.ErrInvalidReference), http.StatusUnprocessableEntity},
		{domain.ErrInvalidRole, http.StatusUnprocessableEntity},
		{echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"), http.StatusMethodNotAllowed},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	e := echo.New()
	handle := NewHTTPErrorHandler(zerolog.Nop())

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		handle(tc.err, c)

		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		challenge := rec.Header().Get(echo.HeaderWWWAuthenticate)
		if (tc.code == http.StatusUnauthorized) != (challenge == "Bearer") {
			t.Fatalf("%v: unexpected WWW-Authenticate %q", tc.err, challenge)
		}

		var body errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Error == "" {
			t.Fatalf("%v: expected error envelope, got %s", tc.err, rec.Body.String())
		}
	}
}

func TestHTTPErrorHandler_HidesInternalDetails(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("pq: password authentication failed"), c)

	var body errorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Error != "internal server error" {
		t.Fatalf("internal error leaked: %q", body.Error)
	}
}

func TestHTTPErrorHandler_ValidationMessageDropsOperationPrefix(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/orders", nil), rec)

	err := fmt.Errorf("create order: %w", fmt.Errorf("%w: patient 42", domain.ErrInvalidReference))
	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if want := "validation failed: referenced record does not exist: patient 42"; body.Error != want {
		t.Fatalf("expected %q, got %q", want, body.Error)
	}
}
