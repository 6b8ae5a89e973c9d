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

	"github.com/dannykhan02/Lenny-media-backend/internal/core/domain"
)

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{domain.ErrMissingFields, http.StatusBadRequest, "missing_fields"},
		{domain.ErrInvalidEmail, http.StatusBadRequest, "invalid_email"},
		{domain.ErrInvalidRole, http.StatusBadRequest, "invalid_role"},
		{domain.ErrPasswordTooLong, http.StatusBadRequest, "password_too_long"},
		{domain.ErrEmailAlreadyExists, http.StatusBadRequest, "email_already_registered"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{domain.ErrTokenMissing, http.StatusUnauthorized, "token_missing"},
		{domain.ErrTokenExpired, http.StatusUnauthorized, "token_expired"},
		{domain.ErrTokenInvalidSignature, http.StatusUnauthorized, "token_invalid"},
		{domain.ErrTokenMalformed, http.StatusUnauthorized, "token_malformed"},
		{domain.ErrTokenRevoked, http.StatusUnauthorized, "token_revoked"},
		{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{domain.ErrAccountDeactivated, http.StatusForbidden, "account_deactivated"},
		{domain.ErrAdminAlreadyExists, http.StatusForbidden, "admin_already_exists"},
		{domain.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
		{domain.ErrTooManyAttempts, http.StatusTooManyRequests, "too_many_attempts"},
		{fmt.Errorf("update profile: %w", domain.ErrUserNotFound), http.StatusNotFound, "user_not_found"},
	}

	handler := NewHTTPErrorHandler(zerolog.Nop())
	for _, tc := range cases {
		t.Run(tc.wantCode, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			handler(tc.err, c)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error != tc.wantCode || body.Message == "" {
				t.Fatalf("unexpected body: %+v", body)
			}
		})
	}
}

func TestHTTPErrorHandler_EchoError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(echo.ErrNotFound, c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body errorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Error != "not_found" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHTTPErrorHandler_UnknownErrorHidesDetails(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("mongo: connection refused at 10.0.0.3"), c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body errorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Error != "internal_error" || body.Message != "internal server error" {
		t.Fatalf("internal details leaked: %+v", body)
	}
}
