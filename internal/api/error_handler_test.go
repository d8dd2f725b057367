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

	"github.com/chainlance/marketplace-api/internal/core/domain"
)

func handleError(t *testing.T, err error, method string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)
	return rec
}

func TestHTTPErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrChallengeExpired, http.StatusUnauthorized},
		{domain.ErrSignatureMismatch, http.StatusUnauthorized},
		{domain.ErrTokenExpired, http.StatusUnauthorized},
		{domain.ErrTokenInvalid, http.StatusUnauthorized},
		{domain.ErrUnauthorized, http.StatusForbidden},
		{domain.ErrNotParticipant, http.StatusForbidden},
		{domain.ErrInvalidTransition, http.StatusConflict},
		{domain.ErrMissingProfile, http.StatusBadRequest},
		{domain.ErrInvalidWallet, http.StatusBadRequest},
		{domain.ErrJobValidation, http.StatusBadRequest},
		{domain.ErrEmptyMessage, http.StatusBadRequest},
		{domain.ErrMessageTooLong, http.StatusBadRequest},
		{domain.ErrIdentityNotFound, http.StatusNotFound},
		{domain.ErrJobNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec := handleError(t, tc.err, http.MethodGet)
			if rec.Code != tc.code {
				t.Fatalf("status = %d, want %d", rec.Code, tc.code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error == "" {
				t.Fatalf("expected an error message in the envelope")
			}
		})
	}
}

func TestHTTPErrorHandler_WrappedErrorsStillMap(t *testing.T) {
	err := fmt.Errorf("assign job: %w", domain.ErrInvalidTransition)
	rec := handleError(t, err, http.MethodGet)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestHTTPErrorHandler_EchoErrorsPassThrough(t *testing.T) {
	rec := handleError(t, echo.NewHTTPError(http.StatusTeapot, "short and stout"), http.MethodGet)
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want 418", rec.Code)
	}
}

func TestHTTPErrorHandler_UnknownErrorsAreOpaque(t *testing.T) {
	rec := handleError(t, errors.New("mongo: connection reset"), http.MethodGet)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "internal server error" {
		t.Fatalf("internal cause leaked to client: %q", body.Error)
	}
}

func TestHTTPErrorHandler_HeadRequestsGetNoBody(t *testing.T) {
	rec := handleError(t, domain.ErrIdentityNotFound, http.MethodHead)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("HEAD response carried a body: %q", rec.Body.String())
	}
}
