package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/savoro/catering-auth/internal/usecase"
)

func mappedResponse(t *testing.T, err error) (*httptest.ResponseRecorder, *gin.Context, Envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/auth", nil)

	respondWithMappedError(c, err)

	var env Envelope
	if decodeErr := json.Unmarshal(w.Body.Bytes(), &env); decodeErr != nil {
		t.Fatalf("decode envelope from %q: %v", w.Body.String(), decodeErr)
	}
	return w, c, env
}

func TestMappedErrorSentinels(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{usecase.ErrInvalidCredentials, http.StatusUnauthorized, msgInvalidCredentials},
		{usecase.ErrAccountSuspended, http.StatusForbidden, msgAccountSuspended},
		{usecase.ErrEmailTaken, http.StatusConflict, msgEmailTaken},
		{usecase.ErrUnauthenticated, http.StatusUnauthorized, msgNotAuthenticated},
	}

	for _, tc := range cases {
		w, _, env := mappedResponse(t, tc.err)
		if w.Code != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, w.Code)
		}
		if env.Success || env.Message != tc.message {
			t.Fatalf("%v: unexpected envelope %+v", tc.err, env)
		}
	}
}

func TestMappedErrorValidationJoinsViolations(t *testing.T) {
	violations := []string{
		"First name must be at least 2 characters long",
		"Please enter a valid email address",
	}
	w, _, env := mappedResponse(t, &usecase.ValidationError{Violations: violations})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	want := "First name must be at least 2 characters long, Please enter a valid email address"
	if env.Message != want {
		t.Fatalf("expected joined message %q, got %q", want, env.Message)
	}
}

func TestMappedErrorRateLimit(t *testing.T) {
	w, _, env := mappedResponse(t, &usecase.RateLimitExceededError{Scope: "login", RetryAfter: 90 * time.Second})

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "90" {
		t.Fatalf("expected Retry-After 90, got %q", w.Header().Get("Retry-After"))
	}
	if env.Message != msgRateLimited {
		t.Fatalf("unexpected message %q", env.Message)
	}
}

func TestMappedErrorInternalIsOpaqueAndRecorded(t *testing.T) {
	cause := errors.New("pool exhausted")
	w, c, env := mappedResponse(t, cause)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if env.Message != msgInternalError {
		t.Fatalf("internal cause must not leak, got %q", env.Message)
	}

	// The cause rides on the context so the access logger reports it.
	if len(c.Errors) != 1 || !errors.Is(c.Errors[0].Err, cause) {
		t.Fatalf("expected cause recorded on context, got %v", c.Errors)
	}
}
