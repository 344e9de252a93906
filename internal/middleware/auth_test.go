package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/marelvy/linkpulse/internal/logger"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func authProbe(t *testing.T, header string) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var gotOwner string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOwner, _ = OwnerID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/overall", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()

	Auth(testSecret, logger.Discard())(inner).ServeHTTP(rec, req)
	return rec, gotOwner
}

func TestAuth_ValidToken(t *testing.T) {
	rec, owner := authProbe(t, "Bearer "+signToken(t, testSecret, "user-42"))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if owner != "user-42" {
		t.Errorf("Expected owner from subject claim, got: %q", owner)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	rec, _ := authProbe(t, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestAuth_WrongSecret(t *testing.T) {
	rec, _ := authProbe(t, "Bearer "+signToken(t, []byte("other-secret"), "user-42"))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	signed, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	rec, _ := authProbe(t, "Bearer "+signed)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestAuth_EmptySubject(t *testing.T) {
	rec, _ := authProbe(t, "Bearer "+signToken(t, testSecret, ""))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for token without subject, got %d", rec.Code)
	}
}
