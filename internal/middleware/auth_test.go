package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fincoach/fincoach/internal/config"
)

func signToken(t *testing.T, secret, subject string, ttl time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func runMiddleware(cfg *config.Config, authHeader string) (*httptest.ResponseRecorder, string) {
	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	AuthMiddleware(cfg)(next).ServeHTTP(rec, req)
	return rec, gotUserID
}

func TestUserIDContextRoundTrip(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)

	ctx := ContextWithUserID(context.Background(), "42")
	id, ok := UserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "42", id)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	token := signToken(t, cfg.JWTSecret, "42", time.Hour)

	rec, userID := runMiddleware(cfg, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", userID)
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	rec, _ := runMiddleware(&config.Config{JWTSecret: "test-secret"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareWrongScheme(t *testing.T) {
	rec, _ := runMiddleware(&config.Config{JWTSecret: "test-secret"}, "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareWrongSecret(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	token := signToken(t, "other-secret", "42", time.Hour)

	rec, _ := runMiddleware(cfg, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	token := signToken(t, cfg.JWTSecret, "42", -time.Minute)

	rec, _ := runMiddleware(cfg, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
