package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "unit-test-secret"

func TestCreateAndParse(t *testing.T) {
	token, err := CreateAccessToken(secret, "user-7", "admin", "ops@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := ParseValidate(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-7", claims.Sub)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "ops@example.com", claims.Email)
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := CreateAccessToken(secret, "user-7", "admin", "ops@example.com", time.Hour)
	require.NoError(t, err)

	_, err = ParseValidate("another-secret", token)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	token, err := CreateAccessToken(secret, "user-7", "admin", "ops@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = ParseValidate(secret, token)
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	var got *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := Middleware(secret)(next)

	t.Run("no header", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("malformed token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := CreateAccessToken(secret, "user-7", "viewer", "ops@example.com", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, got)
		assert.Equal(t, "user-7", got.Sub)
		assert.Equal(t, "viewer", got.Role)
	})
}
