package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobilemart/server/pkg/auth"
	"github.com/mobilemart/server/pkg/middleware"
)

func protected(t *testing.T, reached *bool) http.Handler {
	t.Helper()
	return middleware.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*reached = true
		email, ok := middleware.EmailFromCtx(r.Context())
		assert.True(t, ok)
		assert.Equal(t, "buyer@example.com", email)
	}))
}

func TestAuth_MissingHeader(t *testing.T) {
	var reached bool
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)

	protected(t, &reached).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached, "handler must not run without a credential")
}

func TestAuth_BadToken(t *testing.T) {
	var reached bool
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	protected(t, &reached).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestAuth_ValidToken(t *testing.T) {
	token, err := auth.Issue("buyer@example.com", time.Hour)
	require.NoError(t, err)

	var reached bool
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	protected(t, &reached).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}
