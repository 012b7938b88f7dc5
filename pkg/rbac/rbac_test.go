package rbac_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mobilemart/server/pkg/middleware"
	"github.com/mobilemart/server/pkg/rbac"
)

// mutableResolver lets a test flip a user's role between requests.
type mutableResolver struct {
	roles map[string]string
}

func (m *mutableResolver) Resolve(_ context.Context, email string) (string, error) {
	role, ok := m.roles[email]
	if !ok {
		return "", errors.New("no such user")
	}
	return role, nil
}

func guarded(resolver rbac.Resolver, role string, reached *bool) http.Handler {
	return rbac.Require(resolver, role)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*reached = true
	}))
}

func requestAs(email string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	return req.WithContext(middleware.WithEmail(req.Context(), email))
}

func TestRequire_MatchingRole(t *testing.T) {
	resolver := &mutableResolver{roles: map[string]string{"admin@example.com": "admin"}}

	var reached bool
	rec := httptest.NewRecorder()
	guarded(resolver, "admin", &reached).ServeHTTP(rec, requestAs("admin@example.com"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

func TestRequire_WrongRole(t *testing.T) {
	resolver := &mutableResolver{roles: map[string]string{"buyer@example.com": "buyer"}}

	var reached bool
	rec := httptest.NewRecorder()
	guarded(resolver, "admin", &reached).ServeHTTP(rec, requestAs("buyer@example.com"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
}

func TestRequire_NoClaim(t *testing.T) {
	resolver := &mutableResolver{roles: map[string]string{}}

	var reached bool
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	guarded(resolver, "admin", &reached).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestRequire_CaseInsensitiveStoredRole(t *testing.T) {
	resolver := &mutableResolver{roles: map[string]string{"admin@example.com": "Admin"}}

	var reached bool
	rec := httptest.NewRecorder()
	guarded(resolver, "admin", &reached).ServeHTTP(rec, requestAs("admin@example.com"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

// A role change must take effect on the very next guarded call with the
// same token; the claim carries no role to go stale.
func TestRequire_RoleChangeTakesEffectImmediately(t *testing.T) {
	resolver := &mutableResolver{roles: map[string]string{"user@example.com": "admin"}}

	var reached bool
	handler := guarded(resolver, "admin", &reached)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs("user@example.com"))
	assert.Equal(t, http.StatusOK, rec.Code)

	resolver.roles["user@example.com"] = "buyer"

	reached = false
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs("user@example.com"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
}

func TestCached_ZeroTTLReturnsInner(t *testing.T) {
	resolver := &mutableResolver{roles: map[string]string{}}
	assert.Equal(t, rbac.Resolver(resolver), rbac.Cached(resolver, 0))
}
