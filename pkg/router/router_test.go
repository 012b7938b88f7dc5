package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobilemart/server/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }

func TestNamedRoutes(t *testing.T) {
	r := router.New()
	r.Get("/products/{categoryId}", "products.byCategory", ok)
	r.Post("/payments", "payments.confirm", ok)

	path, found := r.Path("payments.confirm")
	require.True(t, found)
	assert.Equal(t, "/payments", path)

	_, found = r.Path("nope")
	assert.False(t, found)

	url, err := r.URL("products.byCategory", map[string]string{"categoryId": "cat-1"})
	require.NoError(t, err)
	assert.Equal(t, "/products/cat-1", url)

	_, err = r.URL("products.byCategory", nil)
	assert.Error(t, err, "unfilled placeholders are an error")
}

func TestRoutesSnapshot(t *testing.T) {
	r := router.New()
	r.Get("/a", "a", ok)
	r.Delete("/b", "b", ok)
	r.Put("/c", "", ok) // unnamed routes are not listed

	infos := r.Routes()
	require.Len(t, infos, 2)
	assert.Equal(t, http.MethodGet, infos[0].Method)
	assert.Equal(t, http.MethodDelete, infos[1].Method)
}

func TestGroupMiddlewareOrder(t *testing.T) {
	var order []string
	tag := func(name string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := router.New()
	group := r.Group("/admin", tag("outer"))
	group.Get("/users", "admin.users", ok, tag("inner"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/users", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestGroupPrefixJoining(t *testing.T) {
	r := router.New()
	api := r.Group("/api/")
	v1 := api.Group("v1")
	v1.Get("users", "v1.users", ok)

	path, found := r.Path("v1.users")
	require.True(t, found)
	assert.Equal(t, "/api/v1/users", path)
}
