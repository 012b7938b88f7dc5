// Package rbac provides role-based access control middleware.
//
// Roles are never read from the token: Require re-resolves the caller's
// stored role on every guarded call, so demoting a user takes effect
// immediately at the cost of one store lookup per request. An optional
// cached resolver trades that freshness for latency; it is off unless
// explicitly configured.
package rbac

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/mobilemart/server/pkg/cache"
	"github.com/mobilemart/server/pkg/middleware"
	"github.com/mobilemart/server/pkg/response"
)

// Resolver looks up the stored role for an email.
type Resolver interface {
	Resolve(ctx context.Context, email string) (string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, email string) (string, error)

func (f ResolverFunc) Resolve(ctx context.Context, email string) (string, error) {
	return f(ctx, email)
}

// Require returns middleware that allows access only when the caller's
// stored role matches role. Must be wired after middleware.Auth — the
// email claim has to be in the context already. Roles compare
// case-insensitively; the stored casing is not trusted.
func Require(resolver Resolver, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, ok := middleware.EmailFromCtx(r.Context())
			if !ok {
				response.Unauthorized(w)
				return
			}

			stored, err := resolver.Resolve(r.Context(), email)
			if err != nil || !strings.EqualFold(stored, role) {
				response.Forbidden(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Cached wraps a Resolver with a redis-backed cache. Entries live for
// ttl; a ttl of zero disables caching and returns inner unchanged.
func Cached(inner Resolver, ttl time.Duration) Resolver {
	if ttl <= 0 {
		return inner
	}
	return ResolverFunc(func(ctx context.Context, email string) (string, error) {
		key := "role:" + strings.ToLower(email)

		var role string
		if cache.Get(key, &role) {
			return role, nil
		}

		role, err := inner.Resolve(ctx, email)
		if err != nil {
			return "", err
		}
		_ = cache.Set(key, role, ttl)
		return role, nil
	})
}
