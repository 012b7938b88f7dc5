package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mobilemart/server/pkg/auth"
	"github.com/mobilemart/server/pkg/response"
)

type emailKey struct{}

// EmailFromCtx returns the verified email claim attached by Auth.
func EmailFromCtx(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailKey{}).(string)
	return email, ok
}

// WithEmail stores a verified email claim in ctx. Exposed for tests
// that exercise guarded handlers without the full middleware chain.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey{}, email)
}

// Auth is the bearer-token gate in front of every protected route.
// A missing Authorization header is rejected before anything else runs,
// so an unauthenticated request never reaches the store. On success the
// verified email claim is attached to the request context for the
// handler and for rbac.Require.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			response.Unauthorized(w)
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")

		claims, err := auth.Verify(token)
		if err != nil {
			response.Unauthorized(w)
			return
		}

		ctx := WithEmail(r.Context(), claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
