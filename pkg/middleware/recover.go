package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/mobilemart/server/pkg/logger"
	"github.com/mobilemart/server/pkg/response"
)

// Recovery catches any panic in downstream handlers, logs the stack
// trace, and returns a 500 to the client. Wire it before Logger so it
// wraps every handler.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.WithCtx(r.Context()).Error("panic recovered",
					"error", fmt.Sprintf("%v", err),
					"stack", string(debug.Stack()),
					"method", r.Method,
					"path", r.URL.Path,
				)
				response.StoreError(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
