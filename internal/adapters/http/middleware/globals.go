package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reqscope/reqscope/internal/app/globals"
)

// Globals returns middleware that opens a fresh globals scope for each
// request and guarantees its release when the request finishes, whether the
// handler returns normally, panics, or the request is canceled.
//
// The middleware is purely a lifecycle boundary: it never reads or writes
// the request or response payload. Handlers and anything they call reach the
// scope through globals.G with the request context.
func Globals() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, handle := globals.Begin(c.Request.Context())
		defer handle.Release()

		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// WrapHandler provides the same scope lifecycle for plain net/http
// pipelines, for servers that are not built on Gin.
func WrapHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, handle := globals.Begin(r.Context())
		defer handle.Release()

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
