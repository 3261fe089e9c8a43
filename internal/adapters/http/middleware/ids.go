// Package middleware provides HTTP middleware components for the Gin server.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/reqscope/reqscope/internal/platform/logging"
)

const (
	// HeaderRequestID is the header carrying the per-request ID.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID is the header carrying the cross-service
	// correlation ID propagated from upstream callers.
	HeaderCorrelationID = "X-Correlation-ID"
)

// contextKey is a private type so our context keys cannot collide.
type contextKey string

const (
	ctxKeyRequestID     contextKey = "request_id"
	ctxKeyCorrelationID contextKey = "correlation_id"
)

// RequestID returns middleware that extracts the request ID from the
// X-Request-ID header or generates a UUID when absent. The ID is echoed on
// the response, stored in the request context, and attached to the context
// logger.
func RequestID() gin.HandlerFunc {
	return trackedID(HeaderRequestID, ctxKeyRequestID, logging.WithRequestID)
}

// CorrelationID returns middleware for the correlation ID. Unlike the
// request ID, a correlation ID survives across service boundaries: it is
// propagated when present and minted only at the transaction origin.
func CorrelationID() gin.HandlerFunc {
	return trackedID(HeaderCorrelationID, ctxKeyCorrelationID, logging.WithCorrelationID)
}

// trackedID is the shared implementation behind both ID middlewares.
func trackedID(
	header string,
	key contextKey,
	enrich func(ctx context.Context, id string) context.Context,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if id == "" {
			id = uuid.New().String()
		}

		c.Header(header, id)

		ctx := context.WithValue(c.Request.Context(), key, id)
		c.Request = c.Request.WithContext(enrich(ctx, id))

		c.Next()
	}
}

// RequestIDFromContext returns the request ID stored in ctx, or "" when the
// middleware did not run.
func RequestIDFromContext(ctx context.Context) string {
	return idFromContext(ctx, ctxKeyRequestID)
}

// CorrelationIDFromContext returns the correlation ID stored in ctx, or ""
// when the middleware did not run.
func CorrelationIDFromContext(ctx context.Context) string {
	return idFromContext(ctx, ctxKeyCorrelationID)
}

func idFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}

	if id, ok := ctx.Value(key).(string); ok {
		return id
	}

	return ""
}
