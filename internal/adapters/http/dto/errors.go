// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/reqscope/reqscope/internal/app/globals"
)

// ErrorResponse is the standard error envelope for all error responses.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	// Code is a machine-readable error code (e.g., "ATTRIBUTE_NOT_FOUND").
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`
}

// Error codes for machine-readable error identification.
const (
	// ErrorCodeAttributeNotFound indicates a strict read of an attribute that
	// was never set in the request's scope.
	ErrorCodeAttributeNotFound = "ATTRIBUTE_NOT_FOUND"

	// ErrorCodeScopeUnbound indicates globals access outside any request
	// lifecycle; a programming error, surfaced as an internal error.
	ErrorCodeScopeUnbound = "SCOPE_UNBOUND"

	// ErrorCodeInternal indicates an internal server error.
	ErrorCodeInternal = "INTERNAL_ERROR"

	// ErrorCodeTimeout indicates the request timed out.
	ErrorCodeTimeout = "TIMEOUT"

	// ErrorCodeBadRequest indicates the request was malformed.
	ErrorCodeBadRequest = "BAD_REQUEST"
)

// NewErrorResponse creates a new error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeAttributeNotFound:
		return http.StatusNotFound
	case ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// MapError maps an application error to an HTTP status and error envelope.
// Unknown errors become 500 with a generic message to avoid leaking internals.
func MapError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch {
	case errors.Is(err, globals.ErrAttributeNotFound):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeAttributeNotFound, err.Error())

	case errors.Is(err, globals.ErrScopeUnbound):
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeScopeUnbound, err.Error())

	default:
		return http.StatusInternalServerError, NewErrorResponse(
			ErrorCodeInternal,
			"an internal error occurred",
		)
	}
}

// HandleError writes the mapped error response, attaching the current trace
// ID when one is recorded on the request.
func HandleError(c *gin.Context, err error) {
	status, errResp := MapError(err)

	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		errResp.TraceID = span.SpanContext().TraceID().String()
	}

	c.JSON(status, errResp)
}
