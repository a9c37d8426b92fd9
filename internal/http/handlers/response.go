// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all
// endpoints: structured error envelopes, consistent JSON serialization,
// and helpers for common HTTP patterns.
//
// Conventions:
//   - All error responses return an ErrorResponse with a stable `code`.
//   - `fail()` centralizes error logging and formatting; 5xx responses
//     are logged with request context.
//   - `ok()` simplifies writing success responses in a consistent shape.
//
// Example error response:
//
//	HTTP/1.1 409 Conflict
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "conflict",
//	  "message": "cannot modify an approved request"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MatiBarber/PetNet/internal/http/middleware"
	"github.com/MatiBarber/PetNet/internal/services"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
//
// RequestID correlates server logs with client-side errors; Code is a
// stable machine-readable string (see errors.go constants); Message is a
// human-readable description safe for display. Fields carries the
// per-field breakdown for validation failures.
type ErrorResponse struct {
	RequestID string                `json:"request_id,omitempty"`
	Code      string                `json:"code"`
	Message   string                `json:"message"`
	Fields    []services.FieldError `json:"fields,omitempty"`
}

// fail aborts the request with a structured error and logs server-side
// errors with the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	failFields(c, status, code, msg, nil)
}

// failFields is fail with an attached field-level error list.
func failFields(c *gin.Context, status int, code, msg string, fields []services.FieldError) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
		Fields:    fields,
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail(). External packages (router
// fallbacks) call it to return consistent envelopes.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
