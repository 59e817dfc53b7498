// Package handlers provides the HTTP handlers of the service: the error page
// embed endpoint and the operational probes.
//
// This file defines the shared response helpers. Error responses use one
// envelope with a stable `code`; fail() logs 5xx responses with the
// request-scoped logger.
//
// Example error response:
//
//	HTTP/1.1 500 Internal Server Error
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "submit_failed",
//	  "message": "could not store report"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-errpage-embed/internal/http/middleware"
)

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"resource not found"`
}

// ValidationErrorResponse is returned by the embed endpoint when a submitted
// report fails validation. Keys are form field names.
type ValidationErrorResponse struct {
	Errors map[string][]string `json:"errors" example:"email:Enter a valid email address."`
}

// fail aborts the request with the error envelope. Server errors (>=500) are
// logged with the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail, used by the router fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// empty aborts with status and no body.
func empty(c *gin.Context, status int) {
	c.AbortWithStatus(status)
}
