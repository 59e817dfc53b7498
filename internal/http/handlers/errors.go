// Package handlers defines HTTP-layer error codes used by the JSON error
// envelope.
//
// The embed endpoint answers its precondition failures (400/403/404) with
// empty bodies, as browsers embedding the widget never read them. The
// envelope is used for everything else: unknown routes, wrong methods,
// rate limiting, readiness and server errors.
//
// Codes are lowercase snake_case and mirror HTTP status semantics. Clients
// branch on the code, not on the message.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "method_not_allowed",
//	  "message": "method not allowed"
//	}
package handlers

const (
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeUnavailable      = "unavailable"

	// Domain-specific:
	ErrCodeRenderFailed = "render_failed"
	ErrCodeSubmitFailed = "submit_failed"
)
