package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/review-outreach/internal/http/middleware"
)

const jsonContentType = "application/json; charset=utf-8"

// ErrorResponse is the body of every non-2xx answer.
//
//	HTTP/1.1 400 Bad Request
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "validation_failed",
//	  "message": "invalid input",
//	  "details": { "email": "Enter a valid email address." }
//	}
type ErrorResponse struct {
	// Echo of X-Request-ID
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable machine-readable code, see the ErrCode constants
	Code string `json:"code" example:"not_found"`
	// Safe to show to the business owner
	Message string `json:"message" example:"contact not found"`
	// Per-field messages on validation failures
	Details map[string]string `json:"details,omitempty"`
}

func fail(c *gin.Context, status int, code, msg string) {
	failDetails(c, status, code, msg, nil)
}

// failDetails aborts with an ErrorResponse. Server errors are logged with
// the request logger together with any error recorded on the context.
func failDetails(c *gin.Context, status int, code, msg string, details map[string]string) {
	if status >= http.StatusInternalServerError {
		ev := middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code)
		if err := c.Errors.Last(); err != nil {
			ev = ev.Err(err.Err)
		}
		ev.Msg(msg)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
		Details:   details,
	})
}

// Fail lets the router answer with the same envelope, e.g. for 404 and 405.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// rawJSON writes an already encoded body, as stored for idempotent replays.
func rawJSON(c *gin.Context, status int, raw []byte) {
	c.Data(status, jsonContentType, raw)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
