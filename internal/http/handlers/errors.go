// Error codes returned in ErrorResponse.code, and the mapping from service
// errors to status and code. Codes are lowercase snake_case; the generic ones
// mirror HTTP status semantics, the rest name business outcomes such as
// duplicate_contact or delivery_failed.

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/review-outreach/internal/places"
	"github.com/tbourn/review-outreach/internal/services"
)

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeNotFound     = "not_found"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeValidation         = "validation_failed"
	ErrCodeDuplicateContact   = "duplicate_contact"
	ErrCodeEmailTaken         = "email_taken"
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeDeliveryFailed     = "delivery_failed"
	ErrCodeUpstreamFailed     = "upstream_failed"
	ErrCodeCreateFailed       = "create_failed"
	ErrCodeListFailed         = "list_failed"
	ErrCodeUpdateFailed       = "update_failed"
	ErrCodeDeleteFailed       = "delete_failed"
	ErrCodeMethodNotAllowed   = "method_not_allowed"
)

// failService maps a service error to a response. Unrecognized errors become
// a 500 carrying fallbackCode; their text is not exposed to the client.
func failService(c *gin.Context, err error, fallbackCode string) {
	var ve *services.ValidationError
	switch {
	case errors.Is(err, services.ErrDuplicateContact):
		msg := services.ErrDuplicateContact.Error()
		failDetails(c, http.StatusBadRequest, ErrCodeDuplicateContact, msg, map[string]string{"email": msg})
	case errors.Is(err, services.ErrEmailTaken) && errors.As(err, &ve):
		failDetails(c, http.StatusBadRequest, ErrCodeEmailTaken, services.ErrEmailTaken.Error(), ve.Fields)
	case errors.As(err, &ve):
		failDetails(c, http.StatusBadRequest, ErrCodeValidation, "invalid input", ve.Fields)
	case errors.Is(err, services.ErrContactNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "contact not found")
	case errors.Is(err, places.ErrPlaceNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "place not found")
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid email or password")
	case errors.Is(err, services.ErrUserNotFound):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "account not found")
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, fallbackCode, "internal server error")
	}
}
