// Outreach endpoints: single and bulk review request sends. Both accept an
// Idempotency-Key; see idempotency.go.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/review-outreach/internal/domain"
)

// BulkEmailRequest is the JSON payload for a bulk send.
type BulkEmailRequest struct {
	ContactIDs []string `json:"contact_ids" example:"8f9c1a7e-8d7e-4d1a-9e6b-3c2f7b3b2e1a"`
}

// BulkEmailResponse reports the outcome of a bulk send. TotalSent always
// equals SuccessCount.
type BulkEmailResponse struct {
	SuccessCount int `json:"success_count" example:"2"`
	FailedCount  int `json:"failed_count"  example:"1"`
	TotalSent    int `json:"total_sent"    example:"2"`
}

// SendResponse is returned by a successful single send.
type SendResponse struct {
	Sent    bool            `json:"sent"    example:"true"`
	Contact *domain.Contact `json:"contact"`
}

// SendReviewEmail godoc
// @ID          sendReviewEmail
// @Summary     Send a review request to one contact
// @Description Renders and sends the review request email, then marks the contact as sent. Supports Idempotency-Key.
// @Tags        Outreach
// @Produce     json
// @Security    BearerAuth
//
// @Param       id               path    string  true   "Contact ID (UUID)"  format(uuid)
// @Param       Idempotency-Key  header  string  false  "Idempotency key for safe retries"
//
// @Success     200  {object}  handlers.SendResponse
// @Header      200  {string}  Idempotency-Replayed  "true when served from a stored result"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Contact not found"
// @Failure     422  {object}  handlers.ErrorResponse  "Idempotency-Key reused for a different request"
// @Failure     500  {object}  handlers.ErrorResponse  "Delivery failed"
// @Router      /contacts/{id}/send [post]
func (h *Handlers) SendReviewEmail(c *gin.Context) {
	u, authed := h.currentUser(c)
	if !authed || h.replay(c) {
		return
	}

	contact, sent, err := h.outreach.SendContact(c.Request.Context(), u, c.Param("id"))
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	if !sent {
		fail(c, http.StatusInternalServerError, ErrCodeDeliveryFailed, "failed to send review email")
		return
	}
	h.respondStored(c, u.ID, SendResponse{Sent: true, Contact: contact})
}

// BulkEmail godoc
// @ID          bulkEmail
// @Summary     Send review requests to many contacts
// @Description Sends to every listed contact owned by the caller, in order. Unknown ids are ignored; repeated ids are sent again. Individual failures are counted, never fatal. Supports Idempotency-Key.
// @Tags        Outreach
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body             body    handlers.BulkEmailRequest  true   "Contact ids"
// @Param       Idempotency-Key  header  string                     false  "Idempotency key for safe retries"
//
// @Success     200  {object}  handlers.BulkEmailResponse
// @Header      200  {string}  Idempotency-Replayed  "true when served from a stored result"
// @Failure     400  {object}  handlers.ErrorResponse  "Empty or oversized id list"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     422  {object}  handlers.ErrorResponse  "Idempotency-Key reused for a different request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /contacts/bulk-email [post]
func (h *Handlers) BulkEmail(c *gin.Context) {
	u, authed := h.currentUser(c)
	if !authed || h.replay(c) {
		return
	}

	var req BulkEmailRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.outreach.SendMany(c.Request.Context(), u, req.ContactIDs)
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	h.respondStored(c, u.ID, BulkEmailResponse{
		SuccessCount: res.SuccessCount,
		FailedCount:  res.FailedCount,
		TotalSent:    res.TotalSent,
	})
}
