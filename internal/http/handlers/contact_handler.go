// Contact HTTP handlers.
//
// This file exposes REST endpoints for the contact store:
//   - GET    /contacts        (list, paginated, ETag support)
//   - POST   /contacts        (create)
//   - GET    /contacts/{id}   (read)
//   - PUT    /contacts/{id}   (partial update)
//   - DELETE /contacts/{id}   (delete)
//
// A contact owned by another account is reported as 404, exactly like a
// missing one.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/review-outreach/internal/domain"
	"github.com/tbourn/review-outreach/internal/http/middleware"
	"github.com/tbourn/review-outreach/internal/repo"
	"github.com/tbourn/review-outreach/internal/services"
)

// CreateContactRequest is the JSON payload for creating a contact.
type CreateContactRequest struct {
	Name            string  `json:"name"              binding:"required" example:"Jane Doe"`
	Phone           string  `json:"phone"             binding:"required" example:"+1 555 123 4567"`
	Email           string  `json:"email"             binding:"required" example:"jane@example.com"`
	BusinessName    *string `json:"business_name"     example:"Joe's Diner"`
	BusinessPlaceID *string `json:"business_place_id" example:"ChIJN1t_tDeuEmsRUsoyG83frY4"`
	BusinessAddress *string `json:"business_address"  example:"1 Main St, Springfield"`
}

// UpdateContactRequest is a partial update; omitted fields are unchanged.
type UpdateContactRequest struct {
	Name            *string `json:"name"`
	Phone           *string `json:"phone"`
	Email           *string `json:"email"`
	BusinessName    *string `json:"business_name"`
	BusinessPlaceID *string `json:"business_place_id"`
	BusinessAddress *string `json:"business_address"`
}

// ListContactsResponse wraps a page of contacts and pagination information.
type ListContactsResponse struct {
	Contacts   []domain.Contact `json:"contacts"`
	Pagination Pagination       `json:"pagination"`
}

// ListContacts godoc
// @ID          listContacts
// @Summary     List contacts (paginated)
// @Description Returns a page of the user's contacts, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Contacts
// @Produce     json
// @Security    BearerAuth
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(200) default(50)
//
// @Success     200  {object} handlers.ListContactsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /contacts [get]
func (h *Handlers) ListContacts(c *gin.Context) {
	uid, authed := h.accountID(c)
	if !authed {
		return
	}
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if h.db != nil {
		st, err := repo.ContactsStats(ctx, h.db, uid)
		if err == nil {
			etag := fmt.Sprintf(`W/"contacts:%s:%s:%d:%d"`, uid, st.Version(), page, pageSize)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.contacts.ListPage(ctx, uid, page, pageSize)
	if err != nil {
		failService(c, err, ErrCodeListFailed)
		return
	}
	if items == nil {
		items = []domain.Contact{}
	}
	ok(c, http.StatusOK, ListContactsResponse{
		Contacts:   items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// CreateContact godoc
// @ID          createContact
// @Summary     Create a contact
// @Description Creates a contact and derives its review links. The email must be unique per account (case-sensitive).
// @Tags        Contacts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.CreateContactRequest  true  "Contact"
//
// @Success     201  {object}  domain.Contact
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed or duplicate email"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /contacts [post]
func (h *Handlers) CreateContact(c *gin.Context) {
	uid, authed := h.accountID(c)
	if !authed {
		return
	}
	var req CreateContactRequest
	if !bindJSON(c, &req) {
		return
	}

	contact, err := h.contacts.Create(c.Request.Context(), uid, services.ContactInput{
		Name:            req.Name,
		Phone:           req.Phone,
		Email:           req.Email,
		BusinessName:    req.BusinessName,
		BusinessPlaceID: req.BusinessPlaceID,
		BusinessAddress: req.BusinessAddress,
	})
	if err != nil {
		failService(c, err, ErrCodeCreateFailed)
		return
	}
	middleware.LoggerFrom(c).Info().Str("contact_id", contact.ID).Msg("contact created")
	ok(c, http.StatusCreated, contact)
}

// GetContact godoc
// @ID          getContact
// @Summary     Get a contact
// @Tags        Contacts
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Contact ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.Contact
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Contact not found"
// @Router      /contacts/{id} [get]
func (h *Handlers) GetContact(c *gin.Context) {
	uid, authed := h.accountID(c)
	if !authed {
		return
	}
	contact, err := h.contacts.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, contact)
}

// UpdateContact godoc
// @ID          updateContact
// @Summary     Update a contact
// @Description Partially updates a contact. Review links already derived are never recomputed.
// @Tags        Contacts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       id    path  string                          true  "Contact ID (UUID)"  format(uuid)
// @Param       body  body  handlers.UpdateContactRequest   true  "Fields to change"
//
// @Success     200  {object}  domain.Contact
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed or duplicate email"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Contact not found"
// @Router      /contacts/{id} [put]
func (h *Handlers) UpdateContact(c *gin.Context) {
	uid, authed := h.accountID(c)
	if !authed {
		return
	}
	var req UpdateContactRequest
	if !bindJSON(c, &req) {
		return
	}

	contact, err := h.contacts.Update(c.Request.Context(), uid, c.Param("id"), services.ContactPatch{
		Name:            req.Name,
		Phone:           req.Phone,
		Email:           req.Email,
		BusinessName:    req.BusinessName,
		BusinessPlaceID: req.BusinessPlaceID,
		BusinessAddress: req.BusinessAddress,
	})
	if err != nil {
		failService(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, contact)
}

// DeleteContact godoc
// @ID          deleteContact
// @Summary     Delete a contact
// @Tags        Contacts
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Contact ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.MessageResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Contact not found"
// @Router      /contacts/{id} [delete]
func (h *Handlers) DeleteContact(c *gin.Context) {
	uid, authed := h.accountID(c)
	if !authed {
		return
	}
	if err := h.contacts.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		failService(c, err, ErrCodeDeleteFailed)
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: "Contact deleted successfully!"})
}
