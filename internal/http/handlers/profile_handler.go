package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/review-outreach/internal/services"
)

// BusinessProfileRequest updates the business profile. Omitted fields are
// kept. business_hours accepts either a string or any JSON object, which is
// stored as its JSON text.
type BusinessProfileRequest struct {
	Name           *string         `json:"name"           example:"Corner Cafe"`
	Type           *string         `json:"type"           example:"Coffee Shop"`
	Phone          *string         `json:"phone"          example:"+1 555 123 4567"`
	Address        *string         `json:"address"        example:"1 Main St"`
	Description    *string         `json:"description"`
	Website        *string         `json:"website"        example:"https://corner.example"`
	Facebook       *string         `json:"facebook"`
	Instagram      *string         `json:"instagram"`
	GoogleBusiness *string         `json:"googleBusiness"`
	BusinessHours  json.RawMessage `json:"business_hours" swaggertype:"object"`
}

// GetBusinessProfile godoc
// @ID          getBusinessProfile
// @Summary     Get the business profile
// @Tags        Profile
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  domain.User
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Router      /business-profile [get]
func (h *Handlers) GetBusinessProfile(c *gin.Context) {
	u, authed := h.currentUser(c)
	if !authed {
		return
	}
	ok(c, http.StatusOK, u)
}

// UpdateBusinessProfile godoc
// @ID          updateBusinessProfile
// @Summary     Update the business profile
// @Tags        Profile
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       body  body  handlers.BusinessProfileRequest  true  "Profile fields"
//
// @Success     200  {object}  domain.User
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Router      /business-profile [put]
func (h *Handlers) UpdateBusinessProfile(c *gin.Context) {
	uid, authed := currentUserID(c)
	if !authed {
		return
	}
	var req BusinessProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.users.UpdateProfile(c.Request.Context(), uid, services.ProfilePatch{
		BusinessName:   req.Name,
		BusinessType:   req.Type,
		Phone:          req.Phone,
		Address:        req.Address,
		Description:    req.Description,
		Website:        req.Website,
		Facebook:       req.Facebook,
		Instagram:      req.Instagram,
		GoogleBusiness: req.GoogleBusiness,
		BusinessHours:  hoursText(req.BusinessHours),
	})
	if err != nil {
		failService(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, u)
}

// hoursText turns the raw business_hours value into stored text: nil when
// absent, the string itself for a JSON string, compact JSON otherwise.
func hoursText(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		s = string(raw)
		return &s
	}
	s = buf.String()
	return &s
}
