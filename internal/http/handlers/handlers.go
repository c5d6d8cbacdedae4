// Package handlers provides HTTP handler implementations for the public API.
//
// Handlers are transport-thin: they bind and check input, call application
// services, and translate results into HTTP responses. Every handler except
// register and login runs behind middleware.Auth and reads the account id it
// stored in the Gin context.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/review-outreach/internal/domain"
	"github.com/tbourn/review-outreach/internal/http/middleware"
	"github.com/tbourn/review-outreach/internal/places"
	"github.com/tbourn/review-outreach/internal/services"
	"github.com/tbourn/review-outreach/internal/utils"
)

//
// Service contracts (context-aware)
//

// ContactService defines contact CRUD consumed by HTTP handlers.
type ContactService interface {
	Create(ctx context.Context, userID string, in services.ContactInput) (*domain.Contact, error)
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Contact, int64, error)
	Get(ctx context.Context, userID, id string) (*domain.Contact, error)
	Update(ctx context.Context, userID, id string, p services.ContactPatch) (*domain.Contact, error)
	Delete(ctx context.Context, userID, id string) error
}

// OutreachService sends review request emails.
type OutreachService interface {
	SendContact(ctx context.Context, u *domain.User, contactID string) (*domain.Contact, bool, error)
	SendMany(ctx context.Context, u *domain.User, ids []string) (services.BulkResult, error)
}

// UserService covers registration, login and the business profile.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, p services.ProfilePatch) (*domain.User, error)
}

// PlacesClient looks businesses up in the public directory.
type PlacesClient interface {
	Search(ctx context.Context, query, location string) ([]places.Place, error)
	Details(ctx context.Context, placeID string) (*places.PlaceDetails, error)
	Photo(ctx context.Context, ref string) (*places.PhotoData, error)
}

//
// Handler wiring
//

// Deps are the collaborators of Handlers. DB is optional; without it list
// ETags and idempotent replays are disabled.
type Deps struct {
	Contacts ContactService
	Outreach OutreachService
	Users    UserService
	Places   PlacesClient

	DB             *gorm.DB
	IdempotencyTTL time.Duration
}

// Handlers groups the HTTP endpoints of the API.
type Handlers struct {
	contacts ContactService
	outreach OutreachService
	users    UserService
	places   PlacesClient

	db      *gorm.DB
	idemTTL time.Duration
}

// New constructs a Handlers instance bound to d.
func New(d Deps) *Handlers {
	ttl := d.IdempotencyTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Handlers{
		contacts: d.Contacts,
		outreach: d.Outreach,
		users:    d.Users,
		places:   d.Places,
		db:       d.DB,
		idemTTL:  ttl,
	}
}

// currentUserID returns the authenticated account id, answering 401 itself
// when there is none.
func currentUserID(c *gin.Context) (string, bool) {
	uid, ok := middleware.UserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
	}
	return uid, ok
}

// currentUser loads the authenticated account.
func (h *Handlers) currentUser(c *gin.Context) (*domain.User, bool) {
	uid, ok := currentUserID(c)
	if !ok {
		return nil, false
	}
	u, err := h.users.Profile(c.Request.Context(), uid)
	if err != nil {
		failService(c, err, ErrCodeInternal)
		return nil, false
	}
	return u, true
}

// accountID is currentUser for handlers that only need the id. A token whose
// account was deleted gets 401 here rather than failing later in a query.
func (h *Handlers) accountID(c *gin.Context) (string, bool) {
	u, ok := h.currentUser(c)
	if !ok {
		return "", false
	}
	return u.ID, true
}

//
// DTOs shared by list endpoints
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// MessageResponse is a plain acknowledgement body.
type MessageResponse struct {
	Message string `json:"message" example:"Contact deleted successfully!"`
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 50
		maxPageSize     = 200
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.Clamp(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return
}

func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := utils.TotalPages(total, pageSize)
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// bindJSON binds the body into dst, answering 400 itself on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if details, ok := bindingDetails(err); ok {
			failDetails(c, http.StatusBadRequest, ErrCodeValidation, "invalid input", details)
			return false
		}
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return false
	}
	return true
}
