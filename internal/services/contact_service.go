// Package services – ContactService
//
// This file implements ContactService, which owns the lifecycle of a user's
// customer contacts. It validates input, enforces the per-user email
// uniqueness rule, and makes sure the generic and directory review links are
// derived exactly once.
//
// Every operation takes the owning user id explicitly; a contact owned by
// another user is reported as ErrContactNotFound.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/review-outreach/internal/domain"
	"github.com/tbourn/review-outreach/internal/repo"
	"github.com/tbourn/review-outreach/internal/utils"
)

// validate is shared; validator.Validate caches struct metadata and is safe
// for concurrent use.
var validate = validator.New()

// ContactRepo defines the repository contract required by ContactService.
type ContactRepo interface {
	CreateContact(ctx context.Context, db *gorm.DB, c *domain.Contact, reviewBaseURL string) (*domain.Contact, error)
	ListContacts(ctx context.Context, db *gorm.DB, userID string) ([]domain.Contact, error)
	CountContacts(ctx context.Context, db *gorm.DB, userID string) (int64, error)
	ListContactsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Contact, error)
	GetContact(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Contact, error)
	EmailInUse(ctx context.Context, db *gorm.DB, userID, email, excludeID string) (bool, error)
	SaveContact(ctx context.Context, db *gorm.DB, c *domain.Contact) error
	DeleteContact(ctx context.Context, db *gorm.DB, id, userID string) error
}

// ContactInput carries the fields accepted when creating a contact.
type ContactInput struct {
	Name            string
	Phone           string
	Email           string
	BusinessName    *string
	BusinessPlaceID *string
	BusinessAddress *string
}

// ContactPatch carries a partial update; nil fields are left unchanged. An
// empty string for an optional business field clears it.
type ContactPatch struct {
	Name            *string
	Phone           *string
	Email           *string
	BusinessName    *string
	BusinessPlaceID *string
	BusinessAddress *string
}

// ContactService provides create, list, get, update and delete for contacts.
type ContactService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the contact repository used by this service.
	Repo ContactRepo
	// ReviewBaseURL prefixes generic review links ("<base>/review/<id>").
	ReviewBaseURL string
}

// NewContactService constructs a ContactService. An empty reviewBaseURL falls
// back to domain.DefaultReviewBaseURL.
func NewContactService(db *gorm.DB, r ContactRepo, reviewBaseURL string) *ContactService {
	if strings.TrimSpace(reviewBaseURL) == "" {
		reviewBaseURL = domain.DefaultReviewBaseURL
	}
	return &ContactService{DB: db, Repo: r, ReviewBaseURL: reviewBaseURL}
}

// Create validates in and inserts a new contact for userID. The email is
// compared case-sensitively against the user's existing contacts.
func (s *ContactService) Create(ctx context.Context, userID string, in ContactInput) (*domain.Contact, error) {
	ctx, span := otel.Tracer("services/ContactService").Start(ctx, "Create",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	c := &domain.Contact{
		UserID:          userID,
		Name:            strings.TrimSpace(in.Name),
		Phone:           strings.TrimSpace(in.Phone),
		Email:           strings.TrimSpace(in.Email),
		BusinessName:    optional(in.BusinessName),
		BusinessPlaceID: optional(in.BusinessPlaceID),
		BusinessAddress: optional(in.BusinessAddress),
	}
	if err := validateContact(c); err != nil {
		return nil, err
	}

	taken, err := s.Repo.EmailInUse(ctx, s.DB, userID, c.Email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateContact
	}

	created, err := s.Repo.CreateContact(ctx, s.DB, c, s.ReviewBaseURL)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil, ErrDuplicateContact
	}
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("contact.id", created.ID))
	return created, nil
}

// List returns all contacts owned by userID, newest first.
func (s *ContactService) List(ctx context.Context, userID string) ([]domain.Contact, error) {
	items, err := s.Repo.ListContacts(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Contact{}
	}
	return items, nil
}

// ListPage returns a page of contacts for userID and the total count.
// It applies defaults for invalid page/pageSize.
func (s *ContactService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Contact, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	offset := utils.Offset(page, pageSize)

	total, err := s.Repo.CountContacts(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Contact{}, 0, nil
	}

	items, err := s.Repo.ListContactsPage(ctx, s.DB, userID, offset, pageSize)
	return items, total, err
}

// Get returns one contact owned by userID.
func (s *ContactService) Get(ctx context.Context, userID, id string) (*domain.Contact, error) {
	c, err := s.Repo.GetContact(ctx, s.DB, id, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrContactNotFound
	}
	return c, err
}

// Update applies p to the contact id owned by userID. Derived links that are
// already set are kept; a directory link is filled once when a place id is
// added to a contact that never had one.
func (s *ContactService) Update(ctx context.Context, userID, id string, p ContactPatch) (*domain.Contact, error) {
	ctx, span := otel.Tracer("services/ContactService").Start(ctx, "Update",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("contact.id", id),
		),
	)
	defer span.End()

	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	emailChanged := false
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.Phone != nil {
		c.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Email != nil {
		email := strings.TrimSpace(*p.Email)
		emailChanged = email != c.Email
		c.Email = email
	}
	if p.BusinessName != nil {
		c.BusinessName = optional(p.BusinessName)
	}
	if p.BusinessPlaceID != nil {
		c.BusinessPlaceID = optional(p.BusinessPlaceID)
	}
	if p.BusinessAddress != nil {
		c.BusinessAddress = optional(p.BusinessAddress)
	}
	if err := validateContact(c); err != nil {
		return nil, err
	}

	if emailChanged {
		taken, err := s.Repo.EmailInUse(ctx, s.DB, userID, c.Email, c.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicateContact
		}
	}

	c.DeriveLinks(s.ReviewBaseURL)
	if err := s.Repo.SaveContact(ctx, s.DB, c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateContact
		}
		return nil, err
	}
	return c, nil
}

// Delete removes the contact id owned by userID.
func (s *ContactService) Delete(ctx context.Context, userID, id string) error {
	err := s.Repo.DeleteContact(ctx, s.DB, id, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrContactNotFound
	}
	return err
}

// validateContact checks the required fields and their lengths.
func validateContact(c *domain.Contact) error {
	ve := &ValidationError{}
	if c.Name == "" {
		ve.add("name", "This field is required.")
	} else if validate.Var(c.Name, "max=100") != nil {
		ve.add("name", "Ensure this field has no more than 100 characters.")
	}
	if c.Phone == "" {
		ve.add("phone", "This field is required.")
	} else if validate.Var(c.Phone, "max=20") != nil {
		ve.add("phone", "Ensure this field has no more than 20 characters.")
	}
	if c.Email == "" {
		ve.add("email", "This field is required.")
	} else if validate.Var(c.Email, "email,max=254") != nil {
		ve.add("email", "Enter a valid email address.")
	}
	if c.BusinessName != nil && validate.Var(*c.BusinessName, "max=200") != nil {
		ve.add("business_name", "Ensure this field has no more than 200 characters.")
	}
	if c.BusinessPlaceID != nil && validate.Var(*c.BusinessPlaceID, "max=200") != nil {
		ve.add("business_place_id", "Ensure this field has no more than 200 characters.")
	}
	return ve.orNil()
}

// optional trims p and maps blank values to nil.
func optional(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
