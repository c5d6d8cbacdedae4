package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/review-outreach/internal/domain"
)

const newestFirst = "created_at desc, id desc"

// owned scopes a query to the contacts of userID.
func owned(userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB { return db.Where("user_id = ?", userID) }
}

// ownedRow narrows owned to a single contact id.
func ownedRow(id, userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB { return db.Scopes(owned(userID)).Where("id = ?", id) }
}

// CreateContact inserts c for its owner. The id, timestamps, review status and
// derived links are filled in here; caller-supplied links are kept as-is.
func CreateContact(ctx context.Context, db *gorm.DB, c *domain.Contact, reviewBaseURL string) (*domain.Contact, error) {
	now := time.Now().UTC()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.ReviewStatus == "" {
		c.ReviewStatus = domain.ReviewNotSent
	}
	c.DeriveLinks(reviewBaseURL)

	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return c, nil
}

// ListContacts returns all contacts belonging to userID, most recently
// created first. Ties on created_at are broken by id for a stable order.
func ListContacts(ctx context.Context, db *gorm.DB, userID string) ([]domain.Contact, error) {
	var out []domain.Contact
	err := db.WithContext(ctx).Scopes(owned(userID)).Order(newestFirst).Find(&out).Error
	return out, err
}

// CountContacts returns the total number of contacts owned by userID.
func CountContacts(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Contact{}).Scopes(owned(userID)).Count(&n).Error
	return n, err
}

// ListContactsPage returns a page of contacts for userID in the same order
// as ListContacts.
func ListContactsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Contact, error) {
	var page []domain.Contact
	err := db.WithContext(ctx).
		Scopes(owned(userID)).
		Order(newestFirst).
		Offset(offset).
		Limit(limit).
		Find(&page).Error
	return page, err
}

// GetContact fetches a contact by id and owner, or ErrNotFound.
func GetContact(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Contact, error) {
	c := new(domain.Contact)
	if err := db.WithContext(ctx).Scopes(ownedRow(id, userID)).Take(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// ListContactsByIDs returns the contacts among ids that userID owns, in no
// particular order. Unknown or foreign ids are simply absent from the result.
func ListContactsByIDs(ctx context.Context, db *gorm.DB, userID string, ids []string) ([]domain.Contact, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []domain.Contact
	err := db.WithContext(ctx).Scopes(owned(userID)).Where("id IN ?", ids).Find(&found).Error
	return found, err
}

// EmailInUse reports whether userID already has a contact with email,
// ignoring the contact excludeID (pass "" on create). The comparison is
// exact, so addresses differing only in case are distinct.
func EmailInUse(ctx context.Context, db *gorm.DB, userID, email, excludeID string) (bool, error) {
	q := db.WithContext(ctx).Model(&domain.Contact{}).Scopes(owned(userID)).Where("email = ?", email)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// SaveContact writes all fields of an existing contact. The BeforeSave hook
// fills derived links that are still empty and never overwrites set ones.
func SaveContact(ctx context.Context, db *gorm.DB, c *domain.Contact) error {
	c.UpdatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Save(c).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// UpdateContactStatus sets review_status and last_contacted_at for a contact
// owned by userID. It returns ErrNotFound when no row matched. The write is a
// plain column update; model hooks do not run.
func UpdateContactStatus(ctx context.Context, db *gorm.DB, id, userID string, status domain.ReviewStatus, at time.Time) error {
	return affectedOne(db.WithContext(ctx).
		Model(&domain.Contact{}).
		Scopes(ownedRow(id, userID)).
		UpdateColumns(map[string]any{
			"review_status":     status,
			"last_contacted_at": at,
			"updated_at":        at,
		}))
}

// DeleteContact removes a contact owned by userID, or returns ErrNotFound.
func DeleteContact(ctx context.Context, db *gorm.DB, id, userID string) error {
	return affectedOne(db.WithContext(ctx).Scopes(ownedRow(id, userID)).Delete(&domain.Contact{}))
}

// affectedOne maps a write that matched no row to ErrNotFound.
func affectedOne(res *gorm.DB) error {
	switch {
	case res.Error != nil:
		return res.Error
	case res.RowsAffected == 0:
		return ErrNotFound
	}
	return nil
}
