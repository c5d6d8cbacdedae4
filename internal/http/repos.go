package httpapi

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/review-outreach/internal/domain"
	"github.com/tbourn/review-outreach/internal/repo"
)

// repoFuncs satisfies services.ContactRepo, services.OutreachRepo and
// services.UserRepo by forwarding to the repo package.
type repoFuncs struct{}

func (repoFuncs) CreateContact(ctx context.Context, db *gorm.DB, c *domain.Contact, reviewBaseURL string) (*domain.Contact, error) {
	return repo.CreateContact(ctx, db, c, reviewBaseURL)
}

func (repoFuncs) ListContacts(ctx context.Context, db *gorm.DB, userID string) ([]domain.Contact, error) {
	return repo.ListContacts(ctx, db, userID)
}

func (repoFuncs) CountContacts(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.CountContacts(ctx, db, userID)
}

func (repoFuncs) ListContactsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Contact, error) {
	return repo.ListContactsPage(ctx, db, userID, offset, limit)
}

func (repoFuncs) GetContact(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Contact, error) {
	return repo.GetContact(ctx, db, id, userID)
}

func (repoFuncs) ListContactsByIDs(ctx context.Context, db *gorm.DB, userID string, ids []string) ([]domain.Contact, error) {
	return repo.ListContactsByIDs(ctx, db, userID, ids)
}

func (repoFuncs) EmailInUse(ctx context.Context, db *gorm.DB, userID, email, excludeID string) (bool, error) {
	return repo.EmailInUse(ctx, db, userID, email, excludeID)
}

func (repoFuncs) SaveContact(ctx context.Context, db *gorm.DB, c *domain.Contact) error {
	return repo.SaveContact(ctx, db, c)
}

func (repoFuncs) UpdateContactStatus(ctx context.Context, db *gorm.DB, id, userID string, status domain.ReviewStatus, at time.Time) error {
	return repo.UpdateContactStatus(ctx, db, id, userID, status, at)
}

func (repoFuncs) DeleteContact(ctx context.Context, db *gorm.DB, id, userID string) error {
	return repo.DeleteContact(ctx, db, id, userID)
}

func (repoFuncs) CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) (*domain.User, error) {
	return repo.CreateUser(ctx, db, u)
}

func (repoFuncs) GetUserByID(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	return repo.GetUserByID(ctx, db, id)
}

func (repoFuncs) GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	return repo.GetUserByEmail(ctx, db, email)
}

func (repoFuncs) SaveUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	return repo.SaveUser(ctx, db, u)
}
