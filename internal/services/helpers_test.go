package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tbourn/review-outreach/internal/domain"
	"github.com/tbourn/review-outreach/internal/repo"
)

// dbRepo proxies the repository free functions, satisfying every repo
// interface the services declare.
type dbRepo struct{}

func (dbRepo) CreateContact(ctx context.Context, db *gorm.DB, c *domain.Contact, base string) (*domain.Contact, error) {
	return repo.CreateContact(ctx, db, c, base)
}
func (dbRepo) ListContacts(ctx context.Context, db *gorm.DB, userID string) ([]domain.Contact, error) {
	return repo.ListContacts(ctx, db, userID)
}
func (dbRepo) CountContacts(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.CountContacts(ctx, db, userID)
}
func (dbRepo) ListContactsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Contact, error) {
	return repo.ListContactsPage(ctx, db, userID, offset, limit)
}
func (dbRepo) GetContact(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Contact, error) {
	return repo.GetContact(ctx, db, id, userID)
}
func (dbRepo) ListContactsByIDs(ctx context.Context, db *gorm.DB, userID string, ids []string) ([]domain.Contact, error) {
	return repo.ListContactsByIDs(ctx, db, userID, ids)
}
func (dbRepo) EmailInUse(ctx context.Context, db *gorm.DB, userID, email, excludeID string) (bool, error) {
	return repo.EmailInUse(ctx, db, userID, email, excludeID)
}
func (dbRepo) SaveContact(ctx context.Context, db *gorm.DB, c *domain.Contact) error {
	return repo.SaveContact(ctx, db, c)
}
func (dbRepo) UpdateContactStatus(ctx context.Context, db *gorm.DB, id, userID string, st domain.ReviewStatus, at time.Time) error {
	return repo.UpdateContactStatus(ctx, db, id, userID, st, at)
}
func (dbRepo) DeleteContact(ctx context.Context, db *gorm.DB, id, userID string) error {
	return repo.DeleteContact(ctx, db, id, userID)
}
func (dbRepo) CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) (*domain.User, error) {
	return repo.CreateUser(ctx, db, u)
}
func (dbRepo) GetUserByID(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	return repo.GetUserByID(ctx, db, id)
}
func (dbRepo) GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	return repo.GetUserByEmail(ctx, db, email)
}
func (dbRepo) SaveUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	return repo.SaveUser(ctx, db, u)
}

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repo.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id, businessName string) *domain.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), db, &domain.User{
		ID:           id,
		Email:        id + "@shop.test",
		PasswordHash: "x",
		FirstName:    "First",
		LastName:     "Last",
		BusinessName: businessName,
	})
	require.NoError(t, err)
	return u
}

func strp(s string) *string { return &s }
