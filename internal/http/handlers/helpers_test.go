package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/review-outreach/internal/domain"
	"github.com/tbourn/review-outreach/internal/http/middleware"
	"github.com/tbourn/review-outreach/internal/mailer"
	"github.com/tbourn/review-outreach/internal/places"
	"github.com/tbourn/review-outreach/internal/repo"
	"github.com/tbourn/review-outreach/internal/services"
)

// ---------- test DB + repo shim ----------

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique DSN per call to avoid cross-test contamination
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// testRepo implements every services repo interface using the repo package
// (like the router shims).
type testRepo struct{}

func (testRepo) CreateContact(ctx context.Context, db *gorm.DB, c *domain.Contact, base string) (*domain.Contact, error) {
	return repo.CreateContact(ctx, db, c, base)
}
func (testRepo) ListContacts(ctx context.Context, db *gorm.DB, userID string) ([]domain.Contact, error) {
	return repo.ListContacts(ctx, db, userID)
}
func (testRepo) CountContacts(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.CountContacts(ctx, db, userID)
}
func (testRepo) ListContactsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Contact, error) {
	return repo.ListContactsPage(ctx, db, userID, offset, limit)
}
func (testRepo) GetContact(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Contact, error) {
	return repo.GetContact(ctx, db, id, userID)
}
func (testRepo) ListContactsByIDs(ctx context.Context, db *gorm.DB, userID string, ids []string) ([]domain.Contact, error) {
	return repo.ListContactsByIDs(ctx, db, userID, ids)
}
func (testRepo) EmailInUse(ctx context.Context, db *gorm.DB, userID, email, excludeID string) (bool, error) {
	return repo.EmailInUse(ctx, db, userID, email, excludeID)
}
func (testRepo) SaveContact(ctx context.Context, db *gorm.DB, c *domain.Contact) error {
	return repo.SaveContact(ctx, db, c)
}
func (testRepo) UpdateContactStatus(ctx context.Context, db *gorm.DB, id, userID string, st domain.ReviewStatus, at time.Time) error {
	return repo.UpdateContactStatus(ctx, db, id, userID, st, at)
}
func (testRepo) DeleteContact(ctx context.Context, db *gorm.DB, id, userID string) error {
	return repo.DeleteContact(ctx, db, id, userID)
}
func (testRepo) CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) (*domain.User, error) {
	return repo.CreateUser(ctx, db, u)
}
func (testRepo) GetUserByID(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	return repo.GetUserByID(ctx, db, id)
}
func (testRepo) GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	return repo.GetUserByEmail(ctx, db, email)
}
func (testRepo) SaveUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	return repo.SaveUser(ctx, db, u)
}

// ---------- fakes ----------

// recordingSender fails delivery to any address in fail.
type recordingSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	fail map[string]bool
}

func (s *recordingSender) Send(_ context.Context, m mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[m.To] {
		return errors.New("mailbox unavailable")
	}
	s.sent = append(s.sent, m)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type stubPlaces struct {
	search  func(ctx context.Context, q, loc string) ([]places.Place, error)
	details func(ctx context.Context, id string) (*places.PlaceDetails, error)
	photo   func(ctx context.Context, ref string) (*places.PhotoData, error)
}

func (s stubPlaces) Search(ctx context.Context, q, loc string) ([]places.Place, error) {
	if s.search != nil {
		return s.search(ctx, q, loc)
	}
	return nil, nil
}

func (s stubPlaces) Details(ctx context.Context, id string) (*places.PlaceDetails, error) {
	if s.details != nil {
		return s.details(ctx, id)
	}
	return nil, places.ErrPlaceNotFound
}

func (s stubPlaces) Photo(ctx context.Context, ref string) (*places.PhotoData, error) {
	if s.photo != nil {
		return s.photo(ctx, ref)
	}
	return nil, places.ErrPhotoNotFound
}

// ---------- environment ----------

const testJWTSecret = "handler-secret"

type testEnv struct {
	db     *gorm.DB
	sender *recordingSender
	h      *Handlers
	r      *gin.Engine
}

// newTestEnv wires real services over an in-memory DB. Requests carrying
// X-Test-User are treated as authenticated by that account.
func newTestEnv(t *testing.T, pl PlacesClient) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newHandlerDB(t)
	sender := &recordingSender{fail: map[string]bool{}}

	users := services.NewUserService(db, testRepo{}, testJWTSecret, time.Hour)
	users.BcryptCost = bcrypt.MinCost
	if pl == nil {
		pl = stubPlaces{}
	}
	h := New(Deps{
		Contacts:       services.NewContactService(db, testRepo{}, "https://reviews.test"),
		Outreach:       services.NewOutreachService(db, testRepo{}, sender, "noreply@reviews.test"),
		Users:          users,
		Places:         pl,
		DB:             db,
		IdempotencyTTL: time.Hour,
	})

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)

	api := r.Group("", func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set("userID", uid)
		}
		c.Next()
	}, middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, IdempotencyLookup(db)))
	api.GET("/business-profile", h.GetBusinessProfile)
	api.PUT("/business-profile", h.UpdateBusinessProfile)
	api.GET("/places/search", h.SearchPlaces)
	api.GET("/places/photo", h.PlacePhoto)
	api.GET("/places/:place_id", h.PlaceDetails)
	api.GET("/contacts", h.ListContacts)
	api.POST("/contacts", h.CreateContact)
	api.POST("/contacts/bulk-email", h.BulkEmail)
	api.GET("/contacts/:id", h.GetContact)
	api.PUT("/contacts/:id", h.UpdateContact)
	api.DELETE("/contacts/:id", h.DeleteContact)
	api.POST("/contacts/:id/send", h.SendReviewEmail)

	return &testEnv{db: db, sender: sender, h: h, r: r}
}

func (e *testEnv) seedUser(t *testing.T, id, businessName string) *domain.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), e.db, &domain.User{
		ID:           id,
		Email:        id + "@shop.test",
		PasswordHash: "x",
		FirstName:    "First",
		LastName:     "Last",
		BusinessName: businessName,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func (e *testEnv) seedContact(t *testing.T, userID, name, email string, placeID *string) *domain.Contact {
	t.Helper()
	c, err := repo.CreateContact(context.Background(), e.db, &domain.Contact{
		UserID:          userID,
		Name:            name,
		Phone:           "555",
		Email:           email,
		BusinessPlaceID: placeID,
	}, "https://reviews.test")
	if err != nil {
		t.Fatalf("seed contact: %v", err)
	}
	return c
}

// do performs a request as user (empty = anonymous) with an optional JSON body.
func (e *testEnv) do(t *testing.T, method, path, user string, body any, hdr ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("json: %v; body=%s", err, w.Body.String())
	}
	return v
}

func strp(s string) *string { return &s }
