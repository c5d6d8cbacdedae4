// Package domain defines the persistence models for business accounts and
// their customer contacts. These types are mapped with GORM and form the core
// data layer of the review outreach service.
package domain

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewStatus tracks outreach progress for a single contact.
type ReviewStatus string

const (
	ReviewNotSent   ReviewStatus = "not_sent"
	ReviewSent      ReviewStatus = "sent"
	ReviewPending   ReviewStatus = "pending"
	ReviewCompleted ReviewStatus = "completed"
)

// Valid reports whether s is one of the known review statuses.
func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewNotSent, ReviewSent, ReviewPending, ReviewCompleted:
		return true
	}
	return false
}

const (
	// DefaultReviewBaseURL hosts the first-party review landing page.
	DefaultReviewBaseURL = "https://bonrate.pro"

	// DefaultBusinessType is assigned to accounts that never chose one.
	DefaultBusinessType = "Restaurant"

	googleWriteReviewURL = "https://search.google.com/local/writereview?placeid="
)

// ReviewURLFor returns the generic review link for a contact id.
func ReviewURLFor(baseURL, contactID string) string {
	if baseURL == "" {
		baseURL = DefaultReviewBaseURL
	}
	return strings.TrimRight(baseURL, "/") + "/review/" + contactID
}

// GoogleReviewURLFor returns the directory review link for a place id.
func GoogleReviewURLFor(placeID string) string {
	return googleWriteReviewURL + url.QueryEscape(placeID)
}

// User is a business account. Email is stored lower-cased and is unique.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Email: login identity, unique, lower-cased by the service layer.
//   - PasswordHash: bcrypt hash; never serialized.
//   - BusinessName / BusinessType: shown in outgoing review requests.
//   - Remaining fields form the editable business profile.
type User struct {
	ID             string    `json:"id"              gorm:"type:char(36);primaryKey"`
	Email          string    `json:"email"           gorm:"type:varchar(254);not null;uniqueIndex:ux_users_email"`
	PasswordHash   string    `json:"-"               gorm:"type:varchar(255);not null"`
	FirstName      string    `json:"first_name"      gorm:"type:varchar(50);not null"`
	LastName       string    `json:"last_name"       gorm:"type:varchar(50);not null"`
	BusinessName   string    `json:"business_name"   gorm:"type:varchar(100);not null"`
	BusinessType   string    `json:"business_type"   gorm:"type:varchar(50);not null;default:'Restaurant'"`
	Phone          string    `json:"phone"           gorm:"type:varchar(20)"`
	Address        string    `json:"address"         gorm:"type:text"`
	Description    string    `json:"description"     gorm:"type:text"`
	Website        string    `json:"website"         gorm:"type:varchar(255)"`
	Facebook       string    `json:"facebook"        gorm:"type:varchar(255)"`
	Instagram      string    `json:"instagram"       gorm:"type:varchar(255)"`
	GoogleBusiness string    `json:"google_business" gorm:"type:varchar(255)"`
	BusinessHours  string    `json:"business_hours"  gorm:"type:text"`
	IsActive       bool      `json:"-"               gorm:"not null;default:true"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Contact is a customer the owning user wants a review from. The pair
// (UserID, Email) is unique; email comparison is case-sensitive.
//
// ReviewURL and GoogleReviewURL are derived once, on the first save that
// finds them empty, and are never recomputed afterwards.
type Contact struct {
	ID              string       `json:"id"                gorm:"type:char(36);primaryKey"`
	UserID          string       `json:"-"                 gorm:"type:char(36);not null;index:idx_user_contacts,priority:1;uniqueIndex:ux_contacts_user_email,priority:1"`
	Name            string       `json:"name"              gorm:"type:varchar(100);not null"`
	Phone           string       `json:"phone"             gorm:"type:varchar(20);not null"`
	Email           string       `json:"email"             gorm:"type:varchar(254);not null;uniqueIndex:ux_contacts_user_email,priority:2"`
	BusinessName    *string      `json:"business_name"     gorm:"type:varchar(200)"`
	BusinessPlaceID *string      `json:"business_place_id" gorm:"type:varchar(200)"`
	BusinessAddress *string      `json:"business_address"  gorm:"type:text"`
	GoogleReviewURL *string      `json:"google_review_url" gorm:"type:varchar(512)"`
	ReviewURL       string       `json:"review_url"        gorm:"type:varchar(512);not null"`
	ReviewStatus    ReviewStatus `json:"review_status"     gorm:"type:varchar(20);not null;default:'not_sent';check:review_status IN ('not_sent','sent','pending','completed')"`
	LastContactedAt *time.Time   `json:"last_contact"`
	CreatedAt       time.Time    `json:"created_at"        gorm:"index:idx_user_contacts,priority:2"`
	UpdatedAt       time.Time    `json:"updated_at"`

	// User is the owning account. Contacts are cascade-deleted with it.
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Contact.
func (Contact) TableName() string { return "contacts" }

// DeriveLinks fills the generic and directory review links when they are
// still empty. Links that are already set are left untouched.
func (c *Contact) DeriveLinks(reviewBaseURL string) {
	if c.ReviewURL == "" && c.ID != "" {
		c.ReviewURL = ReviewURLFor(reviewBaseURL, c.ID)
	}
	if c.BusinessPlaceID != nil && *c.BusinessPlaceID != "" &&
		(c.GoogleReviewURL == nil || *c.GoogleReviewURL == "") {
		link := GoogleReviewURLFor(*c.BusinessPlaceID)
		c.GoogleReviewURL = &link
	}
}

// EffectiveReviewURL picks the link a review request should carry: the
// directory link when present, else the generic one. The boolean reports
// whether the directory link was chosen.
func (c *Contact) EffectiveReviewURL() (string, bool) {
	if c.GoogleReviewURL != nil && *c.GoogleReviewURL != "" {
		return *c.GoogleReviewURL, true
	}
	return c.ReviewURL, false
}

// BeforeCreate assigns an id, the initial review status and the derived
// links for any insert path, including ones that bypass the repository.
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.ReviewStatus == "" {
		c.ReviewStatus = ReviewNotSent
	}
	c.DeriveLinks(DefaultReviewBaseURL)
	return nil
}

// BeforeSave fills derived links that are still empty on a loaded contact.
// Column updates issued through an empty model (Model(&Contact{})) carry no
// id and are left alone, so gorm never scopes them to an invented key.
func (c *Contact) BeforeSave(tx *gorm.DB) error {
	if c.ID == "" {
		return nil
	}
	c.DeriveLinks(DefaultReviewBaseURL)
	return nil
}
